package models

import "time"

// AppointmentRequest is the payload for the upstream create-appointment
// call. DateTime carries the selected calendar day at the selected hour
// with minutes and seconds zeroed; it is only ever constructed at
// submission time.
type AppointmentRequest struct {
	ProviderID string    `json:"provider_id"`
	DateTime   time.Time `json:"date"`
}

// CreatedAppointment is the upstream's answer to a successful create
// call. The backend echoes the accepted instant.
type CreatedAppointment struct {
	DateTime time.Time `json:"date"`
}

// BookingConfirmation is the terminal artifact handed to the
// confirmation step after a successful booking.
type BookingConfirmation struct {
	ProviderID string    `json:"providerId"`
	DateTime   time.Time `json:"dateTime"`
	DateMillis int64     `json:"dateMillis"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReminderPayload is the asynq task payload for a scheduled
// appointment reminder push.
type ReminderPayload struct {
	SessionID   string `json:"sessionId"`
	DeviceToken string `json:"deviceToken"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	FireDate    string `json:"fireDate"`
}
