package models

import "time"

// BookingSession holds the state of one in-progress booking attempt:
// the provider/date/hour selection plus the availability snapshot for
// the currently selected (provider, date) pair. Stored as JSON in Redis
// with a TTL; an expired session is an abandoned booking.
type BookingSession struct {
	SessionID   string     `json:"sessionId"`
	UserID      string     `json:"userId"`
	DeviceToken string     `json:"deviceToken,omitempty"`
	Providers   []Provider `json:"providers,omitempty"`

	SelectedProvider string `json:"selectedProviderId"`
	// Date is the selected calendar day ("2006-01-02"); the time-of-day
	// component of whatever the client picked is discarded.
	Date string `json:"date"`
	// Hour is nil until the user picks one. It is deliberately NOT reset
	// when provider or date changes; submit-time validation is the gate.
	Hour *int `json:"hour,omitempty"`

	// Availability is the snapshot for (SelectedProvider, Date). Cleared
	// whenever either changes, refilled by the tagged fetch result.
	Availability []HourAvailability `json:"availability,omitempty"`
	// FetchToken identifies the most recently issued availability fetch.
	// A result carrying any other token is stale and must be discarded.
	FetchToken string `json:"fetchToken,omitempty"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// HourSelected reports whether an hour has been picked yet.
func (s *BookingSession) HourSelected() bool {
	return s.Hour != nil
}

// SnapshotRecord returns the availability record for the given hour, or
// false when the hour is absent from the current snapshot.
func (s *BookingSession) SnapshotRecord(hour int) (HourAvailability, bool) {
	for _, rec := range s.Availability {
		if rec.Hour == hour {
			return rec, true
		}
	}
	return HourAvailability{}, false
}
