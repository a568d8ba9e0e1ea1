package upstream

import (
	"context"
	"time"

	"agendei/models"
)

// ScheduleAPI is the client-side view of the appointments backend, the
// system of record for providers, day availability and appointments.
// Every call carries the caller's AuthContext; none of them retries
// internally.
type ScheduleAPI interface {
	// ListProviders returns the ordered provider list for the
	// authenticated user.
	ListProviders(ctx context.Context, auth models.AuthContext) ([]models.Provider, error)

	// DayAvailability returns one HourAvailability record per hour of the
	// provider's operating window for the given calendar day.
	DayAvailability(ctx context.Context, auth models.AuthContext, providerID string, year int, month time.Month, day int) ([]models.HourAvailability, error)

	// CreateAppointment performs the create call. Exactly one network
	// request per invocation; the backend echoes the accepted instant.
	CreateAppointment(ctx context.Context, auth models.AuthContext, req models.AppointmentRequest) (*models.CreatedAppointment, error)
}
