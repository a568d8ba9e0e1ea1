package booking

import (
	"context"
	"time"

	"agendei/models"
	"agendei/services/notification"
	"agendei/upstream"

	"github.com/go-redis/redis/v8"
)

// BookingSessionService manages the lifecycle of one booking attempt:
// start with a preselected provider, move the provider/date/hour
// selection around, and confirm the chosen slot against the upstream
// appointments backend.
type BookingSessionService interface {
	StartSession(ctx context.Context, auth models.AuthContext, providerID, deviceToken string) (*models.BookingSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)
	SelectProvider(ctx context.Context, auth models.AuthContext, sessionID, providerID string) (*models.BookingSession, error)
	SelectDate(ctx context.Context, auth models.AuthContext, sessionID string, date time.Time) (*models.BookingSession, error)
	SelectHour(ctx context.Context, sessionID string, hour int) (*models.BookingSession, error)
	Confirm(ctx context.Context, auth models.AuthContext, sessionID string) (*models.BookingConfirmation, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// ReminderScheduler enqueues a reminder push to fire before the
// appointment. Implemented by cron.ReminderScheduler.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// DefaultBookingSessionService implements BookingSessionService on top
// of the upstream schedule API and a Redis session store.
type DefaultBookingSessionService struct {
	API       upstream.ScheduleAPI
	Cache     *redis.Client
	Notifier  notification.NotificationService
	Reminders ReminderScheduler

	// SessionTTL bounds how long an abandoned session lingers.
	SessionTTL time.Duration
	// LockTTL bounds how long a crashed submission can hold the lock.
	LockTTL time.Duration
	// ReminderLead is how long before the appointment the reminder fires.
	ReminderLead time.Duration
}

func (s *DefaultBookingSessionService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 30 * time.Minute
}

func (s *DefaultBookingSessionService) lockTTL() time.Duration {
	if s.LockTTL > 0 {
		return s.LockTTL
	}
	return 30 * time.Second
}
