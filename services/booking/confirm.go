package booking

import (
	"context"
	"fmt"
	"time"

	"agendei/models"
	"agendei/utils"

	"go.uber.org/zap"
)

// SubmitLockPrefix is the Redis key prefix for per-session submission locks.
const SubmitLockPrefix = "bookingSubmit:"

// Confirm validates the current selection against the latest snapshot
// and performs the create-appointment call. At most one submission may
// be in flight per session; a second Confirm while one is pending is
// refused without touching the upstream. On upstream failure the session
// is left intact so the same selection can be retried.
func (s *DefaultBookingSessionService) Confirm(ctx context.Context, auth models.AuthContext, sessionID string) (*models.BookingConfirmation, error) {
	logger := utils.GetLogger()

	lockKey := SubmitLockPrefix + sessionID
	acquired, err := s.Cache.SetNX(ctx, lockKey, "1", s.lockTTL()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire submission lock: %w", err)
	}
	if !acquired {
		return nil, NewBookingError(CodeSubmitInFlight, "a submission for this session is already in flight")
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		s.releaseLock(ctx, lockKey)
		return nil, err
	}

	// Local gate: never submit an hour the latest snapshot does not list
	// as available. Rejections release the lock so a corrected selection
	// can be submitted immediately.
	if !session.HourSelected() {
		s.releaseLock(ctx, lockKey)
		return nil, NewBookingError(CodeNoHourSelected, "no hour selected")
	}
	hour := *session.Hour
	record, listed := session.SnapshotRecord(hour)
	if !listed || !record.Available {
		s.releaseLock(ctx, lockKey)
		return nil, NewBookingError(CodeSlotUnavailable, fmt.Sprintf("hour %s is no longer available", HourLabel(hour)))
	}

	day, err := time.ParseInLocation(dateLayout, session.Date, time.Local)
	if err != nil {
		s.releaseLock(ctx, lockKey)
		return nil, fmt.Errorf("invalid session date %q: %w", session.Date, err)
	}
	// Minutes and seconds are always zero, regardless of wall clock.
	dateTime := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.Local)

	request := models.AppointmentRequest{
		ProviderID: session.SelectedProvider,
		DateTime:   dateTime,
	}

	created, err := s.API.CreateAppointment(ctx, auth, request)
	if err != nil {
		// Recoverable: selection is untouched, the user may retry.
		s.releaseLock(ctx, lockKey)
		return nil, &BookingError{
			Code:    CodeSubmissionFailed,
			Message: "failed to create the appointment, try again",
			Err:     err,
		}
	}

	now := time.Now()
	confirmation := &models.BookingConfirmation{
		ProviderID: session.SelectedProvider,
		DateTime:   created.DateTime,
		DateMillis: created.DateTime.UnixMilli(),
		Message:    FormatConfirmation(created.DateTime),
		CreatedAt:  now,
	}

	// The booking flow is done; the session and its lock go away.
	if err := s.Cache.Del(ctx, SessionKeyPrefix+sessionID, lockKey).Err(); err != nil {
		logger.Warn("failed to clean up confirmed booking session",
			zap.String("sessionID", sessionID), zap.Error(err))
	}

	s.notifyConfirmed(ctx, session, confirmation)

	logger.Info("booking confirmed",
		zap.String("sessionID", sessionID),
		zap.String("providerID", session.SelectedProvider),
		zap.Time("dateTime", created.DateTime))
	return confirmation, nil
}

// notifyConfirmed sends the confirmation push and schedules the reminder
// task. Both are best-effort: a push or queue failure never fails a
// booking that the upstream already accepted.
func (s *DefaultBookingSessionService) notifyConfirmed(ctx context.Context, session *models.BookingSession, confirmation *models.BookingConfirmation) {
	logger := utils.GetLogger()

	if s.Notifier != nil && session.DeviceToken != "" {
		err := s.Notifier.SendPush(ctx, session.DeviceToken,
			"Agendamento concluído",
			confirmation.Message,
			map[string]string{"dateMillis": fmt.Sprintf("%d", confirmation.DateMillis)},
		)
		if err != nil {
			logger.Warn("failed to send confirmation push",
				zap.String("sessionID", session.SessionID), zap.Error(err))
		}
	}

	if s.Reminders == nil || session.DeviceToken == "" {
		return
	}
	lead := s.ReminderLead
	if lead <= 0 {
		lead = 2 * time.Hour
	}
	fireAt := confirmation.DateTime.Add(-lead)
	if !fireAt.After(time.Now()) {
		// Appointment is sooner than the lead time; no reminder.
		return
	}
	payload := models.ReminderPayload{
		SessionID:   session.SessionID,
		DeviceToken: session.DeviceToken,
		Title:       "Lembrete de agendamento",
		Body:        confirmation.Message,
		FireDate:    fireAt.Format(time.RFC3339),
	}
	if err := s.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		logger.Warn("failed to schedule reminder",
			zap.String("sessionID", session.SessionID), zap.Error(err))
	}
}

func (s *DefaultBookingSessionService) releaseLock(ctx context.Context, lockKey string) {
	if err := s.Cache.Del(ctx, lockKey).Err(); err != nil {
		utils.GetLogger().Warn("failed to release submission lock",
			zap.String("lockKey", lockKey), zap.Error(err))
	}
}
