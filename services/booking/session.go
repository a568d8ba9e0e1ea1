package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agendei/models"
	"agendei/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// SessionKeyPrefix is the Redis key prefix for booking sessions.
	SessionKeyPrefix = "bookingSession:"
	dateLayout       = "2006-01-02"
)

// StartSession creates a new booking session with the given provider
// preselected, the date set to today and no hour chosen, loads the
// provider list, and fetches the initial availability snapshot.
func (s *DefaultBookingSessionService) StartSession(ctx context.Context, auth models.AuthContext, providerID, deviceToken string) (*models.BookingSession, error) {
	providers, err := s.API.ListProviders(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	if !providerListed(providers, providerID) {
		return nil, NewBookingError(CodeInvalidInput, fmt.Sprintf("provider %s is not available for booking", providerID))
	}

	now := time.Now()
	session := &models.BookingSession{
		SessionID:        uuid.New().String(),
		UserID:           auth.UserID,
		DeviceToken:      deviceToken,
		Providers:        providers,
		SelectedProvider: providerID,
		Date:             now.Format(dateLayout),
		CreatedAt:        now,
		LastUpdatedAt:    now,
	}

	if err := s.refreshAvailability(ctx, auth, session); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, session.SessionID)
}

// GetSession retrieves a session from Redis.
func (s *DefaultBookingSessionService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.Cache.Get(ctx, SessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, NewBookingError(CodeSessionNotFound, "booking session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

// SelectProvider switches the session to another provider and triggers a
// fresh availability fetch for (provider, date). The chosen hour, if
// any, is left untouched; only submission validates it.
func (s *DefaultBookingSessionService) SelectProvider(ctx context.Context, auth models.AuthContext, sessionID, providerID string) (*models.BookingSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !providerListed(session.Providers, providerID) {
		return nil, NewBookingError(CodeInvalidInput, fmt.Sprintf("provider %s is not in the session's provider list", providerID))
	}

	session.SelectedProvider = providerID
	if err := s.refreshAvailability(ctx, auth, session); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, sessionID)
}

// SelectDate moves the session to another calendar day (the time-of-day
// component of the picked value is discarded) and triggers a fresh
// availability fetch.
func (s *DefaultBookingSessionService) SelectDate(ctx context.Context, auth models.AuthContext, sessionID string, date time.Time) (*models.BookingSession, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Date = date.Format(dateLayout)
	if err := s.refreshAvailability(ctx, auth, session); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, sessionID)
}

// SelectHour records the chosen hour. No availability check happens
// here: the client may highlight any listed hour, and a stale choice is
// only rejected at confirmation time.
func (s *DefaultBookingSessionService) SelectHour(ctx context.Context, sessionID string, hour int) (*models.BookingSession, error) {
	if hour < 0 || hour > 23 {
		return nil, NewBookingError(CodeInvalidInput, fmt.Sprintf("hour %d is out of range", hour))
	}
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Hour = &hour
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CancelSession abandons the booking attempt. Late availability results
// for the torn-down session are dropped by the token guard the same way
// superseded fetches are.
func (s *DefaultBookingSessionService) CancelSession(ctx context.Context, sessionID string) error {
	if err := s.Cache.Del(ctx, SessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}

// refreshAvailability issues a fresh availability fetch for the
// session's current (provider, date) pair. The snapshot is cleared and
// tagged with a new fetch token before the call goes out, so whatever
// result arrives is only applied if it still matches the latest issue.
func (s *DefaultBookingSessionService) refreshAvailability(ctx context.Context, auth models.AuthContext, session *models.BookingSession) error {
	token := uuid.New().String()
	session.FetchToken = token
	session.Availability = nil
	if err := s.saveSession(ctx, session); err != nil {
		return err
	}

	day, err := time.ParseInLocation(dateLayout, session.Date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid session date %q: %w", session.Date, err)
	}

	records, err := s.API.DayAvailability(ctx, auth, session.SelectedProvider, day.Year(), day.Month(), day.Day())
	if err != nil {
		return fmt.Errorf("failed to fetch availability: %w", err)
	}

	return s.ApplyAvailability(ctx, session.SessionID, token, records)
}

// ApplyAvailability installs a fetch result as the session's snapshot.
// The result is discarded when its token no longer matches the latest
// issued fetch (the selection moved on) or when the session is gone
// (abandoned mid-flight). Discarding is silent and not an error.
func (s *DefaultBookingSessionService) ApplyAvailability(ctx context.Context, sessionID, token string, records []models.HourAvailability) error {
	logger := utils.GetLogger()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		if ErrorCode(err) == CodeSessionNotFound {
			logger.Debug("dropping availability result for torn-down session",
				zap.String("sessionID", sessionID))
			return nil
		}
		return err
	}

	if session.FetchToken != token {
		logger.Debug("discarding stale availability result",
			zap.String("sessionID", sessionID),
			zap.String("resultToken", token),
			zap.String("currentToken", session.FetchToken))
		return nil
	}

	session.Availability = records
	return s.saveSession(ctx, session)
}

func (s *DefaultBookingSessionService) saveSession(ctx context.Context, session *models.BookingSession) error {
	session.LastUpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, SessionKeyPrefix+session.SessionID, data, s.sessionTTL()).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func providerListed(providers []models.Provider, providerID string) bool {
	for _, p := range providers {
		if p.ID == providerID {
			return true
		}
	}
	return false
}
