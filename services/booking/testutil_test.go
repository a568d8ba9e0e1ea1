package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"agendei/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// fakeScheduleAPI is an in-memory stand-in for the appointments backend.
type fakeScheduleAPI struct {
	mu sync.Mutex

	providers    []models.Provider
	availability map[string][]models.HourAvailability

	availabilityCalls []string
	createCalls       []models.AppointmentRequest
	createErr         error
}

func newFakeScheduleAPI() *fakeScheduleAPI {
	return &fakeScheduleAPI{
		providers: []models.Provider{
			{ID: "p1", Name: "João", AvatarURL: "https://example.com/p1.png"},
			{ID: "p2", Name: "Maria", AvatarURL: "https://example.com/p2.png"},
		},
		availability: make(map[string][]models.HourAvailability),
	}
}

func availKey(providerID string, year int, month time.Month, day int) string {
	return fmt.Sprintf("%s|%04d-%02d-%02d", providerID, year, int(month), day)
}

func (f *fakeScheduleAPI) setAvailability(providerID string, date time.Time, records []models.HourAvailability) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availability[availKey(providerID, date.Year(), date.Month(), date.Day())] = records
}

func (f *fakeScheduleAPI) ListProviders(ctx context.Context, auth models.AuthContext) ([]models.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.providers, nil
}

func (f *fakeScheduleAPI) DayAvailability(ctx context.Context, auth models.AuthContext, providerID string, year int, month time.Month, day int) ([]models.HourAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := availKey(providerID, year, month, day)
	f.availabilityCalls = append(f.availabilityCalls, key)
	return f.availability[key], nil
}

func (f *fakeScheduleAPI) CreateAppointment(ctx context.Context, auth models.AuthContext, req models.AppointmentRequest) (*models.CreatedAppointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls = append(f.createCalls, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	// The backend echoes the accepted instant.
	return &models.CreatedAppointment{DateTime: req.DateTime}, nil
}

func (f *fakeScheduleAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.availabilityCalls)
}

func (f *fakeScheduleAPI) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createCalls)
}

// fakeReminderScheduler captures scheduled reminders.
type fakeReminderScheduler struct {
	mu       sync.Mutex
	payloads []models.ReminderPayload
	fireAts  []time.Time
}

func (f *fakeReminderScheduler) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	f.fireAts = append(f.fireAts, fireAt)
	return nil
}

func newTestService(t *testing.T) (*DefaultBookingSessionService, *fakeScheduleAPI) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	api := newFakeScheduleAPI()
	svc := &DefaultBookingSessionService{
		API:   api,
		Cache: cache,
	}
	return svc, api
}

func testAuth() models.AuthContext {
	return models.AuthContext{UserID: "user-1", Token: "test-token"}
}
