package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"agendei/handlers"
	"agendei/models"
	"agendei/routes"
	"agendei/services/booking"
	"agendei/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduleAPI struct {
	mu           sync.Mutex
	providers    []models.Provider
	availability map[string][]models.HourAvailability
	createCalls  int
	createErr    error
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

func (f *fakeScheduleAPI) key(providerID string, year int, month time.Month, day int) string {
	return fmt.Sprintf("%s|%04d-%02d-%02d", providerID, year, int(month), day)
}

func (f *fakeScheduleAPI) setAvailability(providerID string, date time.Time, records []models.HourAvailability) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availability[f.key(providerID, date.Year(), date.Month(), date.Day())] = records
}

func (f *fakeScheduleAPI) ListProviders(ctx context.Context, auth models.AuthContext) ([]models.Provider, error) {
	return f.providers, nil
}

func (f *fakeScheduleAPI) DayAvailability(ctx context.Context, auth models.AuthContext, providerID string, year int, month time.Month, day int) ([]models.HourAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.availability[f.key(providerID, year, month, day)], nil
}

func (f *fakeScheduleAPI) CreateAppointment(ctx context.Context, auth models.AuthContext, req models.AppointmentRequest) (*models.CreatedAppointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.CreatedAppointment{DateTime: req.DateTime}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeScheduleAPI) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	api := newFakeScheduleAPI()
	svc := &booking.DefaultBookingSessionService{API: api, Cache: cache}

	router := gin.New()
	routes.RegisterBookingRoutes(router, handlers.NewBookingHandler(svc), handlers.NewProviderHandler(api))
	return router, api
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func authToken(t *testing.T) string {
	t.Helper()
	token, err := utils.GenerateToken("user-1", time.Hour)
	require.NoError(t, err)
	return token
}

func TestBookingFlowOverHTTP(t *testing.T) {
	router, api := newTestRouter(t)
	token := authToken(t)

	records := []models.HourAvailability{
		{Hour: 9, Available: true},
		{Hour: 13, Available: false},
	}
	date := time.Date(2020, time.June, 15, 0, 0, 0, 0, time.Local)
	api.setAvailability("p1", time.Now(), records)
	api.setAvailability("p1", date, records)

	// Start with the provider handed over from navigation.
	rec := doJSON(t, router, http.MethodPost, "/api/booking/session", token, gin.H{"providerId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var started struct {
		Session  models.BookingSession `json:"session"`
		Schedule models.DaySchedule    `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	sessionID := started.Session.SessionID
	require.NotEmpty(t, sessionID)

	// Move to the canonical day.
	rec = doJSON(t, router, http.MethodPut, "/api/booking/session/"+sessionID+"/date", token, gin.H{"date": "2020-06-15"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Schedule models.DaySchedule `json:"schedule"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Len(t, updated.Schedule.Morning, 1)
	require.Len(t, updated.Schedule.Afternoon, 1)
	assert.Equal(t, "09:00", updated.Schedule.Morning[0].Label)
	assert.False(t, updated.Schedule.Afternoon[0].Available)

	// Pick the morning slot and confirm.
	rec = doJSON(t, router, http.MethodPut, "/api/booking/session/"+sessionID+"/hour", token, gin.H{"hour": 9})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/booking/session/"+sessionID+"/confirm", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var confirmation models.BookingConfirmation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &confirmation))
	assert.Equal(t, "segunda-feira, dia 15 de junho de 2020 às 09:00h", confirmation.Message)
	assert.Equal(t, confirmation.DateTime.UnixMilli(), confirmation.DateMillis)

	// The session is gone once confirmed.
	rec = doJSON(t, router, http.MethodGet, "/api/booking/session/"+sessionID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmUnavailableSlotOverHTTP(t *testing.T) {
	router, api := newTestRouter(t)
	token := authToken(t)

	api.setAvailability("p1", time.Now(), []models.HourAvailability{{Hour: 9, Available: false}})

	rec := doJSON(t, router, http.MethodPost, "/api/booking/session", token, gin.H{"providerId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var started struct {
		Session models.BookingSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	sessionID := started.Session.SessionID

	rec = doJSON(t, router, http.MethodPut, "/api/booking/session/"+sessionID+"/hour", token, gin.H{"hour": 9})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/booking/session/"+sessionID+"/confirm", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), booking.CodeSlotUnavailable)
	assert.Equal(t, 0, api.createCalls)
}

func TestBookingRoutesRequireAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/booking/session", "", gin.H{"providerId": "p1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/booking/providers", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetProvidersOverHTTP(t *testing.T) {
	router, _ := newTestRouter(t)
	token := authToken(t)

	rec := doJSON(t, router, http.MethodGet, "/api/booking/providers", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Providers []models.Provider `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Providers, 2)
	assert.Equal(t, "p1", payload.Providers[0].ID)
}

func TestCancelSessionOverHTTP(t *testing.T) {
	router, api := newTestRouter(t)
	token := authToken(t)

	api.setAvailability("p1", time.Now(), nil)
	rec := doJSON(t, router, http.MethodPost, "/api/booking/session", token, gin.H{"providerId": "p1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var started struct {
		Session models.BookingSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	sessionID := started.Session.SessionID

	rec = doJSON(t, router, http.MethodDelete, "/api/booking/session/"+sessionID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/booking/session/"+sessionID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
