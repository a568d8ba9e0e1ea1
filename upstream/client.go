package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"agendei/models"
)

const defaultTimeout = 10 * time.Second

// HTTPScheduleAPI talks JSON over HTTP to the appointments backend.
type HTTPScheduleAPI struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPScheduleAPI builds a client for the given base URL.
func NewHTTPScheduleAPI(baseURL string, timeout time.Duration) *HTTPScheduleAPI {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPScheduleAPI{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// ListProviders returns the ordered provider list for the authenticated user.
func (a *HTTPScheduleAPI) ListProviders(ctx context.Context, auth models.AuthContext) ([]models.Provider, error) {
	var providers []models.Provider
	if err := a.get(ctx, auth, "/providers", nil, &providers); err != nil {
		return nil, fmt.Errorf("failed to fetch providers: %w", err)
	}
	return providers, nil
}

// DayAvailability returns the hour-availability records for one calendar day.
func (a *HTTPScheduleAPI) DayAvailability(ctx context.Context, auth models.AuthContext, providerID string, year int, month time.Month, day int) ([]models.HourAvailability, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("month", strconv.Itoa(int(month)))
	params.Set("day", strconv.Itoa(day))

	var records []models.HourAvailability
	path := fmt.Sprintf("/providers/%s/day-availability", url.PathEscape(providerID))
	if err := a.get(ctx, auth, path, params, &records); err != nil {
		return nil, fmt.Errorf("failed to fetch day availability for provider %s: %w", providerID, err)
	}
	return records, nil
}

// CreateAppointment posts the appointment request and returns the
// backend's echo of the accepted instant.
func (a *HTTPScheduleAPI) CreateAppointment(ctx context.Context, auth models.AuthContext, req models.AppointmentRequest) (*models.CreatedAppointment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal appointment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/appointments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build create-appointment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	setAuth(httpReq, auth)

	resp, err := a.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create-appointment call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("create-appointment call returned status %d: %s", resp.StatusCode, snippet)
	}

	var created models.CreatedAppointment
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode create-appointment response: %w", err)
	}
	return &created, nil
}

func (a *HTTPScheduleAPI) get(ctx context.Context, auth models.AuthContext, path string, params url.Values, out interface{}) error {
	endpoint := a.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	setAuth(req, auth)

	resp, err := a.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s returned status %d: %s", path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func setAuth(req *http.Request, auth models.AuthContext) {
	if auth.Token != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}
}
