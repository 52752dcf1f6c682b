package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/logger"
	"github.com/ivmel/reflecta/internal/models"
)

// Client talks to the external reflection backend over HTTP+JSON. It owns
// header injection, response decoding, and translation of transport and
// status failures into the typed error taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("backend"),
	}
}

// errorBody matches the backend's error envelope.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, auth Auth, query url.Values, body any, out any) error {
	log := logger.FromContext(ctx).WithPrefix("backend")

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.NewInternalError(err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	auth.Apply(req)

	log.Debug("%s %s", method, path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %s %s: %v", method, path, err)
		return errors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.translateStatus(resp, method, path, log)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		log.Error("expected JSON response, got %q: %s", ct, string(raw))
		return errors.NewServerError(resp.StatusCode, fmt.Sprintf("expected JSON, got %s", ct))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %s %s: %v", method, path, err)
		return errors.NewServerError(resp.StatusCode, "malformed JSON response")
	}
	return nil
}

func (c *Client) translateStatus(resp *http.Response, method, path string, log *logger.Logger) error {
	message := ""
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var eb errorBody
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb); err == nil {
			if eb.Detail != "" {
				message = eb.Detail
			} else {
				message = eb.Message
			}
		}
	} else {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		message = strings.TrimSpace(string(raw))
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		log.Debug("not found: %s %s: %s", method, path, message)
		return errors.NewNotFoundError("resource", path)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		log.Warn("auth rejected: %s %s: status=%d", method, path, resp.StatusCode)
		if message == "" {
			message = "authentication required"
		}
		return errors.NewAuthError(message)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		log.Warn("request rejected: %s %s: %s", method, path, message)
		if message == "" {
			message = "request rejected by backend"
		}
		return errors.NewBadRequestError(message)
	default:
		log.Error("backend error: %s %s: status=%d, message=%s", method, path, resp.StatusCode, message)
		return errors.NewServerError(resp.StatusCode, message)
	}
}

// GetCurrentUser resolves (or lazily creates) the calling user.
func (c *Client) GetCurrentUser(ctx context.Context, auth Auth) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", auth, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

type focusSphereItem struct {
	Sphere string `json:"sphere"`
}

// GetFocusSpheres returns the raw ordered focus sphere keys for the user.
func (c *Client) GetFocusSpheres(ctx context.Context, auth Auth) ([]string, error) {
	var items []focusSphereItem
	if err := c.do(ctx, http.MethodGet, "/api/spheres/focus", auth, nil, nil, &items); err != nil {
		return nil, err
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Sphere
	}
	return keys, nil
}

// UpdateFocusSpheres replaces the user's focus spheres.
func (c *Client) UpdateFocusSpheres(ctx context.Context, auth Auth, spheres []string) error {
	payload := map[string][]string{"spheres": spheres}
	return c.do(ctx, http.MethodPut, "/api/spheres/focus", auth, nil, payload, nil)
}

// GetDailyQuestion fetches the next question, optionally filtered to one
// sphere. A NOT_FOUND error means no question remains today; callers treat
// that as control flow, not a fault.
func (c *Client) GetDailyQuestion(ctx context.Context, auth Auth, sphereKey string) (*models.Question, error) {
	var query url.Values
	if sphereKey != "" {
		query = url.Values{"sphere": []string{sphereKey}}
	}
	var q models.Question
	if err := c.do(ctx, http.MethodGet, "/api/questions/daily", auth, query, nil, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// SubmitAnswer records a free-text answer for a question.
func (c *Client) SubmitAnswer(ctx context.Context, auth Auth, questionID int64, text string) error {
	payload := models.Answer{QuestionID: questionID, Text: text}
	return c.do(ctx, http.MethodPost, "/api/answers/", auth, nil, payload, nil)
}

// GetSphereRatings returns the user's latest per-sphere ratings.
func (c *Client) GetSphereRatings(ctx context.Context, auth Auth) ([]models.SphereRating, error) {
	var ratings []models.SphereRating
	if err := c.do(ctx, http.MethodGet, "/api/spheres/ratings", auth, nil, nil, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// CreateSphereRatings stores a batch of sphere ratings.
func (c *Client) CreateSphereRatings(ctx context.Context, auth Auth, ratings map[string]int) error {
	payload := map[string]map[string]int{"ratings": ratings}
	return c.do(ctx, http.MethodPost, "/api/spheres/ratings", auth, nil, payload, nil)
}

// GetWeeklySummary returns the weekly progress aggregate.
func (c *Client) GetWeeklySummary(ctx context.Context, auth Auth) (*models.WeeklySummary, error) {
	var summary models.WeeklySummary
	if err := c.do(ctx, http.MethodGet, "/api/progress/weekly", auth, nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetMonthlyReport returns the monthly progress aggregate.
func (c *Client) GetMonthlyReport(ctx context.Context, auth Auth) (*models.MonthlyReport, error) {
	var report models.MonthlyReport
	if err := c.do(ctx, http.MethodGet, "/api/progress/monthly", auth, nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetSettings returns the user's settings document.
func (c *Client) GetSettings(ctx context.Context, auth Auth) (*models.Settings, error) {
	var settings models.Settings
	if err := c.do(ctx, http.MethodGet, "/api/settings/", auth, nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings applies a partial settings change.
func (c *Client) UpdateSettings(ctx context.Context, auth Auth, update models.SettingsUpdate) (*models.Settings, error) {
	var settings models.Settings
	if err := c.do(ctx, http.MethodPut, "/api/settings/", auth, nil, update, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
