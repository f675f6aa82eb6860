package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecosync/ecosync/internal/client/models"
	"github.com/ecosync/ecosync/internal/common"
	"github.com/ecosync/ecosync/internal/logging"
)

// APIPrefix is the path of the versioned API below the server origin.
const APIPrefix = "/api/v1"

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient returns a client rooted at baseURL. A zero timeout means
// requests are bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url %q: scheme and host are required", baseURL)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// BaseURL is the API root every path is appended to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// HealthURL is the liveness endpoint served at the server origin.
func (c *HTTPClient) HealthURL() string {
	return strings.TrimSuffix(c.baseURL, APIPrefix) + "/health"
}

func (c *HTTPClient) send(ctx context.Context, method, rawURL, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	reqID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	log := c.log.With("request_id", reqID, "method", method, "url", rawURL)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%s %s: %w: %v", method, rawURL, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w: %v", method, rawURL, ErrUnavailable, err)
	}
	log.Debug(ctx, "response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %w", method, rawURL, &StatusError{
			Code:   resp.StatusCode,
			Detail: parseDetail(data, resp.Status),
		})
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w: %v", method, rawURL, ErrUnavailable, err)
	}
	return nil
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.send(ctx, http.MethodGet, c.endpoint(path, query), "", nil, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, query url.Values, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.send(ctx, http.MethodPost, c.endpoint(path, query), contentType, body, out)
}

func (c *HTTPClient) postPhoto(ctx context.Context, path string, photo models.Photo, out any) error {
	body, contentType, err := photoForm(photo)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPost, c.endpoint(path, nil), contentType, body, out)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// photoForm encodes photo as the single "file" field of a multipart form.
func photoForm(photo models.Photo) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := photo.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(photo.Filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("multipart part: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, "", fmt.Errorf("multipart write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("multipart close: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// parseDetail reads FastAPI-style error bodies: {"detail": "text"} or
// {"detail": [{"msg": "text"}, ...]}. Anything else yields status.
func parseDetail(body []byte, status string) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return status
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil && s != "" {
		return s
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &list); err == nil && len(list) > 0 && list[0].Msg != "" {
		return list[0].Msg
	}

	if payload.Error != "" {
		return payload.Error
	}
	return status
}

func userQuery(userID int64) url.Values {
	return url.Values{"user_id": []string{strconv.FormatInt(userID, 10)}}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var health map[string]any
	err := c.send(ctx, http.MethodGet, c.HealthURL(), "", nil, &health)
	if err != nil && !errors.Is(err, ErrUnavailable) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getJSON(ctx, "/users/", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var u models.User
	if err := c.postJSON(ctx, "/users/", nil, in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListUserItems(ctx context.Context, userID int64) ([]models.Item, error) {
	var items []models.Item
	if err := c.getJSON(ctx, fmt.Sprintf("/items/users/%d/items", userID), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) UploadItemPhoto(ctx context.Context, userID int64, photo models.Photo) (*models.PhotoUploadResult, error) {
	var res models.PhotoUploadResult
	if err := c.postPhoto(ctx, fmt.Sprintf("/items/users/%d/items/upload-photo", userID), photo, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) CreateBarterIntent(ctx context.Context, userID int64, in models.BarterIntentCreate) (*models.BarterIntentResult, error) {
	var res models.BarterIntentResult
	if err := c.postJSON(ctx, "/barter/barter-intents", userQuery(userID), in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ListLostFound(ctx context.Context, filter models.LostFoundFilter) ([]models.LostFoundReport, error) {
	q := url.Values{}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}

	var reports []models.LostFoundReport
	if err := c.getJSON(ctx, "/lost-found/", q, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *HTTPClient) UploadLostFoundPhoto(ctx context.Context, photo models.Photo) (string, error) {
	var ref models.PhotoRef
	if err := c.postPhoto(ctx, "/lost-found/upload", photo, &ref); err != nil {
		return "", err
	}
	return ref.PhotoURL, nil
}

func (c *HTTPClient) CreateLostFound(ctx context.Context, userID int64, in models.LostFoundCreate) (*models.LostFoundReport, error) {
	var r models.LostFoundReport
	if err := c.postJSON(ctx, "/lost-found/", userQuery(userID), in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) ListMatches(ctx context.Context, userID int64) ([]models.Match, error) {
	var matches []models.Match
	if err := c.getJSON(ctx, fmt.Sprintf("/matches/%d", userID), nil, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (c *HTTPClient) AcceptMatch(ctx context.Context, matchID, userID int64) (*models.AcceptResult, error) {
	var res models.AcceptResult
	if err := c.postJSON(ctx, fmt.Sprintf("/matches/%d/accept", matchID), userQuery(userID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := c.getJSON(ctx, "/eco-credits/leaderboard/top", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
