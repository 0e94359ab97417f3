// Package client is the typed HTTP client for the retail survey API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/retailsurvey/fieldsurvey-go/internal/config"
	"github.com/retailsurvey/fieldsurvey-go/internal/model"
)

const maxResponseBytes = 10 << 20 // 10MB

// Client calls the survey API. It performs no retries: every failure surfaces once.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the http.Client built from the configuration.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for cfg.BaseURL.
func New(cfg config.ClientConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c := &Client{baseURL: base, http: newHTTPClient(cfg)}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetToken sets the bearer token sent with every request. An empty token sends none.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Login posts credentials. A 2xx answer is returned as-is even when Success is false.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	var resp model.LoginResponse
	err := c.doJSON(ctx, "login", http.MethodPost, "api/login", req, &resp)
	return resp, err
}

// GetSurveyor fetches a surveyor profile.
func (c *Client) GetSurveyor(ctx context.Context, surveyorID int) (model.Surveyor, error) {
	var s model.Surveyor
	err := c.doJSON(ctx, "get surveyor", http.MethodGet, fmt.Sprintf("api/surveyors/%d", surveyorID), nil, &s)
	return s, err
}

// GetSurveys fetches the full task list. Entries shaped like records are skipped.
func (c *Client) GetSurveys(ctx context.Context) ([]model.Task, error) {
	var surveys []model.Survey
	if err := c.doJSON(ctx, "get surveys", http.MethodGet, "api/tasks", nil, &surveys); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(surveys))
	for _, s := range surveys {
		t, ok := s.Task()
		if !ok {
			slog.Warn("skipping non-task entry in task list", "id", s.ID(), "kind", s.Kind())
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetTodayTask fetches the task published for today.
func (c *Client) GetTodayTask(ctx context.Context, surveyorID int) (model.Task, error) {
	var t model.Task
	err := c.doJSON(ctx, "get today task", http.MethodGet, fmt.Sprintf("api/tasks/today/%d", surveyorID), nil, &t)
	return t, err
}

// CreateSurvey submits a survey record and returns the untyped response body.
func (c *Client) CreateSurvey(ctx context.Context, rec model.Record) (map[string]any, error) {
	var out map[string]any
	err := c.doJSON(ctx, "create survey", http.MethodPost, "api/records", rec, &out)
	return out, err
}

// UploadImage sends one image as the "image" part of a multipart form.
// The server answers with string values, typically including "url".
func (c *Client) UploadImage(ctx context.Context, filename string, image io.Reader) (map[string]string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, escapeQuotes(filepath.Base(filename))))
	h.Set("Content-Type", imageContentType(filename))

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out map[string]string
	err = c.do(ctx, "upload image", http.MethodPost, "api/upload/image", &buf, mw.FormDataContentType(), &out)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	if in == nil {
		return c.do(ctx, op, method, path, nil, "", out)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", op, err)
	}
	return c.do(ctx, op, method, path, bytes.NewReader(body), "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	endpoint := c.baseURL.ResolveReference(&url.URL{Path: path})

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failureFromBody(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

// failureFromBody maps a non-2xx answer to an APIError when the body carries a
// message, and to a StatusError otherwise.
func failureFromBody(status int, data []byte) error {
	var body struct {
		Success *bool   `json:"success"`
		Message *string `json:"message"`
		Detail  any     `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return &StatusError{StatusCode: status}
	}

	if body.Success != nil && !*body.Success && body.Message != nil && *body.Message != "" {
		return &APIError{StatusCode: status, Message: *body.Message}
	}
	if detail, ok := body.Detail.(string); ok && detail != "" {
		return &APIError{StatusCode: status, Message: detail}
	}
	return &StatusError{StatusCode: status}
}

func imageContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
