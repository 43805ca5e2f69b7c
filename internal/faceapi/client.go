// Package faceapi is the sole network boundary to the external face
// recognition service. It wraps register, recognize and database
// operations; identity decisions belong entirely to the remote backend.
package faceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/appearly/facegate/internal/domain"
)

// Config holds the configuration for the Face API client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8000",
		Timeout: 30 * time.Second,
	}
}

// Client is the HTTP client for the Face API.
//
// Calls are never retried: a five-image registration is not idempotent and
// re-submitting could double-register faces on the remote side. Failures
// surface to the caller instead.
type Client struct {
	httpClient *http.Client
	config     Config
}

func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// Register submits the five cropped angle images as one unit.
// POST /register, multipart with repeated "files" parts plus "name".
// min_quality is forwarded only for the quality-aware qmagface backend.
func (c *Client) Register(ctx context.Context, name string, crops [][]byte, model domain.Model, minQuality *int) (*RegisterResponse, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for i, crop := range crops {
		part, err := w.CreateFormFile("files", fmt.Sprintf("face_%d.jpg", i))
		if err != nil {
			return nil, fmt.Errorf("build multipart: %w", err)
		}
		if _, err := part.Write(crop); err != nil {
			return nil, fmt.Errorf("build multipart: %w", err)
		}
	}
	if err := w.WriteField("name", name); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}

	query := url.Values{}
	query.Set("model", string(model))
	if model == domain.ModelQMagFace && minQuality != nil {
		query.Set("min_quality", strconv.Itoa(*minQuality))
	}

	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/register", query, body, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Recognize submits one cropped probe image for identification.
// POST /recognize, multipart with a single "file" part. The reply is
// open-ended, so it is returned as a raw map for the caller to extract from.
func (c *Client) Recognize(ctx context.Context, crop []byte, model domain.Model, threshold float64) (map[string]any, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "face.jpg")
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(crop); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}

	query := url.Values{}
	query.Set("model", string(model))
	query.Set("threshold", strconv.FormatFloat(threshold, 'f', -1, 64))

	var resp map[string]any
	if err := c.do(ctx, http.MethodPost, "/recognize", query, body, w.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DatabaseInfo fetches backend statistics. GET /database/info.
func (c *Client) DatabaseInfo(ctx context.Context, model domain.Model) (map[string]any, error) {
	query := url.Values{}
	query.Set("model", string(model))

	var resp map[string]any
	if err := c.do(ctx, http.MethodGet, "/database/info", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SaveDatabase persists the backend's face database. POST /database/save.
func (c *Client) SaveDatabase(ctx context.Context, path string) (*SaveResponse, error) {
	query := url.Values{}
	if path != "" {
		query.Set("path", path)
	}

	var resp SaveResponse
	if err := c.do(ctx, http.MethodPost, "/database/save", query, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeletePerson removes a person from the backend database.
// DELETE /database/{name}. A 404 means the person was never registered;
// that is not an error for this pipeline's callers, so it is translated
// into a non-throwing unsuccessful result.
func (c *Client) DeletePerson(ctx context.Context, name string, model domain.Model) (*DeleteResponse, error) {
	query := url.Values{}
	query.Set("model", string(model))

	var resp DeleteResponse
	err := c.do(ctx, http.MethodDelete, "/database/"+url.PathEscape(name), query, nil, "", &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			message := fmt.Sprintf("Person %q not found in database", name)
			var eb errorBody
			if jsonErr := json.Unmarshal([]byte(apiErr.Body), &eb); jsonErr == nil && eb.Detail != "" {
				message = eb.Detail
			}
			return &DeleteResponse{Success: false, Message: message}, nil
		}
		return nil, err
	}
	return &resp, nil
}

// do executes a single request. Non-2xx statuses become *APIError; transport
// failures become ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, result any) error {
	u := c.config.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}

	return nil
}
