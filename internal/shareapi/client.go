// Package shareapi is the HTTP client for the share backend's three operations.
package shareapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"

	"pass.share/internal/models"
)

var ErrMissingPassword = errors.New("redeem response has no password")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with code %d: %s", e.Op, e.Code, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	if timeout > 0 {
		httpClient.Timeout = timeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// Generate calls POST /share/generate.
func (c *Client) Generate(ctx context.Context, req *models.GenerateRequest) (*models.ShareLink, error) {
	var link models.ShareLink
	if err := c.post(ctx, "generate", "/share/generate", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// SharePassword calls POST /share/password.
func (c *Client) SharePassword(ctx context.Context, req *models.PasswordRequest) (*models.ShareLink, error) {
	var link models.ShareLink
	if err := c.post(ctx, "share password", "/share/password", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

// Redeem calls POST /share/{token}. The backend charges one view per call.
func (c *Client) Redeem(ctx context.Context, token string) (*models.SecretRecord, error) {
	var rec models.SecretRecord
	if err := c.post(ctx, "redeem", "/share/"+url.PathEscape(token), nil, &rec); err != nil {
		return nil, err
	}
	if rec.Password == "" {
		return nil, ErrMissingPassword
	}
	return &rec, nil
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("share api unreachable", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn("share api error", zap.String("op", op), zap.Int("status", resp.StatusCode))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", op, err)
	}
	return nil
}
