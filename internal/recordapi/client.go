package recordapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// DefaultTimeout bounds a request when the config sets none.
const DefaultTimeout = 30 * time.Second

// Client is a RecordStore backed by a hosted record API.
type Client struct {
	baseURL   string
	projectID string
	publicKey string
	http      *http.Client
	log       *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client's logger.
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the API at cfg.BaseURL.
func NewClient(cfg types.RemoteConfig, opts ...ClientOption) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, types.ErrRemoteURLEmpty
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		projectID: cfg.ProjectID,
		publicKey: cfg.PublicKey,
		http:      &http.Client{Timeout: timeout},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchRecords posts to /tables/{table}/fetch.
func (c *Client) FetchRecords(ctx context.Context, table string, params types.FetchParams) (*types.Response, error) {
	var resp types.Response
	if err := c.call(ctx, table, "fetch", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRecordByID posts to /tables/{table}/get/{id}.
func (c *Client) GetRecordByID(ctx context.Context, table string, id int64, params types.FetchParams) (*types.Response, error) {
	var resp getResponse
	if err := c.call(ctx, table, "get/"+strconv.FormatInt(id, 10), params, &resp); err != nil {
		return nil, err
	}
	return resp.response(), nil
}

// CreateRecord posts to /tables/{table}/create.
func (c *Client) CreateRecord(ctx context.Context, table string, params types.WriteParams) (*types.Response, error) {
	var resp types.Response
	if err := c.call(ctx, table, "create", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateRecord posts to /tables/{table}/update.
func (c *Client) UpdateRecord(ctx context.Context, table string, params types.WriteParams) (*types.Response, error) {
	var resp types.Response
	if err := c.call(ctx, table, "update", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteRecord posts to /tables/{table}/delete.
func (c *Client) DeleteRecord(ctx context.Context, table string, params types.DeleteParams) (*types.Response, error) {
	var resp types.Response
	if err := c.call(ctx, table, "delete", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call posts body and decodes the JSON envelope into out. Any status with
// a decodable envelope is a store outcome; anything else is an error.
func (c *Client) call(ctx context.Context, table, op string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", op, err)
	}

	endpoint := c.baseURL + "/tables/" + url.PathEscape(table) + "/" + op
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, requestID)
	if c.projectID != "" {
		req.Header.Set(HeaderProjectID, c.projectID)
	}
	if c.publicKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.publicKey)
	}

	log := c.log.With(zap.String("request_id", requestID), zap.String("endpoint", endpoint))
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return fmt.Errorf("%s %s: %w", op, table, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, 32<<20))
	if err != nil {
		return fmt.Errorf("reading %s response: %w", op, err)
	}
	log.Debug("request done", zap.Int("status", res.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if err := json.Unmarshal(data, out); err != nil {
		if res.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%s %s: unexpected status %s", op, table, res.Status)
		}
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}
