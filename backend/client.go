// Package backend is the HTTP client for the external restaurant backend.
// The terminal core only depends on the Client interface; the backend itself
// is an external collaborator.
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

	"go.uber.org/zap"

	"pos-terminal/models"
)

// Client is the backend contract the terminal depends on.
type Client interface {
	CreateOrder(ctx context.Context, sub models.OrderSubmission) (models.CreatedOrder, error)
	UpdateOrder(ctx context.Context, fullID string, sub models.OrderSubmission) error
	UpdateOrderStatus(ctx context.Context, fullID string, status models.Status) error
	FetchActiveOrders(ctx context.Context) ([]models.ActiveOrder, error)
}

// APIError is a backend-reported failure: a non-2xx status, or a reply whose
// body carries success=false. Message holds the backend's own text when it
// provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend: request failed with status %d", e.StatusCode)
}

// HTTPClient implements Client against the backend's REST API.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.SugaredLogger
}

// New builds a client for the given base URL (including the API prefix,
// e.g. http://localhost:8000/api/v1). An empty token disables auth.
func New(baseURL, token string, timeout time.Duration, log *zap.SugaredLogger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// CreateOrder submits a new order. Any non-2xx status is a hard failure.
func (c *HTTPClient) CreateOrder(ctx context.Context, sub models.OrderSubmission) (models.CreatedOrder, error) {
	var created models.CreatedOrder
	if err := c.do(ctx, http.MethodPost, "/orders/", sub, &created); err != nil {
		return models.CreatedOrder{}, err
	}
	return created, nil
}

// UpdateOrder edits an existing order. The backend replies with a success
// flag; success=false is surfaced as an APIError with the backend's message.
func (c *HTTPClient) UpdateOrder(ctx context.Context, fullID string, sub models.OrderSubmission) error {
	var resp models.UpdateResponse
	path := "/orders/" + url.PathEscape(fullID)
	if err := c.do(ctx, http.MethodPatch, path, sub, &resp); err != nil {
		return err
	}
	if !resp.Success {
		msg := resp.ErrorMessage()
		if msg == "" {
			msg = "order update rejected"
		}
		return &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	return nil
}

// UpdateOrderStatus asks the backend to move an order to a new status.
func (c *HTTPClient) UpdateOrderStatus(ctx context.Context, fullID string, status models.Status) error {
	path := "/orders/" + url.PathEscape(fullID) + "/status"
	body := map[string]models.Status{"status": status}
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// FetchActiveOrders returns the backend's current active-order collection.
func (c *HTTPClient) FetchActiveOrders(ctx context.Context) ([]models.ActiveOrder, error) {
	var orders []models.ActiveOrder
	if err := c.do(ctx, http.MethodGet, "/orders/?active=true", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warnf("close response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage pulls the backend's failure text out of an error body,
// tolerating both {"error": "..."} and {"error": {"message": "..."}} shapes.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &flat); err == nil {
		if flat.Error != "" {
			return flat.Error
		}
		if flat.Message != "" {
			return flat.Message
		}
	}
	var nested models.UpdateResponse
	if err := json.Unmarshal(data, &nested); err == nil {
		return nested.ErrorMessage()
	}
	return ""
}
