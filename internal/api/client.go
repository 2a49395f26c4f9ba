// Package api is the typed client for the GamingBoost REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ahinestrog/gamingboost/internal/metrics"
)

// DefaultBaseURL is the host loopback as seen from the Android emulator.
const DefaultBaseURL = "http://10.0.2.2:8000/"

const maxBodyBytes = 4 << 20

// Client calls the boost API. Authenticated methods take the bearer token
// explicitly; the client itself keeps no session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds client configuration.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
}

// New creates a client. A caller supplied HTTPClient is copied, not mutated.
func New(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	hc := &http.Client{Timeout: timeout}
	if cfg.HTTPClient != nil {
		cp := *cfg.HTTPClient
		hc = &cp
	}
	next := hc.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc.Transport = &loggingTransport{next: next, log: cfg.Logger, metrics: cfg.Metrics}

	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: hc,
	}
}

// BaseURL returns the normalised origin requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, op, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(withOp(ctx, op), method, c.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &TransportError{Op: op, Err: ErrEmptyBody}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// ---------- health ----------

// Ping calls GET /api/ping.
func (c *Client) Ping(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, "ping", http.MethodGet, "/api/ping", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- auth ----------

// Login calls POST /api/login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, "login", http.MethodPost, "/api/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me calls GET /api/me.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var out User
	if err := c.do(ctx, "me", http.MethodGet, "/api/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout calls POST /api/logout.
func (c *Client) Logout(ctx context.Context, token string) (map[string]any, error) {
	var out map[string]any
	if err := c.do(ctx, "logout", http.MethodPost, "/api/logout", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- boosts ----------

// ListBoosts calls GET /api/boosts.
func (c *Client) ListBoosts(ctx context.Context, token string) ([]Boost, error) {
	var out []Boost
	if err := c.do(ctx, "list_boosts", http.MethodGet, "/api/boosts", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BuyBoost calls POST /api/boosts/{id}/buy.
func (c *Client) BuyBoost(ctx context.Context, token string, boostID int64, qty int) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/api/boosts/%d/buy", boostID)
	if err := c.do(ctx, "buy_boost", http.MethodPost, path, token, BuyRequest{Qty: qty}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyBoosts calls GET /api/my-boosts. QtyTotal is populated on every item.
func (c *Client) MyBoosts(ctx context.Context, token string) ([]Boost, error) {
	var out []Boost
	if err := c.do(ctx, "my_boosts", http.MethodGet, "/api/my-boosts", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------- orders ----------

// CreateOrder calls POST /api/orders. No idempotency key is sent.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var out CreateOrderResponse
	if err := c.do(ctx, "create_order", http.MethodPost, "/api/orders", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PayOrder calls POST /api/orders/{id}/pay and returns the provider checkout URL.
func (c *Client) PayOrder(ctx context.Context, token string, orderID int64) (*PayOrderResponse, error) {
	var out PayOrderResponse
	path := fmt.Sprintf("/api/orders/%d/pay", orderID)
	if err := c.do(ctx, "pay_order", http.MethodPost, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyOrders calls GET /api/orders. The server returns newest first.
func (c *Client) MyOrders(ctx context.Context, token string) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, "my_orders", http.MethodGet, "/api/orders", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrderDetail calls GET /api/orders/{id}.
func (c *Client) OrderDetail(ctx context.Context, token string, orderID int64) (*Order, error) {
	var out Order
	path := fmt.Sprintf("/api/orders/%d", orderID)
	if err := c.do(ctx, "order_detail", http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
