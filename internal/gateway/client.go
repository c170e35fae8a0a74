package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gridlight-solar/site-api/internal/catalog"
	"github.com/gridlight-solar/site-api/internal/leads"
	"github.com/gridlight-solar/site-api/pkg/logging"
)

const msgTryAgain = "We could not send your message right now. Please try again in a moment, or call us directly."

// Result is the outcome of a submission attempt. Submit never returns a
// Go error: every failure is a Result so call sites must handle both
// outcomes explicitly.
type Result struct {
	Success bool
	Error   string
}

// Client orchestrates validation shortcuts, the local cooldown, and the
// call to the intake endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cooldown   *Cooldown
	catalog    catalog.Catalog
	logger     *logging.Logger
}

// ClientOption configures the gateway client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithCatalog sets the local service catalog used for best-effort
// display-name mapping.
func WithCatalog(cat catalog.Catalog) ClientOption {
	return func(c *Client) { c.catalog = cat }
}

// WithCooldownWindow overrides the post-success cooldown.
func WithCooldownWindow(window time.Duration) ClientOption {
	return func(c *Client) { c.cooldown = NewCooldown(window) }
}

// NewClient creates a gateway client for the given intake endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cooldown: NewCooldown(DefaultCooldownWindow),
		catalog:  catalog.Default,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit sends one form submission to the intake endpoint. The honeypot
// value travels verbatim; the endpoint owns the bot check and
// re-validates everything, so the service mapping here is a convenience,
// not a security check.
func (c *Client) Submit(ctx context.Context, sub leads.LeadSubmission) Result {
	if ok, wait := c.cooldown.Allow(); !ok {
		return Result{Success: false, Error: waitMessage(wait)}
	}

	if c.catalog != nil {
		if svc, ok := c.catalog.Resolve(strings.TrimSpace(sub.Service)); ok {
			sub.Service = svc.Title
		}
	}

	body, err := json.Marshal(sub)
	if err != nil {
		c.logger.Error("gateway: marshal submission", "error", err)
		return Result{Success: false, Error: msgTryAgain}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("gateway: build request", "error", err)
		return Result{Success: false, Error: msgTryAgain}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Covers timeouts and connection failures; detail stays in logs.
		c.logger.Error("gateway: intake request failed", "error", err)
		return Result{Success: false, Error: msgTryAgain}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gateway: intake returned unexpected status", "status", resp.StatusCode)
		return Result{Success: false, Error: msgTryAgain}
	}

	var out leads.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Error("gateway: decode intake response", "error", err)
		return Result{Success: false, Error: msgTryAgain}
	}

	if !out.Success {
		// The endpoint's messages are already written for the visitor.
		msg := out.Error
		if msg == "" {
			msg = msgTryAgain
		}
		return Result{Success: false, Error: msg}
	}

	c.cooldown.MarkSuccess()
	return Result{Success: true}
}

func waitMessage(seconds int) string {
	return "Please wait " + strconv.Itoa(seconds) + " seconds before sending another message."
}
