package leads

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridlight-solar/site-api/internal/catalog"
	"github.com/gridlight-solar/site-api/internal/observability/metrics"
	"github.com/gridlight-solar/site-api/internal/ratelimit"
	"github.com/gridlight-solar/site-api/pkg/logging"
)

var tracer = otel.Tracer("gridlight/intake")

// NotifyOutcome reports how a notification attempt ended. Skipped is a
// valid, non-error outcome when delivery is unconfigured.
type NotifyOutcome string

const (
	NotifyDelivered NotifyOutcome = "delivered"
	NotifySkipped   NotifyOutcome = "skipped"
)

// Notifier delivers a best-effort notification for a persisted lead.
type Notifier interface {
	NotifyNewLead(ctx context.Context, lead *Lead) (NotifyOutcome, error)
}

// Handler is the authoritative intake endpoint. Client-side checks are
// optimizations an automated caller can bypass; every guarantee is
// re-enforced here.
type Handler struct {
	repo          Repository
	limiter       ratelimit.Limiter
	notifier      Notifier
	catalog       catalog.Catalog
	metrics       *metrics.IntakeMetrics
	logger        *logging.Logger
	maxBodyBytes  int64
	notifyTimeout time.Duration
}

// HandlerOption configures the intake handler.
type HandlerOption func(*Handler)

// WithMetrics attaches intake metrics.
func WithMetrics(m *metrics.IntakeMetrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// WithMaxBodyBytes caps the request body size.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) { h.maxBodyBytes = n }
}

// WithNotifyTimeout bounds the detached notification attempt.
func WithNotifyTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) { h.notifyTimeout = d }
}

// NewHandler creates the intake handler.
func NewHandler(repo Repository, limiter ratelimit.Limiter, notifier Notifier, cat catalog.Catalog, logger *logging.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cat == nil {
		cat = catalog.Default
	}
	h := &Handler{
		repo:          repo,
		limiter:       limiter,
		notifier:      notifier,
		catalog:       cat,
		logger:        logger,
		maxBodyBytes:  64 * 1024,
		notifyTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Submit handles POST /v1/leads.
//
// Every parseable outcome, including rejections, is written with HTTP 200
// and a {success, error?} body; non-200 statuses are reserved for
// infrastructure failures so the client can treat them as transport errors.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, span := tracer.Start(r.Context(), "intake.submit")
	defer span.End()
	defer func() {
		h.metrics.ObserveLatency(time.Since(start).Seconds())
	}()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var sub LeadSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.logger.Warn("intake: undecodable payload", "error", err, "remote_ip", clientIP(r))
		h.observe(span, "invalid")
		writeJSON(w, SubmitResponse{Success: false, Error: "Your submission could not be read. Please try again."})
		return
	}

	// Automated submitters fill the hidden field. Respond success without
	// persisting so they cannot distinguish rejection from acceptance.
	if strings.TrimSpace(sub.Honeypot) != "" {
		h.logger.Info("intake: honeypot tripped, discarding",
			"remote_ip", clientIP(r),
			"source_page", sub.SourcePage,
		)
		h.metrics.ObserveHoneypot()
		span.SetAttributes(attribute.Bool("intake.honeypot", true))
		writeJSON(w, SubmitResponse{Success: true})
		return
	}

	sub = Normalize(sub, h.catalog)
	if problems := Validate(sub); len(problems) > 0 {
		h.observe(span, "invalid")
		writeJSON(w, SubmitResponse{Success: false, Error: problems[0].Message})
		return
	}

	identity := clientIP(r)
	decision, err := h.limiter.Reserve(ctx, identity)
	if err != nil {
		// Limiter implementations fail open themselves; an error here is
		// unexpected, so err on the side of accepting the lead.
		h.logger.Error("intake: rate limiter error", "error", err, "remote_ip", identity)
		decision = ratelimit.Decision{Allowed: true}
	}
	if !decision.Allowed {
		h.observe(span, "rate_limited")
		writeJSON(w, SubmitResponse{Success: false, Error: rateLimitMessage(decision.RetryAfter)})
		return
	}

	lead, err := h.repo.Create(ctx, NewLeadFromSubmission(sub))
	if err != nil {
		h.logger.Error("intake: persist failed", "error", err, "remote_ip", identity, "source_page", sub.SourcePage)
		h.observe(span, "store_error")
		writeJSON(w, SubmitResponse{Success: false, Error: msgGenericFailure})
		return
	}

	h.logger.Info("lead created",
		"lead_id", lead.ID,
		"service", lead.Service,
		"source_page", lead.SourcePage,
	)
	h.observe(span, "accepted")
	span.SetAttributes(attribute.String("intake.lead_id", lead.ID))

	// The lead is durably recorded; notification is fire-and-forget on a
	// detached context so neither caller teardown nor notifier failure can
	// reach the response.
	go h.notify(lead)

	writeJSON(w, SubmitResponse{Success: true})
}

func (h *Handler) notify(lead *Lead) {
	if h.notifier == nil {
		h.metrics.ObserveNotification(string(NotifySkipped))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.notifyTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "intake.notify")
	defer span.End()

	outcome, err := h.notifier.NotifyNewLead(ctx, lead)
	if err != nil {
		h.logger.Error("intake: notification failed", "error", err, "lead_id", lead.ID)
		h.metrics.ObserveNotification("failed")
		span.SetAttributes(attribute.String("intake.notify_result", "failed"))
		return
	}
	if outcome == NotifySkipped {
		h.logger.Info("intake: notification skipped", "lead_id", lead.ID)
	}
	h.metrics.ObserveNotification(string(outcome))
	span.SetAttributes(attribute.String("intake.notify_result", string(outcome)))
}

// ListLeadsResponse is the admin listing payload.
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /admin/leads.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: 50, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	found, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}
	if found == nil {
		found = []*Lead{}
	}

	writeJSON(w, ListLeadsResponse{
		Leads:  found,
		Count:  len(found),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

func (h *Handler) observe(span trace.Span, outcome string) {
	h.metrics.ObserveSubmission(outcome)
	span.SetAttributes(attribute.String("intake.outcome", outcome))
}

func rateLimitMessage(wait time.Duration) string {
	seconds := int((wait + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return "You recently sent us a message. Please wait " + strconv.Itoa(seconds) + " seconds and try again."
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

// clientIP extracts the caller identity, preferring proxy-set headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
