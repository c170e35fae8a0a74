package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gridlight-solar/site-api/internal/catalog"
	"github.com/gridlight-solar/site-api/internal/leads"
	"github.com/gridlight-solar/site-api/internal/ratelimit"
	"github.com/gridlight-solar/site-api/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	handler := leads.NewHandler(
		leads.NewInMemoryRepository(),
		ratelimit.NewMemoryLimiter(time.Minute),
		nil,
		catalog.Default,
		logging.New("error"),
	)
	return New(&Config{
		Logger:          logging.New("error"),
		LeadsHandler:    handler,
		AdminAuthSecret: "router-test-secret",
	})
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestLeadSubmissionRoute(t *testing.T) {
	r := newTestRouter(t)

	body := `{
		"name": "Chinedu Okafor",
		"phone": "+234 803 555 0102",
		"service": "solar-installation",
		"location": "Lekki, Lagos",
		"message": "Need a quote for a 5kVA system.",
		"source_page": "/services/solar-installation"
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestAdminRouteRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
