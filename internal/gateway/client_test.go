package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridlight-solar/site-api/internal/leads"
)

func submission() leads.LeadSubmission {
	return leads.LeadSubmission{
		Name:       "Ada Obi",
		Phone:      "08031234567",
		Service:    "solar-installation",
		Location:   "Gwarinpa, Abuja",
		Message:    "Need a quote",
		SourcePage: "home",
	}
}

func TestSubmitSuccessMarksCooldown(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(leads.SubmitResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res := c.Submit(context.Background(), submission())
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}

	// Second attempt is stopped locally before any network call.
	res = c.Submit(context.Background(), submission())
	if res.Success {
		t.Fatal("expected cooldown denial")
	}
	if !strings.Contains(res.Error, "wait") {
		t.Errorf("expected wait-time message, got %q", res.Error)
	}
	if hits.Load() != 1 {
		t.Fatalf("cooldown denial must not hit the network, got %d calls", hits.Load())
	}
}

func TestSubmitResolvesServiceLocally(t *testing.T) {
	var received leads.LeadSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(leads.SubmitResponse{Success: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.Submit(context.Background(), submission())

	if received.Service != "Solar Installation" {
		t.Errorf("expected service mapped to display title, got %q", received.Service)
	}
}

func TestSubmitHoneypotPassedVerbatim(t *testing.T) {
	var received leads.LeadSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(leads.SubmitResponse{Success: true})
	}))
	defer srv.Close()

	sub := submission()
	sub.Honeypot = "http://spam.example"

	c := NewClient(srv.URL)
	c.Submit(context.Background(), sub)

	if received.Honeypot != "http://spam.example" {
		t.Errorf("honeypot must travel verbatim, got %q", received.Honeypot)
	}
}

func TestSubmitEndpointReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(leads.SubmitResponse{Success: false, Error: "A phone number is required so we can reach you."})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res := c.Submit(context.Background(), submission())
	if res.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Error, "phone") {
		t.Errorf("endpoint's pre-formatted message should be surfaced, got %q", res.Error)
	}

	// Failed attempts must not start the cooldown.
	if ok, _ := c.cooldown.Allow(); !ok {
		t.Fatal("failure must not engage the cooldown")
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL)
	res := c.Submit(context.Background(), submission())
	if res.Success {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(res.Error, "call us") {
		t.Errorf("expected generic retry-or-call-us message, got %q", res.Error)
	}
}

func TestSubmitTimeoutIsGenericFailure(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	c := NewClient(srv.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	res := c.Submit(context.Background(), submission())
	if res.Success {
		t.Fatal("expected timeout to fail")
	}
	if res.Error != msgTryAgain {
		t.Errorf("expected generic message, got %q", res.Error)
	}
}

func TestSubmitNon200IsGenericFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res := c.Submit(context.Background(), submission())
	if res.Success {
		t.Fatal("expected failure result")
	}
	if res.Error != msgTryAgain {
		t.Errorf("expected generic message, got %q", res.Error)
	}
}
