package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireParticipantRejectsMissingHeader(t *testing.T) {
	handler := RequireParticipant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without identity")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireParticipantPassesIdentityThrough(t *testing.T) {
	var got string
	handler := RequireParticipant(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ParticipantID(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(ParticipantIDHeader, "alice")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got != "alice" {
		t.Fatalf("participant id = %q, want alice", got)
	}
}

func TestParticipantIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id := ParticipantID(req); id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}
