package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/robomart/authtoken"
)

type nopStore struct{}

func (nopStore) AddToken(context.Context, authtoken.TokenRecord) error { return nil }

func newGuardTestEngine(t *testing.T) *authtoken.Engine {
	t.Helper()

	engine, err := authtoken.New().
		WithSecret([]byte("guard-test-secret-0123456789abcd")).
		WithStore(nopStore{}).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func echoEmailHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := EmailFromContext(r.Context())
		if !ok {
			t.Fatal("guard passed the request without attaching an email")
		}
		_, _ = io.WriteString(w, email)
	})
}

func TestGuardAcceptsValidSessionToken(t *testing.T) {
	engine := newGuardTestEngine(t)
	ctx := context.Background()

	refresh, err := engine.IssueRefresh(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	session, err := engine.IssueSession(ctx, refresh)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	handler := Guard(engine)(echoEmailHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+session)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "a@example.com" {
		t.Fatalf("body = %q, want the caller's email", body)
	}
}

func TestGuardRejectsWith401AndFixedDetail(t *testing.T) {
	engine := newGuardTestEngine(t)
	handler := Guard(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for rejected requests")
	}))

	tests := []struct {
		name      string
		authorize string
	}{
		{name: "missing header"},
		{name: "not bearer", authorize: "Basic Zm9vOmJhcg=="},
		{name: "empty bearer", authorize: "Bearer "},
		{name: "garbage token", authorize: "Bearer not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.authorize != "" {
				req.Header.Set("Authorization", tt.authorize)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if body := strings.TrimSpace(rec.Body.String()); body != invalidTokenDetail {
				t.Fatalf("body = %q, want %q", body, invalidTokenDetail)
			}
		})
	}
}

func TestGuardRejectsExpiredSessionToken(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issued

	engine, err := authtoken.New().
		WithSecret([]byte("guard-test-secret-0123456789abcd")).
		WithStore(nopStore{}).
		WithClock(func() time.Time { return clock }).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	defer engine.Close()

	refresh, err := engine.IssueRefresh(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	session, err := engine.IssueSession(context.Background(), refresh)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	clock = issued.Add(48 * time.Hour)

	handler := Guard(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run for an expired session")
	}))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+session)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRefreshAcceptsRefreshToken(t *testing.T) {
	engine := newGuardTestEngine(t)

	refresh, err := engine.IssueRefresh(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}

	handler := RequireRefresh(engine)(echoEmailHandler(t))
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGuardNilEngine(t *testing.T) {
	handler := Guard(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run without an engine")
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
