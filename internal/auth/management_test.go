package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// fake identity provider: counts token grants and serves one user record
func newFakeProvider(t *testing.T, tokenGrants *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenGrants.Add(1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["grant_type"] != "client_credentials" {
			t.Errorf("grant_type=%q", body["grant_type"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "mgmt-token",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("/api/v2/users/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer mgmt-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		rec := map[string]any{
			"user_metadata": map[string]string{"role": "transporter", "phone": "0744111222"},
			"app_metadata":  map[string]string{"subscription": "complet"},
		}
		if r.Method == http.MethodPatch {
			var body struct {
				UserMetadata map[string]string `json:"user_metadata"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			rec["user_metadata"] = body.UserMetadata
		}
		_ = json.NewEncoder(w).Encode(rec)
	})

	mux.HandleFunc("/api/v2/jobs/verification-email", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "pending"})
	})

	return httptest.NewServer(mux)
}

func TestManagement_TokenIsCachedAcrossCalls(t *testing.T) {
	var grants atomic.Int32
	srv := newFakeProvider(t, &grants)
	defer srv.Close()

	m := NewManagement(srv.URL, "client-id", "client-secret", srv.URL+"/api/v2/")
	ctx := context.Background()

	if _, err := m.GetUser(ctx, "auth0|abc123"); err != nil {
		t.Fatalf("get user: %v", err)
	}
	if _, err := m.GetUser(ctx, "auth0|abc123"); err != nil {
		t.Fatalf("get user: %v", err)
	}
	if _, err := m.ResendVerificationEmail(ctx, "auth0|abc123"); err != nil {
		t.Fatalf("resend: %v", err)
	}

	if n := grants.Load(); n != 1 {
		t.Fatalf("token requested %d times; want 1 (cached)", n)
	}
}

func TestManagement_GetUser(t *testing.T) {
	var grants atomic.Int32
	srv := newFakeProvider(t, &grants)
	defer srv.Close()

	m := NewManagement(srv.URL, "client-id", "client-secret", srv.URL+"/api/v2/")
	rec, err := m.GetUser(context.Background(), "auth0|abc123")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rec.UserMetadata.Role != "transporter" || rec.AppMetadata.Subscription != "complet" {
		t.Fatalf("record=%+v", rec)
	}
}

func TestManagement_UpdateUserMetadata(t *testing.T) {
	var grants atomic.Int32
	srv := newFakeProvider(t, &grants)
	defer srv.Close()

	m := NewManagement(srv.URL, "client-id", "client-secret", srv.URL+"/api/v2/")
	rec, err := m.UpdateUserMetadata(context.Background(), "auth0|abc123", "expeditor", "0755000111")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.UserMetadata.Role != "expeditor" || rec.UserMetadata.Phone != "0755000111" {
		t.Fatalf("record=%+v", rec)
	}
}

func TestManagement_ResendVerificationEmail(t *testing.T) {
	var grants atomic.Int32
	srv := newFakeProvider(t, &grants)
	defer srv.Close()

	m := NewManagement(srv.URL, "client-id", "client-secret", srv.URL+"/api/v2/")
	status, err := m.ResendVerificationEmail(context.Background(), "auth0|abc123")
	if err != nil {
		t.Fatalf("resend: %v", err)
	}
	if status != "pending" {
		t.Fatalf("status=%q", status)
	}
}

func TestManagement_UpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewManagement(srv.URL, "client-id", "client-secret", srv.URL+"/api/v2/")
	if _, err := m.GetUser(context.Background(), "auth0|abc123"); err == nil {
		t.Fatal("expected error from failing provider")
	}
}
