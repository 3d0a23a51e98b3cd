package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"
const testNamespace = "https://www.dev-h1e424j0.us.auth0.com."

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestRequire_ValidToken(t *testing.T) {
	m := NewMiddleware(testSecret, testNamespace)

	var got Identity
	next := func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	raw := signToken(t, jwt.MapClaims{
		"sub":                          "auth0|abc123",
		"name":                         "Andrei",
		"email":                        "andrei@example.com",
		testNamespace + "phone":        "0744111222",
		testNamespace + "subscription": "complet",
		"exp":                          time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/freights", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	m.Require(next)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	want := Identity{
		Subject:      "auth0|abc123",
		Name:         "Andrei",
		Email:        "andrei@example.com",
		Phone:        "0744111222",
		Subscription: "complet",
	}
	if got != want {
		t.Fatalf("identity=%+v want=%+v", got, want)
	}
}

func TestRequire_MissingToken(t *testing.T) {
	m := NewMiddleware(testSecret, testNamespace)
	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}

	req := httptest.NewRequest(http.MethodGet, "/freights", nil)
	rr := httptest.NewRecorder()
	m.Require(next)(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestRequire_WrongSignature(t *testing.T) {
	m := NewMiddleware("other-secret", testNamespace)
	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}

	raw := signToken(t, jwt.MapClaims{"sub": "auth0|abc123"})
	req := httptest.NewRequest(http.MethodGet, "/freights", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	m.Require(next)(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", rr.Code)
	}
}

func TestRequire_ExpiredToken(t *testing.T) {
	m := NewMiddleware(testSecret, testNamespace)
	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next must not run")
	}

	raw := signToken(t, jwt.MapClaims{
		"sub": "auth0|abc123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/freights", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	m.Require(next)(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d", rr.Code)
	}
}
