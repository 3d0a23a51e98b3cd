package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andrei-deeyu/4truckLoad-server/internal/auth"
)

func userRecord(role, phone, subscription string) *auth.UserRecord {
	rec := &auth.UserRecord{}
	rec.UserMetadata.Role = role
	rec.UserMetadata.Phone = phone
	rec.AppMetadata.Subscription = subscription
	return rec
}

func TestVerificationEmail_Pending(t *testing.T) {
	mm := &mgmtMock{
		ResendFn: func(_ context.Context, userID string) (string, error) {
			if userID != "auth0|abc123" {
				t.Fatalf("userID=%q", userID)
			}
			return "pending", nil
		},
	}
	h := &AuthHandler{Mgmt: mm}

	req := postJSON(t, "/auth/verification-email", map[string]string{"user_id": "auth0|abc123"})
	rr := httptest.NewRecorder()
	h.VerificationEmail(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "pending" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestVerificationEmail_UpstreamFailure(t *testing.T) {
	mm := &mgmtMock{
		ResendFn: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("gateway timeout")
		},
	}
	h := &AuthHandler{Mgmt: mm}

	req := postJSON(t, "/auth/verification-email", map[string]string{"user_id": "auth0|abc123"})
	rr := httptest.NewRecorder()
	h.VerificationEmail(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", rr.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["error"] != serverErrorMsg {
		t.Fatalf("internal detail leaked: %q", resp["error"])
	}
}

func TestGetUserMetadata_ProjectsFields(t *testing.T) {
	mm := &mgmtMock{
		GetUserFn: func(_ context.Context, sub string) (*auth.UserRecord, error) {
			if sub != testIdentity.Subject {
				t.Fatalf("sub=%q", sub)
			}
			return userRecord("transporter", "0744111222", "complet"), nil
		},
	}
	h := &AuthHandler{Mgmt: mm}

	req := authed(httptest.NewRequest(http.MethodGet, "/auth/getUserMetadata", nil), testIdentity)
	rr := httptest.NewRecorder()
	h.GetUserMetadata(rr, req)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	// only role and phone pass through
	if len(resp) != 2 || resp["role"] != "transporter" || resp["phone"] != "0744111222" {
		t.Fatalf("unexpected projection: %v", resp)
	}
}

func TestChangeUserMetadata(t *testing.T) {
	mm := &mgmtMock{
		UpdateFn: func(_ context.Context, sub, role, phone string) (*auth.UserRecord, error) {
			if sub != testIdentity.Subject || role != "expeditor" || phone != "0755000111" {
				t.Fatalf("args: %q %q %q", sub, role, phone)
			}
			return userRecord(role, phone, ""), nil
		},
	}
	h := &AuthHandler{Mgmt: mm}

	req := authed(postJSON(t, "/auth/changeUserMetadata", map[string]string{
		"role": "expeditor", "phone": "0755000111",
	}), testIdentity)
	rr := httptest.NewRecorder()
	h.ChangeUserMetadata(rr, req)

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["state"] != "changed." || resp["newRole"] != "expeditor" || resp["newPhone"] != "0755000111" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestPlanChanged_SubscriptionDiffers(t *testing.T) {
	mm := &mgmtMock{
		GetUserFn: func(_ context.Context, _ string) (*auth.UserRecord, error) {
			return userRecord("", "", "complet"), nil
		},
	}
	h := &AuthHandler{Mgmt: mm}

	req := authed(postJSON(t, "/auth/planchanged", map[string]string{}), testIdentity) // token says "basic"
	rr := httptest.NewRecorder()
	h.PlanChanged(rr, req)

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["refresh_the_Token"] != true || resp["planName"] != "complet" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestPlanChanged_SubscriptionMatchesToken(t *testing.T) {
	mm := &mgmtMock{
		GetUserFn: func(_ context.Context, _ string) (*auth.UserRecord, error) {
			return userRecord("", "", testIdentity.Subscription), nil
		},
	}
	h := &AuthHandler{Mgmt: mm}

	req := authed(postJSON(t, "/auth/planchanged", map[string]string{}), testIdentity)
	rr := httptest.NewRecorder()
	h.PlanChanged(rr, req)

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["refresh_the_Token"] != false {
		t.Fatalf("unexpected response: %v", resp)
	}
	if _, ok := resp["planName"]; ok {
		t.Fatal("planName should be absent when unchanged")
	}
}

// The resend flow serves users who cannot log in yet, so the handler must
// work with no identity on the context.
func TestVerificationEmail_WorksWithoutIdentity(t *testing.T) {
	mm := &mgmtMock{
		ResendFn: func(_ context.Context, _ string) (string, error) {
			return "pending", nil
		},
	}
	h := &AuthHandler{Mgmt: mm}

	req := postJSON(t, "/auth/verification-email", map[string]string{"user_id": "auth0|anon"})
	if _, ok := auth.IdentityFrom(req.Context()); ok {
		t.Fatal("request unexpectedly carries an identity")
	}
	rr := httptest.NewRecorder()
	h.VerificationEmail(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "pending" {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestRoot_ExactPathOnly(t *testing.T) {
	h := &AuthHandler{}

	rr := httptest.NewRecorder()
	h.Root(rr, httptest.NewRequest(http.MethodGet, "/auth/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("root probe status=%d", rr.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["message"] != "🔐" {
		t.Fatalf("unexpected response: %v", resp)
	}

	rr = httptest.NewRecorder()
	h.Root(rr, httptest.NewRequest(http.MethodGet, "/auth/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown subtree path: status=%d, want 404", rr.Code)
	}
}
