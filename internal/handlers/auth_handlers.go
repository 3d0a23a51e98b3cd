package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andrei-deeyu/4truckLoad-server/internal/auth"
	"github.com/andrei-deeyu/4truckLoad-server/internal/utils"
)

type ManagementClient interface {
	ResendVerificationEmail(ctx context.Context, userID string) (string, error)
	GetUser(ctx context.Context, sub string) (*auth.UserRecord, error)
	UpdateUserMetadata(ctx context.Context, sub, role, phone string) (*auth.UserRecord, error)
}

// AuthHandler proxies the identity provider's Management API with field
// projection: only role, phone and subscription ever reach a client.
type AuthHandler struct {
	Mgmt ManagementClient
}

func NewAuthHandler(mgmt ManagementClient) *AuthHandler {
	return &AuthHandler{Mgmt: mgmt}
}

// Root answers a liveness probe at the gateway root. The mux hands it the
// whole /auth/ subtree, so anything below the root is a 404.
func (h *AuthHandler) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/auth/" {
		utils.NotFound(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "🔐"})
}

// VerificationEmail handles POST /auth/verification-email: asks the provider
// to resend the account verification email.
func (h *AuthHandler) VerificationEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		UserID string `json:"user_id"`
	}
	if err := utils.DecodeStrict(r.Body, &body); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	status, err := h.Mgmt.ResendVerificationEmail(ctx, body.UserID)
	if err != nil || status != "pending" {
		serverError(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

// GetUserMetadata handles GET /auth/getUserMetadata: the caller's role and
// phone from the provider's user record.
func (h *AuthHandler) GetUserMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	rec, err := h.Mgmt.GetUser(ctx, id.Subject)
	if err != nil {
		serverError(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"role":  rec.UserMetadata.Role,
		"phone": rec.UserMetadata.Phone,
	})
}

// ChangeUserMetadata handles POST /auth/changeUserMetadata: updates the
// caller's role and phone through the provider.
func (h *AuthHandler) ChangeUserMetadata(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}
	var body struct {
		Role  string `json:"role"`
		Phone string `json:"phone"`
	}
	if err := utils.DecodeStrict(r.Body, &body); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	rec, err := h.Mgmt.UpdateUserMetadata(ctx, id.Subject, body.Role, body.Phone)
	if err != nil {
		serverError(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"state":    "changed.",
		"newRole":  rec.UserMetadata.Role,
		"newPhone": rec.UserMetadata.Phone,
	})
}

// PlanChanged handles POST /auth/planchanged: tells the client whether the
// provider knows a different subscription than the caller's token carries,
// in which case the client should refresh its token.
func (h *AuthHandler) PlanChanged(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	rec, err := h.Mgmt.GetUser(ctx, id.Subject)
	if err != nil {
		serverError(w)
		return
	}

	if rec.AppMetadata.Subscription != "" && rec.AppMetadata.Subscription != id.Subscription {
		utils.WriteJSON(w, http.StatusOK, map[string]any{
			"planName":          rec.AppMetadata.Subscription,
			"refresh_the_Token": true,
		})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"refresh_the_Token": false})
}
