package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andrei-deeyu/4truckLoad-server/internal/utils"
)

// Identity is the authenticated caller as described by the token: the
// registered claims plus the namespaced custom claims the identity provider
// attaches (subscription tier, phone).
type Identity struct {
	Subject      string
	Name         string
	Email        string
	Phone        string
	Subscription string
}

type identityKey struct{}

// IdentityFrom returns the Identity placed on the context by Require.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Middleware verifies bearer tokens and exposes the caller's Identity to
// downstream handlers. Namespace prefixes the provider's custom claims.
type Middleware struct {
	secret    []byte
	namespace string
}

func NewMiddleware(secret, namespace string) *Middleware {
	return &Middleware{secret: []byte(secret), namespace: namespace}
}

// Require rejects requests without a valid token with 401.
func (m *Middleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
			return
		}
		raw := strings.TrimPrefix(h, "Bearer ")

		claims := jwt.MapClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !tok.Valid {
			utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		id := Identity{
			Subject:      stringClaim(claims, "sub"),
			Name:         stringClaim(claims, "name"),
			Email:        stringClaim(claims, "email"),
			Phone:        stringClaim(claims, m.namespace+"phone"),
			Subscription: stringClaim(claims, m.namespace+"subscription"),
		}
		next(w, r.WithContext(WithIdentity(r.Context(), id)))
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
