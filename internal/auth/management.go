package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// UserRecord is the slice of the identity provider's user document this
// service cares about. Handlers project individual fields out of it; the
// full record never reaches a client.
type UserRecord struct {
	UserMetadata struct {
		Role  string `json:"role"`
		Phone string `json:"phone"`
	} `json:"user_metadata"`
	AppMetadata struct {
		Subscription string `json:"subscription"`
	} `json:"app_metadata"`
}

// Management calls the identity provider's Management API with a
// client-credentials token. The token is acquired lazily on first use and
// cached until shortly before expiry, so route availability never depends on
// a boot-time network call.
type Management struct {
	baseURL      string
	clientID     string
	clientSecret string
	audience     string
	httpc        *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewManagement(baseURL, clientID, clientSecret, audience string) *Management {
	return &Management{
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		audience:     audience,
		httpc:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *Management) accessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && time.Now().Before(m.expiry) {
		return m.token, nil
	}

	body, _ := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     m.clientID,
		"client_secret": m.clientSecret,
		"audience":      m.audience,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/oauth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed: %s", resp.Status)
	}

	var grant struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return "", err
	}

	m.token = grant.AccessToken
	// refresh a minute early to avoid using a token mid-expiry
	m.expiry = time.Now().Add(time.Duration(grant.ExpiresIn)*time.Second - time.Minute)
	return m.token, nil
}

// ResendVerificationEmail queues a verification-email job for the user and
// returns the provider's job status.
func (m *Management) ResendVerificationEmail(ctx context.Context, userID string) (string, error) {
	payload := map[string]string{"user_id": userID, "client_id": m.clientID}
	var out struct {
		Status string `json:"status"`
	}
	if err := m.do(ctx, http.MethodPost, "/api/v2/jobs/verification-email", payload, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// GetUser fetches the user's full identity record.
func (m *Management) GetUser(ctx context.Context, sub string) (*UserRecord, error) {
	var rec UserRecord
	if err := m.do(ctx, http.MethodGet, "/api/v2/users/"+sub, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateUserMetadata patches the user's role and phone and returns the
// record as stored.
func (m *Management) UpdateUserMetadata(ctx context.Context, sub, role, phone string) (*UserRecord, error) {
	payload := map[string]any{
		"user_metadata": map[string]string{"role": role, "phone": phone},
	}
	var rec UserRecord
	if err := m.do(ctx, http.MethodPatch, "/api/v2/users/"+sub, payload, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (m *Management) do(ctx context.Context, method, path string, payload, out any) error {
	token, err := m.accessToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("management api %s %s: %s", method, path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
