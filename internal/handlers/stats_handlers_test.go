package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
)

func TestWhichCTA_RespondsDoneAndRecordsDetached(t *testing.T) {
	recorded := make(chan *models.Stat, 1)
	rm := &statsRepoMock{
		InsertFn: func(_ context.Context, s *models.Stat) error {
			recorded <- s
			return nil
		},
	}
	h := &StatsHandler{Repo: rm}

	req := postJSON(t, "/whichCTA", map[string]string{"whichCTA": "hero-signup"})
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rr := httptest.NewRecorder()
	h.WhichCTA(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "done" {
		t.Fatalf("unexpected response: %v", resp)
	}

	select {
	case s := <-recorded:
		if s.StatsType != "whichCTA" || s.WhichCTA != "hero-signup" || s.IP != "203.0.113.7" {
			t.Fatalf("unexpected stat: %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for detached insert")
	}
}

// a failing store must never surface to the caller
func TestWhichCTA_SwallowsInsertFailure(t *testing.T) {
	inserted := make(chan struct{}, 1)
	rm := &statsRepoMock{
		InsertFn: func(_ context.Context, _ *models.Stat) error {
			inserted <- struct{}{}
			return errors.New("store down")
		},
	}
	h := &StatsHandler{Repo: rm}

	req := postJSON(t, "/whichCTA", map[string]string{"whichCTA": "cta-2"})
	rr := httptest.NewRecorder()
	h.WhichCTA(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "done" {
		t.Fatalf("unexpected response: %v", resp)
	}

	select {
	case <-inserted:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for detached insert")
	}
}

func TestWhichCTA_MethodNotAllowed(t *testing.T) {
	h := &StatsHandler{Repo: &statsRepoMock{}}

	req := httptest.NewRequest(http.MethodGet, "/whichCTA", nil)
	rr := httptest.NewRecorder()
	h.WhichCTA(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d", rr.Code)
	}
}
