package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
	"github.com/andrei-deeyu/4truckLoad-server/internal/utils"
)

type StatsRepository interface {
	Insert(ctx context.Context, s *models.Stat) error
}

type StatsHandler struct {
	Repo StatsRepository
}

func NewStatsHandler(repo StatsRepository) *StatsHandler {
	return &StatsHandler{Repo: repo}
}

// WhichCTA handles POST /whichCTA: records which call-to-action button the
// visitor clicked. The write runs detached from the response and its failure
// is swallowed; analytics must never block a user-facing flow.
func (h *StatsHandler) WhichCTA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		WhichCTA string `json:"whichCTA"`
	}
	_ = utils.DecodeStrict(r.Body, &body)

	stat := &models.Stat{
		StatsType: "whichCTA",
		IP:        utils.ClientIP(r),
		WhichCTA:  body.WhichCTA,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Repo.Insert(ctx, stat); err != nil {
			slog.Warn("stats_insert_error", "err", err)
		}
	}()

	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "done"})
}
