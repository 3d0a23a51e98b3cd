package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
	"github.com/andrei-deeyu/4truckLoad-server/internal/repository"
	"github.com/andrei-deeyu/4truckLoad-server/internal/validation"
)

//go:embed seeds/freights.json
var freightsJSON []byte

type seedItem struct {
	validation.FreightInput
	FromUser models.FromUser `json:"fromUser"`
}

// Idempotent per poster: a poster who already has freights is skipped, so
// rerunning the task does not duplicate the board.
func SeedFreights(ctx context.Context, repo *repository.FreightRepository, log *slog.Logger) error {
	var items []seedItem
	if err := json.Unmarshal(freightsJSON, &items); err != nil {
		return err
	}

	created := 0
	for _, s := range items {
		if err := s.FreightInput.Validate(); err != nil {
			log.Warn("seed_skip_invalid_freight", "location", s.Location, "err", err)
			continue
		}

		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		exists, err := repo.ExistsByPoster(ictx, s.FromUser.Email)
		if err != nil {
			cancel()
			return err
		}
		if exists {
			cancel()
			log.Info("seed_poster_exists", "email", s.FromUser.Email)
			continue
		}

		f := models.Freight{
			Location:      s.Location,
			Destination:   s.Destination,
			Details:       s.Details,
			Distance:      s.Distance,
			InitialOffer:  s.InitialOffer,
			TVA:           s.TVA,
			Regime:        s.Regime,
			PalletName:    s.PalletName,
			PalletNumber:  s.PalletNumber,
			Volume:        s.Volume,
			FreightLength: s.FreightLength,
			Width:         s.Width,
			Height:        s.Height,
			Valability:    s.Valability,
			TruckType:     s.TruckType,
			Features:      s.Features,
			FromUser:      s.FromUser,
		}
		if s.Tonnage != nil {
			f.Tonnage = *s.Tonnage
		}

		_, err = repo.Create(ictx, &f)
		cancel()
		if err != nil {
			return err
		}
		created++
		log.Info("seed_freight_created", "location", f.Location, "email", f.FromUser.Email)
	}

	log.Info("seed_freights_done", "total", len(items), "created", created)
	return nil
}
