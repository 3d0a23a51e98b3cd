package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/andrei-deeyu/4truckLoad-server/internal/auth"
	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
	"github.com/andrei-deeyu/4truckLoad-server/internal/repository"
	"github.com/andrei-deeyu/4truckLoad-server/internal/utils"
	"github.com/andrei-deeyu/4truckLoad-server/internal/validation"
)

/*
A page shows 8 freights; the 9th document is fetched only so the client
knows more pages exist. The client pops it off and renders one more
pagination button.
*/
const freightsPerPage = 8 + 1

// subscription tiers with full contact-detail visibility
const (
	tierComplet       = "complet"
	tierTransportator = "transportator"
)

// fixed masks shown to non-privileged viewers
const (
	maskedEmail = "*****@gmail.com"
	maskedPhone = "07******"
)

// business-rule messages for the pallet cross-field check
const (
	palletNumberMissingMsg = "Ai introdus doar tipul paletului, nu si numarul acestora"
	palletNameMissingMsg   = "Ai introdus doar numarul de paleti, nu si tipul acestora"
)

type FreightRepository interface {
	Create(ctx context.Context, f *models.Freight) (primitive.ObjectID, error)
	List(ctx context.Context, limit, skip int64) ([]models.Freight, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Freight, error)
	ExistsByPoster(ctx context.Context, email string) (bool, error)
}

type Publisher interface {
	Publish(ctx context.Context, body []byte, headers amqp.Table) error
	Close() error
}

type FreightHandler struct {
	Repo FreightRepository
	Pub  Publisher
}

func NewFreightHandler(repo FreightRepository, pub Publisher) *FreightHandler {
	return &FreightHandler{Repo: repo, Pub: pub}
}

// Freights handles GET /freights: one page of freights, newest first.
// The page index arrives in the skipN header; out-of-range pages return an
// empty array, never an error.
func (h *FreightHandler) Freights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var skipN int64
	if s := r.Header.Get("skipN"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			skipN = v
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	list, err := h.Repo.List(ctx, freightsPerPage, skipN*freightsPerPage)
	if err != nil {
		serverError(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// UserAddedFreights handles GET /userAddedFreights: whether the caller has
// posted any freight. Gates UI state only, never posting itself.
func (h *FreightHandler) UserAddedFreights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	exists, err := h.Repo.ExistsByPoster(ctx, id.Email)
	if err != nil {
		serverError(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"userAddedFreights": exists})
}

// parseFreightIDFromPath accepts only /freight/{id}.
func parseFreightIDFromPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 2 && parts[0] == "freight" && parts[1] != "" {
		return parts[1], true
	}
	return "", false
}

// FreightByID handles GET /freight/{id}. Contact details are redacted unless
// the caller's subscription tier grants full access; the redaction applies
// to this single fetch only, never to the list.
func (h *FreightHandler) FreightByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	raw, ok := parseFreightIDFromPath(r.URL.Path)
	if !ok {
		utils.NotFound(w)
		return
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		utils.NotFound(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	f, err := h.Repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(w)
			return
		}
		serverError(w)
		return
	}

	id, _ := auth.IdentityFrom(r.Context())
	if id.Subscription != tierComplet && id.Subscription != tierTransportator {
		f.FromUser.Email = maskedEmail
		f.FromUser.Phone = maskedPhone
	}
	utils.WriteJSON(w, http.StatusOK, f)
}

// CreateFreight handles POST /freight.
func (h *FreightHandler) CreateFreight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}

	var in validation.FreightInput
	if err := utils.DecodeStrict(r.Body, &in); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	// pallet name and count travel together; checked before schema validation.
	// An explicit count of 0 counts as absent on both sides.
	palletNumberSet := in.PalletNumber != nil && *in.PalletNumber > 0
	if in.PalletName != "" && !palletNumberSet {
		utils.Unprocessable(w, palletNumberMissingMsg)
		return
	}
	if palletNumberSet && in.PalletName == "" {
		utils.Unprocessable(w, palletNameMissingMsg)
		return
	}

	if err := in.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			validationError(w, verrs)
			return
		}
		serverError(w)
		return
	}

	f := models.Freight{
		Location:      in.Location,
		Destination:   in.Destination,
		Details:       in.Details,
		Distance:      in.Distance,
		InitialOffer:  in.InitialOffer,
		TVA:           in.TVA,
		Regime:        in.Regime,
		Tonnage:       *in.Tonnage,
		PalletName:    in.PalletName,
		PalletNumber:  in.PalletNumber,
		Volume:        in.Volume,
		FreightLength: in.FreightLength,
		Width:         in.Width,
		Height:        in.Height,
		Valability:    in.Valability,
		TruckType:     in.TruckType,
		Features:      in.Features,
		// snapshot of the poster at creation time; never updated afterwards
		FromUser: models.FromUser{
			Name:  id.Name,
			Email: id.Email,
			Phone: id.Phone,
		},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	oid, err := h.Repo.Create(ctx, &f)
	if err != nil {
		serverError(w)
		return
	}

	h.publishPosted(&f)
	utils.WriteJSON(w, http.StatusOK, map[string]any{"state": "posted.", "id": oid})
}

// publishPosted pushes the new freight onto the live-feed queue.
// Best-effort: a broker failure never fails the posting request.
func (h *FreightHandler) publishPosted(f *models.Freight) {
	if h.Pub == nil || f == nil {
		return
	}
	body, err := json.Marshal(f)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_ = h.Pub.Publish(ctx, body, amqp.Table{
		"event":      "freight_posted",
		"freight_id": f.ID.Hex(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}
