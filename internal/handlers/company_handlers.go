package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/andrei-deeyu/4truckLoad-server/internal/auth"
	"github.com/andrei-deeyu/4truckLoad-server/internal/models"
	"github.com/andrei-deeyu/4truckLoad-server/internal/utils"
	"github.com/andrei-deeyu/4truckLoad-server/internal/validation"
)

type CompanyRepository interface {
	Upsert(ctx context.Context, c *models.Company) (*models.Company, error)
	GetByAdministrator(ctx context.Context, administrator string) (*models.Company, error)
}

type CompanyHandler struct {
	Repo CompanyRepository
}

func NewCompanyHandler(repo CompanyRepository) *CompanyHandler {
	return &CompanyHandler{Repo: repo}
}

// Company handles /company: POST upserts the caller's profile, GET fetches it.
func (h *CompanyHandler) Company(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing token"})
		return
	}

	switch r.Method {

	case http.MethodGet:
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		c, err := h.Repo.GetByAdministrator(ctx, id.Email)
		if err != nil {
			serverError(w)
			return
		}
		// no profile yet is not an error
		if c == nil {
			utils.WriteJSON(w, http.StatusOK, map[string]any{})
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case http.MethodPost:
		var in validation.CompanyInput
		if err := utils.DecodeStrict(r.Body, &in); err != nil {
			utils.BadRequest(w, err.Error())
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

		c := models.Company{
			CompanyName:   in.CompanyName,
			CUI:           utils.NormalizeCUI(in.CUI),
			FromYear:      in.FromYear,
			Address:       in.Address,
			Activity:      in.Activity,
			Administrator: id.Email,
		}

		// single atomic upsert keyed on the administrator: exactly one
		// company per owner survives concurrent calls
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		out, err := h.Repo.Upsert(ctx, &c)
		if err != nil {
			serverError(w)
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]any{"state": "updated.", "company": out})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
