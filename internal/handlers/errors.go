package handlers

import (
	"net/http"

	"github.com/andrei-deeyu/4truckLoad-server/internal/utils"
	"github.com/andrei-deeyu/4truckLoad-server/internal/validation"
)

// serverErrorMsg is the fixed localized message for unexpected failures.
// Internal detail never reaches the caller.
const serverErrorMsg = "Ceva s-a intaplat! Incearca din nou."

func serverError(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": serverErrorMsg})
}

// validationError reports every violated constraint at once; the payload is
// never partially accepted.
func validationError(w http.ResponseWriter, verrs validation.Errors) {
	utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  verrs.Error(),
		"fields": verrs,
	})
}
