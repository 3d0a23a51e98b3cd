package handlers

import (
	"net/http"

	"github.com/andrei-deeyu/4truckLoad-server/internal/utils"
)

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
