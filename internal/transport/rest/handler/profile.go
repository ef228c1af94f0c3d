package handler

import (
	"net/http"

	"linguaclash/internal/service"

	"github.com/gorilla/mux"
)

// ProfileHandler handles durable profile endpoints
type ProfileHandler struct {
	resultsSvc *service.ResultsService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(resultsSvc *service.ResultsService) *ProfileHandler {
	return &ProfileHandler{resultsSvc: resultsSvc}
}

// Get handles GET /v1/profiles/{userId}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	profile, err := h.resultsSvc.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
