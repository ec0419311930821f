package controllers

import (
	"encoding/json"
	"net/http"

	"matchq_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController serves profile reads for partner cards
type UserProfileController struct {
	Profiles *services.UserProfileService
}

func NewUserProfileController(profiles *services.UserProfileService) *UserProfileController {
	return &UserProfileController{Profiles: profiles}
}

// GetProfile handles GET /api/profiles/{participantId}
func (pc *UserProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	participantID := mux.Vars(r)["participantId"]
	if participantID == "" {
		http.Error(w, "participantId is required", http.StatusBadRequest)
		return
	}

	profile, err := pc.Profiles.GetProfile(r.Context(), participantID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"profile": profile,
	})
}
