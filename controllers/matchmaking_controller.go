package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"matchq_server/middleware"
	"matchq_server/models"
	"matchq_server/services"
)

// MatchmakingController handles HTTP requests for joining and leaving the
// matchmaking pool. Match delivery itself goes over the socket layer.
type MatchmakingController struct {
	Matchmaking *services.MatchmakingService
}

// NewMatchmakingController creates a new MatchmakingController instance
func NewMatchmakingController(svc *services.MatchmakingService) *MatchmakingController {
	return &MatchmakingController{Matchmaking: svc}
}

type joinRequest struct {
	ActivityType string `json:"activityType"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoURL"`
}

// Join handles POST /api/matchmaking/join
func (mc *MatchmakingController) Join(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.ParticipantID(r)

	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := mc.Matchmaking.Join(r.Context(), participantID, req.ActivityType, req.DisplayName, req.PhotoURL)
	if err != nil {
		writeMatchmakingError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":      "Searching for a partner",
		"activityType": req.ActivityType,
	})
}

// Leave handles POST /api/matchmaking/leave
func (mc *MatchmakingController) Leave(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.ParticipantID(r)

	if err := mc.Matchmaking.Leave(r.Context(), participantID); err != nil {
		writeMatchmakingError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Left the matchmaking pool",
	})
}

// GetIntent handles GET /api/matchmaking/intent
func (mc *MatchmakingController) GetIntent(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.ParticipantID(r)

	intent, err := mc.Matchmaking.GetIntent(r.Context(), participantID)
	if err != nil {
		writeMatchmakingError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"intent": intent,
	})
}

func writeMatchmakingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrInvalidActivityType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrIntentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, fmt.Sprintf("matchmaking request failed: %v", err), http.StatusInternalServerError)
	}
}
