package routes

import (
	"matchq_server/controllers"
	"matchq_server/services"

	"github.com/gorilla/mux"
)

func RegisterUserProfileRoutes(r *mux.Router, profiles *services.UserProfileService) {
	controller := controllers.NewUserProfileController(profiles)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.HandleFunc("/{participantId}", controller.GetProfile).Methods("GET")
}
