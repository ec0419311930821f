package routes

import (
	"matchq_server/controllers"
	"matchq_server/middleware"
	"matchq_server/services"

	"github.com/gorilla/mux"
)

func RegisterMatchmakingRoutes(r *mux.Router, svc *services.MatchmakingService) {
	controller := controllers.NewMatchmakingController(svc)

	matchRouter := r.PathPrefix("/api/matchmaking").Subrouter()
	matchRouter.Use(middleware.RequireParticipant)
	matchRouter.HandleFunc("/join", controller.Join).Methods("POST")
	matchRouter.HandleFunc("/leave", controller.Leave).Methods("POST")
	matchRouter.HandleFunc("/intent", controller.GetIntent).Methods("GET")
}
