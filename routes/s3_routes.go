package routes

import (
	"matchq_server/controllers"
	"matchq_server/services"

	"github.com/gorilla/mux"
)

func RegisterS3Routes(r *mux.Router, s3 *services.S3Service) {
	controller := controllers.NewS3Controller(s3)

	s3Router := r.PathPrefix("/api/s3").Subrouter()
	s3Router.HandleFunc("/upload-url", controller.GetUploadURL).Methods("GET")
	s3Router.HandleFunc("/read-url", controller.GetReadURL).Methods("GET")
}
