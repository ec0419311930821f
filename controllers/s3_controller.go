package controllers

import (
	"encoding/json"
	"net/http"

	"matchq_server/services"
)

// S3Controller serves presigned URLs for profile photo upload and read
type S3Controller struct {
	S3 *services.S3Service
}

func NewS3Controller(s3 *services.S3Service) *S3Controller {
	return &S3Controller{S3: s3}
}

// GetUploadURL handles GET /api/s3/upload-url?fileName=...&fileType=...
func (sc *S3Controller) GetUploadURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		http.Error(w, "fileName and fileType are required", http.StatusBadRequest)
		return
	}

	url, key, err := sc.S3.GenerateUploadURL(fileName, fileType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"uploadURL": url,
		"key":       key,
	})
}

// GetReadURL handles GET /api/s3/read-url?key=...
func (sc *S3Controller) GetReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	url, err := sc.S3.GenerateReadURL(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"readURL": url,
	})
}
