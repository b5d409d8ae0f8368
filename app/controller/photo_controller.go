package controller

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"aninha-confeccoes/service"
)

// PhotoController serves optimized catalog photos
type PhotoController struct {
	photos service.PhotoServiceInterface
	log    logrus.FieldLogger
}

// NewPhotoController creates a new PhotoController
func NewPhotoController(photos service.PhotoServiceInterface, log logrus.FieldLogger) *PhotoController {
	return &PhotoController{
		photos: photos,
		log:    log.WithField("controller", "photo"),
	}
}

// GetPhoto handles GET /photos/{id}?size=thumb|medium
func (c *PhotoController) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	size := service.NormalizePhotoSize(r.URL.Query().Get("size"))

	data, err := c.photos.Thumbnail(r.Context(), id, size)
	if err != nil {
		writeError(w, c.log, "GetPhoto", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		c.log.WithError(err).Error("❌ GetPhoto: Error writing image response")
	}
}
