package controller

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/service"
)

// DownloadController handles HTTP requests for photo cache warm-up
type DownloadController struct {
	storefront      service.StorefrontServiceInterface
	downloadService service.DownloadServiceInterface
	log             logrus.FieldLogger
}

// NewDownloadController creates a new DownloadController
func NewDownloadController(storefront service.StorefrontServiceInterface, downloadService service.DownloadServiceInterface, log logrus.FieldLogger) *DownloadController {
	return &DownloadController{
		storefront:      storefront,
		downloadService: downloadService,
		log:             log.WithField("controller", "download"),
	}
}

// WarmPhotos handles POST /admin/photos/warm?sizes=thumb,medium
// Downloads every catalog photo, optimizes it and stores it in the photo cache
func (c *DownloadController) WarmPhotos(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	if err := c.storefront.RequireAdmin(sess); err != nil {
		writeError(w, c.log, "WarmPhotos", err)
		return
	}

	var sizes []string
	if raw := r.URL.Query().Get("sizes"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				sizes = append(sizes, s)
			}
		}
	}
	c.log.Infof("📥 WarmPhotos: sizes=%v", sizes)

	stats, err := c.downloadService.WarmPhotoCache(r.Context(), sizes...)
	if err != nil {
		writeError(w, c.log, "WarmPhotos", err)
		return
	}

	c.log.Infof("✓ WarmPhotos: %d/%d photos downloaded, %d skipped", stats.Downloaded, stats.Total, stats.Skipped)
	respond(w, c.log, http.StatusOK, stats)
}
