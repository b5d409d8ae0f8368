package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/service"
)

// ExportController handles printable catalog generation
type ExportController struct {
	storefront service.StorefrontServiceInterface
	export     service.CatalogExportServiceInterface
	log        logrus.FieldLogger
}

// NewExportController creates a new ExportController
func NewExportController(storefront service.StorefrontServiceInterface, export service.CatalogExportServiceInterface, log logrus.FieldLogger) *ExportController {
	return &ExportController{
		storefront: storefront,
		export:     export,
		log:        log.WithField("controller", "export"),
	}
}

// ExportCatalog handles GET /admin/catalog/export?format=html|pdf
func (c *ExportController) ExportCatalog(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	if err := c.storefront.RequireAdmin(sess); err != nil {
		writeError(w, c.log, "ExportCatalog", err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "html"
	}
	c.log.Infof("📥 ExportCatalog: format=%s", format)

	switch format {
	case "html":
		html, err := c.export.RenderHTML(r.Context())
		if err != nil {
			writeError(w, c.log, "ExportCatalog", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(html)); err != nil {
			c.log.WithError(err).Error("❌ ExportCatalog: Error writing HTML response")
		}

	case "pdf":
		pdfData, err := c.export.GeneratePDF(r.Context())
		if err != nil {
			writeError(w, c.log, "ExportCatalog", err)
			return
		}
		filename := fmt.Sprintf("catalogo_%s.pdf", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(pdfData); err != nil {
			c.log.WithError(err).Error("❌ ExportCatalog: Error writing PDF response")
		}

	default:
		http.Error(w, "format must be html or pdf", http.StatusBadRequest)
	}
}
