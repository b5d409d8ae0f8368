package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/models"
	"aninha-confeccoes/service"
)

// CatalogController handles HTTP requests for browsing the catalog
type CatalogController struct {
	storefront service.StorefrontServiceInterface
	log        logrus.FieldLogger
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(storefront service.StorefrontServiceInterface, log logrus.FieldLogger) *CatalogController {
	return &CatalogController{
		storefront: storefront,
		log:        log.WithField("controller", "catalog"),
	}
}

// filterFromQuery reads ?category=&onlyNew=&q=
func filterFromQuery(r *http.Request) models.CatalogFilter {
	q := r.URL.Query()
	onlyNew, _ := strconv.ParseBool(q.Get("onlyNew"))
	return models.CatalogFilter{
		Category:   strings.TrimSpace(q.Get("category")),
		OnlyNew:    onlyNew,
		SearchText: strings.TrimSpace(q.Get("q")),
	}
}

// GetCatalog handles GET /api/catalog
func (c *CatalogController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	filter := filterFromQuery(r)
	view, err := c.storefront.Catalog(r.Context(), sess, filter)
	if err != nil {
		writeError(w, c.log, "GetCatalog", err)
		return
	}

	c.log.WithFields(logrus.Fields{
		"products": len(view.Products),
		"category": filter.Category,
	}).Debug("✅ GetCatalog: catalog served")
	respond(w, c.log, http.StatusOK, view)
}

// GetVariant handles GET /api/catalog/variant?name=&color=&size=
func (c *CatalogController) GetVariant(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	name := strings.TrimSpace(q.Get("name"))
	if name == "" {
		http.Error(w, "name query parameter is required", http.StatusBadRequest)
		return
	}

	view, err := c.storefront.ResolveVariant(r.Context(), sess, name, q.Get("color"), q.Get("size"))
	if err != nil {
		writeError(w, c.log, "GetVariant", err)
		return
	}
	respond(w, c.log, http.StatusOK, view)
}
