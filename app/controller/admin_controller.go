package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"aninha-confeccoes/models"
	"aninha-confeccoes/service"
)

// AdminController handles HTTP requests for catalog maintenance
type AdminController struct {
	storefront service.StorefrontServiceInterface
	log        logrus.FieldLogger
}

// NewAdminController creates a new AdminController
func NewAdminController(storefront service.StorefrontServiceInterface, log logrus.FieldLogger) *AdminController {
	return &AdminController{
		storefront: storefront,
		log:        log.WithField("controller", "admin"),
	}
}

// ListRows handles GET /admin/rows
func (c *AdminController) ListRows(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	rows, err := c.storefront.AdminRows(r.Context(), sess)
	if err != nil {
		writeError(w, c.log, "ListRows", err)
		return
	}
	respond(w, c.log, http.StatusOK, rows)
}

// InsertRow handles POST /admin/rows
func (c *AdminController) InsertRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.NewRowRequest
	if !decode(w, r, c.log, &req) {
		return
	}

	row, err := c.storefront.AdminInsert(r.Context(), sess, req)
	if err != nil {
		writeError(w, c.log, "InsertRow", err)
		return
	}

	c.log.Infof("✅ InsertRow: row %s created", row.ID)
	respond(w, c.log, http.StatusCreated, row)
}

// DeleteRow handles DELETE /admin/rows/{id}
func (c *AdminController) DeleteRow(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := c.storefront.AdminDelete(r.Context(), sess, id); err != nil {
		writeError(w, c.log, "DeleteRow", err)
		return
	}

	c.log.Infof("✅ DeleteRow: row %s deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
