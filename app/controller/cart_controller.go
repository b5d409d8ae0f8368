package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"aninha-confeccoes/models"
	"aninha-confeccoes/service"
)

// CartController handles HTTP requests for the session cart
type CartController struct {
	storefront service.StorefrontServiceInterface
	log        logrus.FieldLogger
}

// NewCartController creates a new CartController
func NewCartController(storefront service.StorefrontServiceInterface, log logrus.FieldLogger) *CartController {
	return &CartController{
		storefront: storefront,
		log:        log.WithField("controller", "cart"),
	}
}

// GetCart handles GET /api/cart
func (c *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	view, err := c.storefront.CartView(sess)
	if err != nil {
		writeError(w, c.log, "GetCart", err)
		return
	}
	respond(w, c.log, http.StatusOK, view)
}

// AddLine handles POST /api/cart/lines
func (c *CartController) AddLine(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.AddToCartRequest
	if !decode(w, r, c.log, &req) {
		return
	}
	c.log.Debugf("📋 AddLine: name=%s, color=%s, size=%s, quantity=%d", req.Name, req.Color, req.Size, req.Quantity)

	view, err := c.storefront.AddToCart(r.Context(), sess, req)
	if err != nil {
		writeError(w, c.log, "AddLine", err)
		return
	}
	respond(w, c.log, http.StatusCreated, view)
}

// RemoveLine handles DELETE /api/cart/lines/{index}
func (c *CartController) RemoveLine(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return
	}

	view, err := c.storefront.RemoveFromCart(r.Context(), sess, index)
	if err != nil {
		writeError(w, c.log, "RemoveLine", err)
		return
	}
	respond(w, c.log, http.StatusOK, view)
}
