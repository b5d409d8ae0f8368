package controller

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/models"
	"aninha-confeccoes/service"
)

// CheckoutController handles HTTP requests for finalizing orders
type CheckoutController struct {
	storefront service.StorefrontServiceInterface
	log        logrus.FieldLogger
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(storefront service.StorefrontServiceInterface, log logrus.FieldLogger) *CheckoutController {
	return &CheckoutController{
		storefront: storefront,
		log:        log.WithField("controller", "checkout"),
	}
}

// Checkout handles POST /api/checkout
// Returns the order message and the click-to-chat link; nothing is stored
func (c *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if r.ContentLength != 0 && !decode(w, r, c.log, &req) {
		return
	}

	resp, err := c.storefront.Checkout(r.Context(), sess, req)
	if err != nil {
		writeError(w, c.log, "Checkout", err)
		return
	}
	respond(w, c.log, http.StatusOK, resp)
}
