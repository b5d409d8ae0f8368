package controller

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/models"
	"aninha-confeccoes/service"
)

// AuthController handles the customer and admin gates
type AuthController struct {
	storefront service.StorefrontServiceInterface
	log        logrus.FieldLogger
}

// NewAuthController creates a new AuthController
func NewAuthController(storefront service.StorefrontServiceInterface, log logrus.FieldLogger) *AuthController {
	return &AuthController{
		storefront: storefront,
		log:        log.WithField("controller", "auth"),
	}
}

// CustomerLogin handles POST /api/login
func (c *AuthController) CustomerLogin(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.LoginRequest
	if !decode(w, r, c.log, &req) {
		return
	}

	customer, err := c.storefront.Login(sess, req)
	if err != nil {
		writeError(w, c.log, "CustomerLogin", err)
		return
	}
	respond(w, c.log, http.StatusOK, customer)
}

// AdminLogin handles POST /admin/login
func (c *AuthController) AdminLogin(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	var req models.AdminLoginRequest
	if !decode(w, r, c.log, &req) {
		return
	}

	if err := c.storefront.AdminLogin(r.Context(), sess, clientKey(r), req.Password); err != nil {
		writeError(w, c.log, "AdminLogin", err)
		return
	}
	respond(w, c.log, http.StatusOK, map[string]bool{"admin": true})
}

// AdminLogout handles POST /admin/logout
func (c *AuthController) AdminLogout(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}

	c.storefront.AdminLogout(sess)
	respond(w, c.log, http.StatusOK, map[string]bool{"admin": false})
}
