package controller

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/auth"
	"aninha-confeccoes/models"
	"aninha-confeccoes/service"
	"aninha-confeccoes/session"
)

// errorStatus maps a service error onto an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrLoginRequired),
		errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, auth.ErrNotConfigured):
		return http.StatusForbidden
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrWriteFailure):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrReadFailure):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and replies with its mapped status
func writeError(w http.ResponseWriter, log logrus.FieldLogger, op string, err error) {
	status := errorStatus(err)
	entry := log.WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Errorf("❌ %s failed", op)
	} else {
		entry.Warnf("⚠️  %s rejected", op)
	}
	http.Error(w, err.Error(), status)
}

// respond writes body as JSON
func respond(w http.ResponseWriter, log logrus.FieldLogger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("❌ Error encoding response")
	}
}

// decode reads a JSON request body into dst, replying 400 on failure
func decode(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.WithError(err).Warn("❌ Failed to decode request body")
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// currentSession returns the session bound by the session middleware
func currentSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "No session", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// clientKey identifies the caller for rate limiting
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
