package service

import "errors"

var (
	// ErrLoginRequired is returned when customer login is enforced and the session has none
	ErrLoginRequired = errors.New("customer login required")
	// ErrAdminRequired is returned when an admin operation runs outside admin mode
	ErrAdminRequired = errors.New("admin mode required")
)

// CatalogUnavailableNotice is shown instead of products when the store cannot be read
const CatalogUnavailableNotice = "O catálogo está indisponível no momento. Tente novamente em instantes."
