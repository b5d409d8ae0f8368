package models

// Customer is the identity captured by the customer gate
type Customer struct {
	Name       string `json:"name"`
	NationalID string `json:"nationalId,omitempty"`
}

// LoginRequest represents the request body for the customer gate
type LoginRequest struct {
	Name       string `json:"name"`
	NationalID string `json:"nationalId"`
}

// AdminLoginRequest represents the request body for the admin gate
type AdminLoginRequest struct {
	Password string `json:"password"`
}
