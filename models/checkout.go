package models

// CheckoutRequest represents the request body for finalizing an order.
// Empty fields fall back to the customer identified at login.
type CheckoutRequest struct {
	CustomerName string `json:"customerName"`
	CustomerID   string `json:"customerId,omitempty"`
}

// CheckoutResponse carries the rendered order summary and the click-to-chat link
type CheckoutResponse struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}
