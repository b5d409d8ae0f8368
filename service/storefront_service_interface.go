package service

import (
	"context"

	"aninha-confeccoes/models"
	"aninha-confeccoes/session"
)

// StorefrontServiceInterface defines the contract for shopper and admin operations.
// Every operation acts on the state of the given session only.
type StorefrontServiceInterface interface {
	Catalog(ctx context.Context, sess *session.Session, filter models.CatalogFilter) (*models.CatalogView, error)
	ResolveVariant(ctx context.Context, sess *session.Session, name, color, size string) (*models.SizeView, error)
	AddToCart(ctx context.Context, sess *session.Session, req models.AddToCartRequest) (*models.CartView, error)
	RemoveFromCart(ctx context.Context, sess *session.Session, index int) (*models.CartView, error)
	CartView(sess *session.Session) (*models.CartView, error)
	Checkout(ctx context.Context, sess *session.Session, req models.CheckoutRequest) (*models.CheckoutResponse, error)
	Login(sess *session.Session, req models.LoginRequest) (*models.Customer, error)
	AdminLogin(ctx context.Context, sess *session.Session, clientKey, secret string) error
	AdminLogout(sess *session.Session)
	RequireAdmin(sess *session.Session) error
	AdminRows(ctx context.Context, sess *session.Session) (*models.AdminRowsResponse, error)
	AdminInsert(ctx context.Context, sess *session.Session, req models.NewRowRequest) (*models.CatalogRow, error)
	AdminDelete(ctx context.Context, sess *session.Session, id string) error
}
