package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"aninha-confeccoes/admin"
	"aninha-confeccoes/auth"
	"aninha-confeccoes/cart"
	"aninha-confeccoes/catalog"
	"aninha-confeccoes/checkout"
	"aninha-confeccoes/identity"
	"aninha-confeccoes/models"
	"aninha-confeccoes/repository"
	"aninha-confeccoes/session"
	"aninha-confeccoes/utils"
)

// StorefrontService ties the catalog, cart, checkout and admin components to
// a session. Implements StorefrontServiceInterface
type StorefrontService struct {
	repo         repository.InventoryRepositoryInterface
	composer     *checkout.Composer
	mutator      *admin.Mutator
	verifier     auth.AdminVerifier
	reserver     cart.Reserver
	requireLogin bool
	log          logrus.FieldLogger
}

// StorefrontOptions holds the optional collaborators of a StorefrontService
type StorefrontOptions struct {
	// Reserver defaults to cart.NoopReserver
	Reserver cart.Reserver
	// RequireCustomerLogin rejects anonymous sessions on catalog, cart and checkout
	RequireCustomerLogin bool
}

// NewStorefrontService creates a new StorefrontService
func NewStorefrontService(
	repo repository.InventoryRepositoryInterface,
	composer *checkout.Composer,
	mutator *admin.Mutator,
	verifier auth.AdminVerifier,
	opts StorefrontOptions,
	log logrus.FieldLogger,
) *StorefrontService {
	reserver := opts.Reserver
	if reserver == nil {
		reserver = cart.NoopReserver{}
	}
	return &StorefrontService{
		repo:         repo,
		composer:     composer,
		mutator:      mutator,
		verifier:     verifier,
		reserver:     reserver,
		requireLogin: opts.RequireCustomerLogin,
		log:          log,
	}
}

// Ensure StorefrontService implements StorefrontServiceInterface
var _ StorefrontServiceInterface = (*StorefrontService)(nil)

// requireCustomer must be called with the session locked
func (s *StorefrontService) requireCustomer(sess *session.Session) error {
	if s.requireLogin && !sess.LoggedIn() {
		return ErrLoginRequired
	}
	return nil
}

// RequireAdmin fails with ErrAdminRequired unless the session is in admin mode
func (s *StorefrontService) RequireAdmin(sess *session.Session) error {
	sess.Lock()
	defer sess.Unlock()
	if !sess.Admin {
		return ErrAdminRequired
	}
	return nil
}

// Catalog returns the filtered product tree. An unreachable store yields an
// empty catalog with a notice rather than an error.
func (s *StorefrontService) Catalog(ctx context.Context, sess *session.Session, filter models.CatalogFilter) (*models.CatalogView, error) {
	sess.Lock()
	if err := s.requireCustomer(sess); err != nil {
		sess.Unlock()
		return nil, err
	}
	sess.Filter = filter
	sess.Unlock()

	inv, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, models.ErrReadFailure) {
			s.log.WithError(err).Warn("⚠️  Serving empty catalog")
			return &models.CatalogView{
				Products:   []models.ProductView{},
				Categories: []string{},
				Filter:     filter,
				Notice:     CatalogUnavailableNotice,
			}, nil
		}
		return nil, err
	}

	idx := catalog.NewIndex(inv.Rows)
	categories := idx.Categories()
	if categories == nil {
		categories = []string{}
	}

	view := &models.CatalogView{
		Products:   productViews(idx.Filter(filter)),
		Categories: categories,
		Filter:     filter,
	}
	return view, nil
}

func sizeView(node catalog.SizeNode) models.SizeView {
	return models.SizeView{
		RowID:       node.Row.ID,
		Size:        node.Size,
		Price:       node.Row.Price,
		PriceLabel:  utils.FormatBRL(node.Row.Price),
		InStock:     node.Row.Stock > 0,
		MaxQuantity: node.Row.Stock,
	}
}

func productViews(idx *catalog.Index) []models.ProductView {
	products := make([]models.ProductView, 0, len(idx.Products()))
	for _, node := range idx.Products() {
		product := models.ProductView{Name: node.Name, Colors: []models.ColorView{}}
		for _, c := range node.Colors {
			color := models.ColorView{Color: c.Color, Sizes: []models.SizeView{}}
			if photo := c.PhotoURL(); utils.IsAbsoluteURL(photo) {
				color.PhotoURL = photo
			}
			for _, size := range c.Sizes {
				if product.Category == "" {
					product.Category = size.Row.Category
				}
				if catalog.IsNew(size.Row) {
					product.IsNew = true
				}
				color.Sizes = append(color.Sizes, sizeView(size))
			}
			product.Colors = append(product.Colors, color)
		}
		products = append(products, product)
	}
	return products
}

// ResolveVariant returns the live availability of one variant
func (s *StorefrontService) ResolveVariant(ctx context.Context, sess *session.Session, name, color, size string) (*models.SizeView, error) {
	sess.Lock()
	err := s.requireCustomer(sess)
	sess.Unlock()
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	row, err := catalog.ResolveVariant(inv.Rows, name, color, size)
	if err != nil {
		return nil, err
	}
	view := sizeView(catalog.SizeNode{Size: row.Size, Row: row})
	return &view, nil
}

// AddToCart validates the request against a fresh load of the catalog and
// appends a snapshot line priced as displayed
func (s *StorefrontService) AddToCart(ctx context.Context, sess *session.Session, req models.AddToCartRequest) (*models.CartView, error) {
	sess.Lock()
	err := s.requireCustomer(sess)
	sess.Unlock()
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%d: %w", req.Quantity, cart.ErrInvalidQuantity)
	}

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := catalog.NewIndex(inv.Rows)
	row, err := idx.Resolve(req.Name, req.Color, req.Size)
	if err != nil {
		return nil, err
	}

	line := models.CartLine{
		Name:      row.Name,
		Color:     row.Color,
		Size:      row.Size,
		UnitPrice: row.Price,
		Quantity:  req.Quantity,
	}

	sess.Lock()
	defer sess.Unlock()

	if err := sess.Cart.Add(idx, line); err != nil {
		return nil, err
	}
	if err := s.reserver.Reserve(ctx, row, req.Quantity); err != nil {
		if _, rmErr := sess.Cart.Remove(sess.Cart.Len() - 1); rmErr != nil {
			s.log.WithError(rmErr).Error("❌ Failed to roll back cart line")
		}
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session":  sess.ID,
		"row":      row.ID,
		"quantity": req.Quantity,
	}).Info("✓ Added to cart")
	return buildCartView(sess.Cart), nil
}

// RemoveFromCart removes the line at index and releases its reservation
func (s *StorefrontService) RemoveFromCart(ctx context.Context, sess *session.Session, index int) (*models.CartView, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := s.requireCustomer(sess); err != nil {
		return nil, err
	}
	removed, err := sess.Cart.Remove(index)
	if err != nil {
		return nil, err
	}
	if err := s.reserver.Release(ctx, removed); err != nil {
		s.log.WithError(err).Warn("⚠️  Failed to release reservation")
	}
	return buildCartView(sess.Cart), nil
}

// CartView returns the session's cart with its total
func (s *StorefrontService) CartView(sess *session.Session) (*models.CartView, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := s.requireCustomer(sess); err != nil {
		return nil, err
	}
	return buildCartView(sess.Cart), nil
}

func buildCartView(c *cart.Cart) *models.CartView {
	lines := c.Lines()
	view := &models.CartView{Lines: make([]models.CartLineView, 0, len(lines))}
	for i, l := range lines {
		view.Lines = append(view.Lines, models.CartLineView{
			Index:         i,
			Name:          l.Name,
			Color:         l.Color,
			Size:          l.Size,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Subtotal:      l.Subtotal(),
			SubtotalLabel: utils.FormatBRL(l.Subtotal()),
		})
	}
	view.Total = c.Total()
	view.TotalLabel = utils.FormatBRL(view.Total)
	return view
}

// Checkout composes the order message from the cart as it is now.
// Blank request fields fall back to the logged-in customer.
func (s *StorefrontService) Checkout(ctx context.Context, sess *session.Session, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	sess.Lock()
	defer sess.Unlock()

	if err := s.requireCustomer(sess); err != nil {
		return nil, err
	}

	name, id := req.CustomerName, req.CustomerID
	if sess.Customer != nil {
		if name == "" {
			name = sess.Customer.Name
		}
		if id == "" {
			id = sess.Customer.NationalID
		}
	}

	order, err := s.composer.Compose(checkout.ComposeRequest{
		CustomerName: name,
		CustomerID:   id,
		Lines:        sess.Cart.Lines(),
		Total:        sess.Cart.Total(),
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session": sess.ID,
		"lines":   sess.Cart.Len(),
		"total":   utils.FormatAmount(sess.Cart.Total()),
	}).Info("✓ Order composed")
	return &models.CheckoutResponse{
		Message: order.Text,
		Link:    order.Link,
	}, nil
}

// Login passes the customer gate for the session
func (s *StorefrontService) Login(sess *session.Session, req models.LoginRequest) (*models.Customer, error) {
	customer, err := identity.ValidateCustomer(req.Name, req.NationalID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	sess.Customer = &customer
	sess.Unlock()

	s.log.WithField("session", sess.ID).Info("✓ Customer logged in")
	return &customer, nil
}

// AdminLogin switches the session to admin mode when the secret is accepted
func (s *StorefrontService) AdminLogin(ctx context.Context, sess *session.Session, clientKey, secret string) error {
	if err := s.verifier.Verify(ctx, clientKey, secret); err != nil {
		s.log.WithFields(logrus.Fields{
			"session": sess.ID,
			"client":  clientKey,
		}).WithError(err).Warn("⚠️  Admin login refused")
		return err
	}

	sess.Lock()
	sess.Admin = true
	sess.Unlock()

	s.log.WithField("session", sess.ID).Info("✓ Admin mode enabled")
	return nil
}

// AdminLogout leaves admin mode
func (s *StorefrontService) AdminLogout(sess *session.Session) {
	sess.Lock()
	sess.Admin = false
	sess.Unlock()
}

// AdminRows returns the raw catalog table with its version
func (s *StorefrontService) AdminRows(ctx context.Context, sess *session.Session) (*models.AdminRowsResponse, error) {
	if err := s.RequireAdmin(sess); err != nil {
		return nil, err
	}

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &models.AdminRowsResponse{
		Rows:    inv.Rows,
		Version: inv.Version,
		Count:   len(inv.Rows),
	}, nil
}

// AdminInsert appends a validated row and persists the whole table
func (s *StorefrontService) AdminInsert(ctx context.Context, sess *session.Session, req models.NewRowRequest) (*models.CatalogRow, error) {
	if err := s.RequireAdmin(sess); err != nil {
		return nil, err
	}

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	rows, row, err := s.mutator.Insert(inv.Rows, req.ToRow())
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.ReplaceAll(ctx, rows, inv.Version); err != nil {
		s.log.WithError(err).Error("❌ Failed to persist new row")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"id":   row.ID,
		"name": row.Name,
	}).Info("✓ Catalog row inserted")
	return &row, nil
}

// AdminDelete removes a row by id and persists the whole table
func (s *StorefrontService) AdminDelete(ctx context.Context, sess *session.Session, id string) error {
	if err := s.RequireAdmin(sess); err != nil {
		return err
	}

	inv, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	rows, err := s.mutator.Delete(inv.Rows, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.ReplaceAll(ctx, rows, inv.Version); err != nil {
		s.log.WithError(err).Error("❌ Failed to persist row deletion")
		return err
	}

	s.log.WithField("id", id).Info("✓ Catalog row deleted")
	return nil
}
