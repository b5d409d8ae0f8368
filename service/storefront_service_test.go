package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aninha-confeccoes/admin"
	"aninha-confeccoes/auth"
	"aninha-confeccoes/cart"
	"aninha-confeccoes/catalog"
	"aninha-confeccoes/checkout"
	"aninha-confeccoes/identity"
	"aninha-confeccoes/logger"
	"aninha-confeccoes/models"
	"aninha-confeccoes/repository"
	"aninha-confeccoes/session"
)

const adminSecret = "s3cret-admin"

func seedRows() []models.CatalogRow {
	return []models.CatalogRow{
		{ID: "101", Name: "VESTIDO FLORAL", Color: "AZUL", Size: "P", Category: "VESTIDOS", IsNew: "SIM",
			Price: decimal.NewFromInt(120), Stock: 2, PhotoURL: "https://example.com/floral.jpg"},
		{ID: "102", Name: "VESTIDO FLORAL", Color: "AZUL", Size: "M", Category: "VESTIDOS",
			Price: decimal.NewFromInt(120), Stock: 0},
		{ID: "103", Name: "SAIA MIDI", Color: "PRETO", Size: "G", Category: "SAIAS",
			Price: decimal.RequireFromString("79.90"), Stock: 4, PhotoURL: "foto.jpg"},
	}
}

func newFixture(t *testing.T, opts StorefrontOptions) (*StorefrontService, *repository.MemoryRepository, *session.Store) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminSecret), bcrypt.MinCost)
	require.NoError(t, err)

	store := repository.NewMemoryRepository(seedRows()...)
	repo := repository.NewCachedRepository(store, time.Second, time.Minute, logger.Discard())
	svc := NewStorefrontService(
		repo,
		checkout.NewComposer("", "wa.me", "5581986707825"),
		admin.NewMutator(true, admin.CountIDs),
		auth.NewBcryptVerifier(string(hash), 5),
		opts,
		logger.Discard(),
	)
	return svc, store, session.NewStore(time.Hour)
}

func TestShopperScenario(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	view, err := svc.Catalog(ctx, sess, models.CatalogFilter{})
	require.NoError(t, err)
	require.Len(t, view.Products, 2)
	assert.Equal(t, []string{"VESTIDOS", "SAIAS"}, view.Categories)

	floral := view.Products[0]
	assert.Equal(t, "VESTIDO FLORAL", floral.Name)
	assert.True(t, floral.IsNew)
	require.Len(t, floral.Colors, 1)
	assert.Equal(t, "https://example.com/floral.jpg", floral.Colors[0].PhotoURL)
	require.Len(t, floral.Colors[0].Sizes, 2)
	assert.Equal(t, 2, floral.Colors[0].Sizes[0].MaxQuantity)
	assert.True(t, floral.Colors[0].Sizes[0].InStock)
	assert.False(t, floral.Colors[0].Sizes[1].InStock)
	assert.Equal(t, "R$ 120.00", floral.Colors[0].Sizes[0].PriceLabel)

	// Relative photo paths are not exposed
	assert.Empty(t, view.Products[1].Colors[0].PhotoURL)

	cartView, err := svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "VESTIDO FLORAL", Color: "AZUL", Size: "P", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, cartView.Lines, 1)
	assert.Equal(t, "R$ 240.00", cartView.TotalLabel)

	resp, err := svc.Checkout(ctx, sess, models.CheckoutRequest{CustomerName: "Maria Silva"})
	require.NoError(t, err)
	assert.Equal(t, "*NOVO PEDIDO - ANINHA CONFECÇÕES*\nCustomer: Maria Silva\n\n- 2x VESTIDO FLORAL (AZUL-P) | R$ 240.00\n*Total: R$ 240.00*", resp.Message)

	u, err := url.Parse(resp.Link)
	require.NoError(t, err)
	assert.Equal(t, resp.Message, u.Query().Get("text"))

	// Checkout is idempotent for an unchanged cart
	again, err := svc.Checkout(ctx, sess, models.CheckoutRequest{CustomerName: "Maria Silva"})
	require.NoError(t, err)
	assert.Equal(t, resp, again)
}

func TestCatalogFilterIsRemembered(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")

	filter := models.CatalogFilter{Category: "SAIAS"}
	view, err := svc.Catalog(context.Background(), sess, filter)
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "SAIA MIDI", view.Products[0].Name)
	// Categories always list the whole catalog
	assert.Len(t, view.Categories, 2)
	assert.Equal(t, filter, sess.Filter)
}

func TestAddToCartFailures(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "VESTIDO FLORAL", Color: "AZUL", Size: "P", Quantity: 3})
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)

	_, err = svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "VESTIDO FLORAL", Color: "AZUL", Size: "M", Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrInsufficientStock)

	_, err = svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "VESTIDO FLORAL", Color: "ROSA", Size: "P", Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrVariantNotFound)

	_, err = svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "VESTIDO FLORAL", Color: "AZUL", Size: "P", Quantity: 0})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	assert.Equal(t, 0, sess.Cart.Len())
}

func TestRemoveFromCart(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "VESTIDO FLORAL", Color: "AZUL", Size: "P", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "SAIA MIDI", Color: "PRETO", Size: "G", Quantity: 2})
	require.NoError(t, err)

	view, err := svc.RemoveFromCart(ctx, sess, 0)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "SAIA MIDI", view.Lines[0].Name)
	assert.Equal(t, 0, view.Lines[0].Index)
	assert.Equal(t, "R$ 159.80", view.TotalLabel)

	_, err = svc.RemoveFromCart(ctx, sess, 5)
	assert.ErrorIs(t, err, cart.ErrIndexOutOfRange)
}

func TestCheckoutFailures(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	_, err := svc.Checkout(ctx, sess, models.CheckoutRequest{CustomerName: "Maria Silva"})
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)

	_, err = svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "SAIA MIDI", Color: "PRETO", Size: "G", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.Checkout(ctx, sess, models.CheckoutRequest{})
	assert.ErrorIs(t, err, checkout.ErrEmptyName)
}

func TestCartLinesAreSnapshots(t *testing.T) {
	svc, store, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "SAIA MIDI", Color: "PRETO", Size: "G", Quantity: 1})
	require.NoError(t, err)

	// The shop reprices the row behind the cart's back
	rows := seedRows()
	rows[2].Price = decimal.NewFromInt(99)
	_, err = store.ReplaceAll(ctx, rows, "")
	require.NoError(t, err)

	view, err := svc.CartView(sess)
	require.NoError(t, err)
	assert.Equal(t, "R$ 79.90", view.TotalLabel)
}

func TestSessionsDoNotShareCarts(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	a, _ := sessions.Get("")
	b, _ := sessions.Get("")

	_, err := svc.AddToCart(context.Background(), a, models.AddToCartRequest{Name: "SAIA MIDI", Color: "PRETO", Size: "G", Quantity: 1})
	require.NoError(t, err)

	view, err := svc.CartView(b)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

type failingStore struct{}

func (failingStore) Load(context.Context) (*models.Inventory, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) ReplaceAll(context.Context, []models.CatalogRow, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestCatalogReadFailureServesEmptyCatalog(t *testing.T) {
	repo := repository.NewCachedRepository(failingStore{}, time.Second, 0, logger.Discard())
	svc := NewStorefrontService(repo, checkout.NewComposer("", "", "1"), admin.NewMutator(true, nil),
		auth.NewBcryptVerifier("", 5), StorefrontOptions{}, logger.Discard())
	sess, _ := session.NewStore(time.Hour).Get("")

	view, err := svc.Catalog(context.Background(), sess, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Empty(t, view.Products)
	assert.NotNil(t, view.Products)
	assert.Equal(t, CatalogUnavailableNotice, view.Notice)

	// Admins see the failure
	sess.Admin = true
	_, err = svc.AdminRows(context.Background(), sess)
	assert.ErrorIs(t, err, models.ErrReadFailure)
}

func TestRequireCustomerLogin(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{RequireCustomerLogin: true})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	_, err := svc.Catalog(ctx, sess, models.CatalogFilter{})
	assert.ErrorIs(t, err, ErrLoginRequired)
	_, err = svc.CartView(sess)
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = svc.Login(sess, models.LoginRequest{Name: "Ana", NationalID: "529.982.247-25"})
	assert.ErrorIs(t, err, identity.ErrNameTooShort)

	customer, err := svc.Login(sess, models.LoginRequest{Name: "Maria Silva", NationalID: "529.982.247-25"})
	require.NoError(t, err)
	assert.Equal(t, "MARIA SILVA", customer.Name)

	_, err = svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "SAIA MIDI", Color: "PRETO", Size: "G", Quantity: 1})
	require.NoError(t, err)

	// Checkout falls back to the logged-in identity
	resp, err := svc.Checkout(ctx, sess, models.CheckoutRequest{})
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "Customer: MARIA SILVA\nID: 52998224725\n")
}

type recordingReserver struct {
	fail     bool
	reserved int
	released int
}

func (r *recordingReserver) Reserve(_ context.Context, _ models.CatalogRow, qty int) error {
	if r.fail {
		return errors.New("no hold available")
	}
	r.reserved += qty
	return nil
}

func (r *recordingReserver) Release(_ context.Context, line models.CartLine) error {
	r.released += line.Quantity
	return nil
}

func TestReserverHooks(t *testing.T) {
	reserver := &recordingReserver{}
	svc, _, sessions := newFixture(t, StorefrontOptions{Reserver: reserver})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "SAIA MIDI", Color: "PRETO", Size: "G", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.RemoveFromCart(ctx, sess, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, reserver.reserved)
	assert.Equal(t, 2, reserver.released)

	reserver.fail = true
	_, err = svc.AddToCart(ctx, sess, models.AddToCartRequest{Name: "SAIA MIDI", Color: "PRETO", Size: "G", Quantity: 1})
	assert.Error(t, err)
	assert.Equal(t, 0, sess.Cart.Len())
}

func TestAdminScenario(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")
	ctx := context.Background()

	_, err := svc.AdminRows(ctx, sess)
	assert.ErrorIs(t, err, ErrAdminRequired)

	assert.ErrorIs(t, svc.AdminLogin(ctx, sess, "10.0.0.1", "1234"), auth.ErrInvalidCredentials)
	assert.False(t, sess.Admin)
	require.NoError(t, svc.AdminLogin(ctx, sess, "10.0.0.1", adminSecret))

	// Warm the cache so the insert has to invalidate it
	before, err := svc.Catalog(ctx, sess, models.CatalogFilter{})
	require.NoError(t, err)
	require.Len(t, before.Products, 2)

	row, err := svc.AdminInsert(ctx, sess, models.NewRowRequest{
		Name: "Blusa Renda", Color: "Branco", Size: "M",
		Price: decimal.RequireFromString("59.9"), Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "104", row.ID)
	assert.Equal(t, "BLUSA RENDA", row.Name)

	after, err := svc.Catalog(ctx, sess, models.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, after.Products, 3)

	_, err = svc.AdminInsert(ctx, sess, models.NewRowRequest{Name: "Sem Cor"})
	assert.ErrorIs(t, err, admin.ErrMissingRequiredField)

	require.NoError(t, svc.AdminDelete(ctx, sess, "103"))
	assert.ErrorIs(t, svc.AdminDelete(ctx, sess, "103"), admin.ErrNotFound)

	rows, err := svc.AdminRows(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 3, rows.Count)
	assert.NotEmpty(t, rows.Version)

	svc.AdminLogout(sess)
	assert.ErrorIs(t, svc.AdminDelete(ctx, sess, "101"), ErrAdminRequired)
}

// staleStore hands out one outdated snapshot, as if another admin wrote in between
type staleStore struct {
	*repository.MemoryRepository
	stale *models.Inventory
}

func (s *staleStore) Load(ctx context.Context) (*models.Inventory, error) {
	if s.stale != nil {
		inv := s.stale
		s.stale = nil
		return inv, nil
	}
	return s.MemoryRepository.Load(ctx)
}

func TestAdminConcurrentEditConflicts(t *testing.T) {
	ctx := context.Background()
	mem := repository.NewMemoryRepository(seedRows()...)
	stale, err := mem.Load(ctx)
	require.NoError(t, err)
	_, err = mem.ReplaceAll(ctx, stale.Rows[:2], stale.Version)
	require.NoError(t, err)

	store := &staleStore{MemoryRepository: mem, stale: stale}
	svc := NewStorefrontService(store, checkout.NewComposer("", "", "1"), admin.NewMutator(true, nil),
		auth.NewBcryptVerifier("", 5), StorefrontOptions{}, logger.Discard())
	sess, _ := session.NewStore(time.Hour).Get("")
	sess.Admin = true

	_, err = svc.AdminInsert(ctx, sess, models.NewRowRequest{Name: "BLUSA", Color: "BRANCO"})
	assert.ErrorIs(t, err, models.ErrConflict)

	inv, err := mem.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, inv.Rows, 2)
}

func TestResolveVariant(t *testing.T) {
	svc, _, sessions := newFixture(t, StorefrontOptions{})
	sess, _ := sessions.Get("")

	view, err := svc.ResolveVariant(context.Background(), sess, "vestido floral", "azul", "m")
	require.NoError(t, err)
	assert.Equal(t, "102", view.RowID)
	assert.False(t, view.InStock)

	_, err = svc.ResolveVariant(context.Background(), sess, "vestido floral", "azul", "gg")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
