package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"aninha-confeccoes/app/controller"
	"aninha-confeccoes/session"
)

type Controllers struct {
	Auth     *controller.AuthController
	Catalog  *controller.CatalogController
	Cart     *controller.CartController
	Checkout *controller.CheckoutController
	Admin    *controller.AdminController
	Photo    *controller.PhotoController
	Export   *controller.ExportController
	Download *controller.DownloadController
}

// Options configures the session cookie and client address resolution
type Options struct {
	SecureCookie bool
	SessionTTL   time.Duration

	// TrustProxyHeaders takes the client address from X-Forwarded-For / X-Real-IP
	TrustProxyHeaders bool
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter builds the HTTP handler of the storefront
func NewRouter(controllers *Controllers, sessions *session.Store, opts Options, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	// Ping endpoint
	r.Get("/ping", pingHandler)

	// Photos are public and carry no session state
	r.Get("/photos/{id}", controllers.Photo.GetPhoto)

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(sessions, opts.SecureCookie, opts.SessionTTL))

		// Shopper routes
		r.Route("/api", func(r chi.Router) {
			r.Post("/login", controllers.Auth.CustomerLogin)
			r.Get("/catalog", controllers.Catalog.GetCatalog)
			r.Get("/catalog/variant", controllers.Catalog.GetVariant)
			r.Get("/cart", controllers.Cart.GetCart)
			r.Post("/cart/lines", controllers.Cart.AddLine)
			r.Delete("/cart/lines/{index}", controllers.Cart.RemoveLine)
			r.Post("/checkout", controllers.Checkout.Checkout)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", controllers.Auth.AdminLogin)
			r.Post("/logout", controllers.Auth.AdminLogout)
			r.Get("/rows", controllers.Admin.ListRows)
			r.Post("/rows", controllers.Admin.InsertRow)
			r.Delete("/rows/{id}", controllers.Admin.DeleteRow)
			r.Get("/catalog/export", controllers.Export.ExportCatalog)
			r.Post("/photos/warm", controllers.Download.WarmPhotos)
		})
	})

	return r
}
