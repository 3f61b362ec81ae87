package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"menu-signage/app/controller"
	appmw "menu-signage/app/middleware"
)

// Controllers groups every controller the router mounts. Category and
// Product are nil when no database is configured; their routes are left out.
type Controllers struct {
	Catalog  *controller.CatalogController
	Category *controller.CategoryController
	Product  *controller.ProductController
	Settings *controller.SettingsController
	Display  *controller.DisplayController
	Auth     *controller.AuthController
	Asset    *controller.AssetController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// New builds the HTTP handler
func New(c *Controllers, auth *appmw.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appmw.CORS)

	r.Get("/ping", pingHandler)

	// Kiosk
	r.Get("/", c.Display.Page)
	r.Get("/menu/print", c.Display.PrintMenu)
	r.Get("/logo", c.Asset.Logo)
	r.Route("/display", func(r chi.Router) {
		r.Get("/frame", c.Display.Frame)
		r.Get("/stream", c.Display.Stream)
		r.Post("/viewport", c.Display.Viewport)
		r.Post("/events", c.Display.Event)
	})

	// Public API
	r.Get("/api/products", c.Catalog.GetProducts)
	r.Get("/api/settings", c.Settings.Get)
	r.Get("/api/auth-config", c.Auth.Config)
	r.Post("/api/verify-api-key", c.Auth.VerifyAPIKey)

	// Admin API
	r.Group(func(r chi.Router) {
		r.Use(auth.Require)

		r.Put("/api/settings", c.Settings.Update)

		r.Route("/api/admin", func(r chi.Router) {
			if c.Category != nil {
				r.Get("/categories", c.Category.List)
				r.Post("/categories", c.Category.Create)
				r.Put("/categories", c.Category.Update)
				r.Delete("/categories", c.Category.Delete)
			}
			if c.Product != nil {
				r.Get("/products", c.Product.List)
				r.Post("/products", c.Product.Create)
				r.Put("/products", c.Product.Update)
				r.Delete("/products", c.Product.Delete)
			}
			r.Post("/migrate", c.Asset.Migrate)
			r.Get("/display/snapshot", c.Asset.Snapshot)
			r.Get("/menu.pdf", c.Asset.MenuPDF)
			r.Post("/assets/sync", c.Asset.SyncAssets)
		})
	})

	return r
}
