package store

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/auth"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/cart"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/category"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/contact"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/health"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/order"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/product"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/report"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/user"
	"github.com/magabrotheeeer/junimo-store/internal/http/middlewarectx"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Handlers набор обработчиков API.
type Handlers struct {
	Auth      *auth.Handler
	Product   *product.Handler
	Category  *category.Handler
	Cart      *cart.Handler
	Order     *order.Handler
	User      *user.Handler
	Contact   *contact.Handler
	Report    *report.Handler
	Dashboard *dashboard.Handler
	Health    *health.Handler
}

// RouterDeps зависимости маршрутизатора, не являющиеся обработчиками.
type RouterDeps struct {
	Log            *slog.Logger
	Auth           middlewarectx.Service
	Metrics        middlewarectx.Observer
	LoginLimiter   *middlewarectx.IPLimiter
	AllowedOrigins []string
	UploadsDir     string
	UploadsPrefix  string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, deps RouterDeps, h Handlers) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(deps.Metrics),
		cors.New(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
		}).Handler,
	)

	staff := middlewarectx.RequireRoles(deps.Log, models.RoleAdmin, models.RoleVendor)
	admin := middlewarectx.RequireRoles(deps.Log, models.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.With(middlewarectx.RateLimitMiddleware(deps.LoginLimiter, deps.Log)).Post("/auth/login", h.Auth.Login)
		r.Post("/auth/register", h.Auth.Register)
		r.Get("/products", h.Product.List)
		r.Get("/products/{code}", h.Product.Get)
		r.Get("/categories", h.Category.List)
		r.Get("/categories/{id}", h.Category.Get)
		r.Post("/contact", h.Contact.Submit)
		r.Get("/health", h.Health.ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Auth, deps.Log))

			r.Get("/auth/session", h.Auth.Session)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Get("/me", h.User.Me)
			r.Put("/me", h.User.UpdateMe)
			r.Get("/me/orders", h.Order.Mine)
			r.Get("/me/orders/{number}", h.Order.Get)

			r.Get("/cart", h.Cart.Get)
			r.Delete("/cart", h.Cart.Clear)
			r.Post("/cart/items", h.Cart.Add)
			r.Put("/cart/items/{code}", h.Cart.Update)
			r.Delete("/cart/items/{code}", h.Cart.Remove)
			r.Post("/cart/checkout", h.Cart.Checkout)

			r.Route("/admin", func(r chi.Router) {
				// Back-office: администратор и продавец
				r.Group(func(r chi.Router) {
					r.Use(staff)
					r.Get("/dashboard", h.Dashboard.ServeHTTP)
					r.Get("/products/critical", h.Product.Critical)
					r.Get("/products/next-code", h.Product.NextCode)
					r.Get("/orders", h.Order.List)
					r.Get("/orders/stats", h.Order.Stats)
					r.Get("/orders/{number}", h.Order.Get)
					r.Get("/reports/{kind}", h.Report.ServeHTTP)
				})

				// Только администратор
				r.Group(func(r chi.Router) {
					r.Use(admin)
					r.Post("/products", h.Product.Create)
					r.Put("/products/{code}", h.Product.Update)
					r.Delete("/products/{code}", h.Product.Delete)
					r.Post("/products/{code}/image", h.Product.UploadImage)

					r.Post("/categories", h.Category.Create)
					r.Put("/categories/{id}", h.Category.Update)
					r.Delete("/categories/{id}", h.Category.Delete)

					r.Put("/orders/{number}/status", h.Order.UpdateStatus)
					r.Delete("/orders/{number}", h.Order.Delete)

					r.Get("/users", h.User.List)
					r.Post("/users", h.User.Create)
					r.Get("/users/{run}", h.User.Get)
					r.Put("/users/{run}", h.User.Update)
					r.Delete("/users/{run}", h.User.Delete)

					r.Get("/contact", h.Contact.List)
					r.Put("/contact/{id}/status", h.Contact.UpdateStatus)
				})
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
	if deps.UploadsDir != "" {
		prefix := deps.UploadsPrefix
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(deps.UploadsDir))))
	}
}
