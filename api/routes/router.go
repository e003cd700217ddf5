package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookwormhq/bookworm-backend/api/controllers"
	"github.com/bookwormhq/bookworm-backend/api/middleware"
	"github.com/bookwormhq/bookworm-backend/internal/auth"
	"github.com/bookwormhq/bookworm-backend/internal/catalog"
	"github.com/bookwormhq/bookworm-backend/internal/orders"
	"github.com/bookwormhq/bookworm-backend/internal/reviews"
	"github.com/bookwormhq/bookworm-backend/pkg/auth/session"
	"github.com/bookwormhq/bookworm-backend/pkg/config"
	"github.com/bookwormhq/bookworm-backend/pkg/logger"
	"github.com/bookwormhq/bookworm-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	Redis          *redis.Client
	SessionManager *session.Manager
	AuthService    auth.Service
	CatalogService catalog.Service
	ReviewsService reviews.Service
	OrdersService  orders.Service
	ReadyChecks    map[string]controllers.Pinger
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	requireAuth := middleware.Auth(cfg.JWT, p.SessionManager, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, p.ReadyChecks))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
			r.With(requireAuth).Post("/logout", controllers.AuthLogout(p.AuthService, logg))
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", controllers.BooksList(p.CatalogService, logg))
			r.Get("/{bookId}", controllers.BooksGet(p.CatalogService, logg))
			r.Get("/{bookId}/reviews", controllers.ReviewsList(p.ReviewsService, logg))
			r.With(requireAuth).Post("/{bookId}/reviews", controllers.ReviewsCreate(p.ReviewsService, logg))
		})

		r.Get("/authors", controllers.AuthorsList(p.CatalogService, logg))
		r.Get("/categories", controllers.CategoriesList(p.CatalogService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.OrdersCreate(p.OrdersService, logg))
			r.Get("/", controllers.OrdersListMine(p.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrdersGet(p.OrdersService, logg))
		})

		r.With(requireAuth).Get("/users/me", controllers.UsersMe(p.AuthService, logg))
	})

	return r
}
