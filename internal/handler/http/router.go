package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aneezakiran07/foodmaps/internal/identity"
	"github.com/Aneezakiran07/foodmaps/internal/service"
	"github.com/Aneezakiran07/foodmaps/pkg/health"
	"github.com/Aneezakiran07/foodmaps/pkg/middleware"
)

// RouterConfig carries the services and settings the router wires together.
type RouterConfig struct {
	Restaurants *service.RestaurantService
	Ratings     *service.RatingService
	Reviews     *service.ReviewService
	Suggestions *service.SuggestionService
	Posts       *service.PostService
	Media       *service.MediaService

	Identity   identity.Provider
	Health     *health.Handler
	AdminToken string

	PprofAllowedCIDRs []string

	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("foodmaps-api"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("foodmaps"))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	}

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	restaurantHandler := NewRestaurantHandler(cfg.Restaurants, logger)
	ratingHandler := NewRatingHandler(cfg.Ratings, logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, logger)
	suggestionHandler := NewSuggestionHandler(cfg.Suggestions, logger)
	postHandler := NewPostHandler(cfg.Posts, logger)
	mediaHandler := NewMediaHandler(cfg.Media, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(identity.Middleware(cfg.Identity))
		r.Use(ContentTypeJSON)

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", restaurantHandler.ListRestaurants)
			r.Get("/top-rated", restaurantHandler.TopRated)
			r.Get("/{id}", restaurantHandler.GetRestaurant)

			r.Get("/{id}/ratings", ratingHandler.GetRatings)
			r.Post("/{id}/ratings", ratingHandler.SubmitRating)

			r.Get("/{id}/reviews", reviewHandler.ListReviews)
			r.Post("/{id}/reviews", reviewHandler.UpsertReview)
			r.Put("/{id}/reviews", reviewHandler.UpdateReview)
			r.Delete("/{id}/reviews", reviewHandler.DeleteReview)
		})

		r.Get("/reviews/recent", reviewHandler.RecentReviews)

		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/", suggestionHandler.ListSuggestions)
			r.Post("/", suggestionHandler.CreateSuggestion)
			r.Get("/mine", suggestionHandler.ListMine)
			r.Put("/{id}", suggestionHandler.UpdateSuggestion)
			r.Delete("/{id}", suggestionHandler.DeleteSuggestion)
			r.Post("/{id}/reactions", suggestionHandler.ToggleReaction)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.ListPosts)
			r.Get("/counts", postHandler.PostCounts)
			r.Get("/{id}", postHandler.GetPost)
		})

		r.Route("/media", func(r chi.Router) {
			r.Post("/", mediaHandler.UploadMedia)
			r.Get("/{id}", mediaHandler.GetMedia)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminOnly(cfg.AdminToken))

			r.Post("/restaurants", restaurantHandler.CreateRestaurant)
			r.Put("/restaurants/{id}", restaurantHandler.UpdateRestaurant)
			r.Delete("/restaurants/{id}", restaurantHandler.DeactivateRestaurant)
			r.Post("/posts", postHandler.CreatePost)
			r.Put("/posts/{id}", postHandler.UpdatePost)
			r.Delete("/posts/{id}", postHandler.DeletePost)
			r.Delete("/media/{id}", mediaHandler.DeleteMedia)
		})
	})

	return r
}
