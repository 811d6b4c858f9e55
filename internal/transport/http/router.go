package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/authz"
	"storefront/internal/domain"
	"storefront/internal/httpx"
	obsmw "storefront/internal/observability/middleware"
	"storefront/internal/service"
	"storefront/internal/storage"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Auth     service.AuthService
	Users    service.UserService
	Products service.ProductService
	Reviews  service.ReviewService
	Tokens   authz.Verifier
	Uploads  storage.ImageStore

	RateLimitPerMinute int
	CORSOrigins        []string
	// Metrics defaults to the prometheus default gatherer.
	Metrics http.Handler
	// Ready backs /readyz; nil reports ready.
	Ready func(ctx context.Context) error
}

type handler struct {
	auth     service.AuthService
	users    service.UserService
	products service.ProductService
	reviews  service.ReviewService
	uploads  storage.ImageStore
}

func NewRouter(d Deps) http.Handler {
	h := &handler{
		auth:     d.Auth,
		users:    d.Users,
		products: d.Products,
		reviews:  d.Reviews,
		uploads:  d.Uploads,
	}
	metricsHandler := d.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(obsmw.WithRequestAndTrace)
	r.Use(httpx.LogRequests)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if d.RateLimitPerMinute > 0 {
		r.Use(httprate.LimitByIP(d.RateLimitPerMinute, time.Minute))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id", "X-Trace-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(obsmw.WithMetrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				slog.Warn("readiness check failed", "error", err)
				httpx.WriteStatus(w, http.StatusServiceUnavailable, "not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	authn := authz.Authenticate(d.Tokens)
	anyRole := authz.RequireRoles(domain.RoleAdmin, domain.RoleNormalUser)
	adminOnly := authz.RequireRoles(domain.RoleAdmin)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
		r.Get("/profile/{image}", h.profileImage)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Post("/upload-profile", h.uploadProfileImage)
			r.With(anyRole).Put("/update", h.updateUser)
			r.With(anyRole).Delete("/{id}", h.deleteUser)
		})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/verify-email/{id}/{verificationToken}", h.verifyEmail)
		r.Post("/forgot-password", h.forgotPassword)
		r.Get("/reset-password/{id}/{resetPasswordToken}", h.validateResetLink)
		r.Post("/reset-password", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/current-user", h.currentUser)
			r.Delete("/remove-profile", h.removeProfileImage)
			r.With(adminOnly).Get("/", h.listUsers)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})
	})

	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(authn, anyRole)
		r.Get("/", h.listReviews)
		// {id} is the product id on POST and the review id elsewhere; chi
		// requires one param name per position.
		r.Post("/{id}", h.createReview)
		r.Get("/{id}", h.getReview)
		r.Put("/{id}", h.updateReview)
		r.Delete("/{id}", h.deleteReview)
	})

	r.Route("/api/uploads", func(r chi.Router) {
		r.Post("/", h.uploadFile)
		r.Post("/multiple-files", h.uploadFiles)
		r.Get("/{image}", h.serveUpload)
	})

	return r
}
