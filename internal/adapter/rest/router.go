package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Services bundles what the HTTP API is served from.
type Services struct {
	Accounts      AccountService
	OTP           OTPService
	Products      ProductService
	Likes         LikeService
	Follows       FollowService
	Users         UserService
	Notifications NotificationService
	Wallets       WalletService
}

// HealthCheck reports whether the service can reach its store.
type HealthCheck func(ctx context.Context) error

// RateLimit caps requests per client IP over a sliding window.
// A zero Requests disables it.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Options carries the router's infrastructure hooks.
type Options struct {
	Health    HealthCheck
	Metrics   RequestObserver
	RateLimit RateLimit
}

type Handler struct {
	Services
	logger *logger.Logger
}

// NewRouter builds the chi router exposing the marketplace API.
func NewRouter(svc Services, opts Options, log *logger.Logger) *chi.Mux {
	log = log.Named("HTTP")
	h := &Handler{Services: svc, logger: log}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(Tracing)
	r.Use(Observe(log, opts.Metrics))
	r.Use(recoverer(log))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	r.Get("/healthz", healthz(opts.Health, log))

	auth := JWTAuth(svc.Accounts, log)

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimit.Requests > 0 {
			r.Use(rateLimiter(opts.RateLimit))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/social/register", h.RegisterBySocialMedia)
			r.Post("/social/login", h.LoginBySocialMedia)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/reset-password", h.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/change-password", h.ChangePassword)
				r.Get("/username-availability", h.CheckUsername)
			})
		})

		r.Post("/otp", h.GenerateOtp)
		r.Post("/otp/verify", h.VerifyOtp)

		r.Route("/products", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(OptionalAuth(svc.Accounts))
				r.Get("/", h.GetProducts)
				r.Get("/{idOrCode}", h.GetProduct)
			})
			r.Get("/{id}/likes", h.GetLikes)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", h.CreateProduct)
				r.Patch("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
				r.Post("/{id}/like", h.LikeOrUnlikeProduct)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth)
			r.With(RequireRoles(domain.AccountTypeAdmin, domain.AccountTypeSuperAdmin)).Get("/", h.GetUsers)
			r.Get("/me", h.GetMe)
			r.Patch("/me", h.UpdateUser)
			r.Delete("/me", h.DeleteUser)
			r.Get("/{username}", h.GetUser)
			r.Post("/{id}/follow", h.FollowOrUnfollowUser)
			r.Get("/{id}/followers", h.GetFollowers)
			r.Get("/{id}/following", h.GetFollowing)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", h.GetUserNotifications)
			r.Post("/read-all", h.MarkAllAsRead)
			r.Post("/{id}/read", h.MarkNotificationAsRead)
		})

		r.Route("/wallet", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", h.GetWallet)
			r.Put("/bank-information", h.AddBankInformation)
		})
	})

	return r
}

func healthz(check HealthCheck, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
