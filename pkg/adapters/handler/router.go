package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// Services bundles the core services the router dispatches to.
type Services struct {
	Auth      ports.AuthService
	Links     ports.LinkService
	Analytics ports.AnalyticsService
	Profiles  ports.ProfileService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services) http.Handler {
	// Initialize Handlers
	lh := NewLinkHandler(svc.Links)
	ah := NewAnalyticsHandler(svc.Analytics)
	uh := NewUserHandler(svc.Profiles, cfg.IsProduction())
	authHandler := NewAuthHandler(cfg, svc.Auth)

	// Initialize Middleware
	mw := NewMiddleware(svc.Auth)
	protect := func(fn http.HandlerFunc) http.Handler {
		return mw.AuthMiddleware(fn)
	}

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	health := func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusOK, "ok")
	}
	mux.HandleFunc("GET /healthz", health)
	mux.HandleFunc("GET /api/health", health)

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh-token", authHandler.RefreshToken)
	mux.HandleFunc("POST /api/auth/verify-email", authHandler.VerifyEmail)
	mux.HandleFunc("POST /api/auth/forgot-password", authHandler.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.ResetPassword)
	mux.HandleFunc("GET /api/auth/logout", authHandler.Logout)
	if cfg.GoogleEnabled() {
		mux.HandleFunc("GET /api/auth/google/login", authHandler.GoogleLogin)
		mux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleCallback)
	}

	mux.HandleFunc("GET /api/users/public/{username}", uh.PublicProfile)

	// Protected Routes
	mux.Handle("GET /api/links", protect(lh.List))
	mux.Handle("POST /api/links", protect(lh.Create))
	mux.Handle("PUT /api/links/reorder", protect(lh.Reorder))
	mux.Handle("PUT /api/links/{id}", protect(lh.Update))
	mux.Handle("DELETE /api/links/{id}", protect(lh.Delete))
	mux.Handle("POST /api/links/{id}/click", protect(lh.Click))

	mux.Handle("GET /api/analytics", protect(ah.Summary))
	mux.Handle("GET /api/analytics/link/{linkId}", protect(ah.Link))

	mux.Handle("GET /api/users/profile", protect(uh.GetProfile))
	mux.Handle("PUT /api/users/profile", protect(uh.UpdateProfile))
	mux.Handle("PUT /api/users/theme", protect(uh.UpdateTheme))
	mux.Handle("DELETE /api/users/account", protect(uh.DeleteAccount))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})

	return ClientIP(cfg.TrustProxy)(RequestLogger(Recoverer(mux)))
}
