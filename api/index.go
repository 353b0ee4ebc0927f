package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/notify"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/config"
	"github.com/wadjakorntonsri/linkbio/pkg/core/services"
	"github.com/wadjakorntonsri/linkbio/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	// On Vercel the local file is ephemeral; point DATABASE_URL at Turso
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	tokens := services.NewTokenService(cfg.Tokens)
	mux = handler.NewRouter(cfg, handler.Services{
		Auth:      services.NewAuthService(repo, tokens, notify.NewLogNotifier(cfg.FrontendURL)),
		Links:     services.NewLinkService(repo),
		Analytics: services.NewAnalyticsService(repo, repo),
		Profiles:  services.NewProfileService(repo, repo),
	})
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
