package setup

import (
	"github.com/umaimaes/AgroTrace-MS/internal/config"
	"github.com/umaimaes/AgroTrace-MS/internal/handler"
	"github.com/umaimaes/AgroTrace-MS/internal/middleware"
	"github.com/umaimaes/AgroTrace-MS/internal/notify"
	"github.com/umaimaes/AgroTrace-MS/internal/service"
	"github.com/umaimaes/AgroTrace-MS/internal/storage/pg"
	"github.com/umaimaes/AgroTrace-MS/internal/token"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	codec := token.NewCodec(cfg.JwtKey())
	revoked := token.NewRegistry()
	notifier := notify.NewFromConfig(cfg)

	auth := service.NewAuth(storage, notifier, codec, revoked, cfg.ResetCodeTTL())

	h := handler.New(auth, cfg, storage)

	return &Dependencies{
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: middleware.NewAuth(codec, revoked),
	}, nil
}
