// Package main Junimo Store API
//
// @title           Junimo Store API
// @version         1.0
// @description     API тематического магазина Junimo: каталог, корзина, заказы и back-office.
// @termsOfService  http://swagger.io/terms/

// @contact.name   Junimo Store
// @contact.email  tienda@junimo.cl

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8094
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/junimo-store/docs"
	"github.com/magabrotheeeer/junimo-store/internal/app/store"
	"github.com/magabrotheeeer/junimo-store/internal/config"
	"github.com/magabrotheeeer/junimo-store/internal/lib/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting junimo-store", slog.String("env", cfg.Env))
	log.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := store.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("junimo-store stopped gracefully")
}
