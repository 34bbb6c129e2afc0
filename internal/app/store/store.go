// Package store собирает HTTP API магазина: хранилище, кеш, брокер, сервисы и маршруты.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/junimo-store/internal/cache"
	"github.com/magabrotheeeer/junimo-store/internal/config"
	authhandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/auth"
	carthandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/cart"
	categoryhandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/category"
	contacthandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/contact"
	dashboardhandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/junimo-store/internal/http/handlers/health"
	orderhandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/order"
	producthandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/product"
	reporthandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/report"
	userhandler "github.com/magabrotheeeer/junimo-store/internal/http/handlers/user"
	"github.com/magabrotheeeer/junimo-store/internal/http/middlewarectx"
	"github.com/magabrotheeeer/junimo-store/internal/lib/imagefile"
	"github.com/magabrotheeeer/junimo-store/internal/lib/jwt"
	"github.com/magabrotheeeer/junimo-store/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/junimo-store/internal/metrics"
	"github.com/magabrotheeeer/junimo-store/internal/migrations"
	"github.com/magabrotheeeer/junimo-store/internal/services/auth"
	"github.com/magabrotheeeer/junimo-store/internal/services/cart"
	"github.com/magabrotheeeer/junimo-store/internal/services/catalog"
	"github.com/magabrotheeeer/junimo-store/internal/services/contact"
	"github.com/magabrotheeeer/junimo-store/internal/services/dashboard"
	"github.com/magabrotheeeer/junimo-store/internal/services/order"
	"github.com/magabrotheeeer/junimo-store/internal/services/report"
	"github.com/magabrotheeeer/junimo-store/internal/services/user"
	"github.com/magabrotheeeer/junimo-store/internal/storage/repository"
)

// App HTTP-приложение магазина.
type App struct {
	server      *http.Server
	limiter     *middlewarectx.IPLimiter
	limiterIdle time.Duration
	logger      *slog.Logger
	db          *repository.Storage
	cache       *cache.Cache
	conn        *amqp.Connection
	ch          *amqp.Channel
}

// New подключается к зависимостям, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loginLimiter := middlewarectx.NewIPLimiter(cfg.LoginRPS, cfg.LoginBurst)
	if err := loginLimiter.TrustProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}
	publisher := rabbitmq.NewPublisher(ch)

	m := metrics.New(prometheus.DefaultRegisterer)
	images := imagefile.NewStore(cfg.UploadsDir, cfg.PublicPrefix, cfg.ThumbnailWidth, cfg.ThumbnailHeight)
	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.ClientTTL, cfg.VendorTTL, cfg.AdminTTL)

	catalogService := catalog.New(db, db, cacheRedis, images, logger)
	cartService := cart.New(cacheRedis, catalogService, m, cfg.CartTTL, logger)
	orderService := order.New(db, db, cartService, catalogService, publisher, m, logger)
	userService := user.New(db, logger)
	authService := auth.New(db, jwtMaker, cacheRedis, logger)
	contactService := contact.New(db, publisher, logger)
	reportService := report.New(catalogService, catalogService, orderService, userService, m, logger)
	dashboardService := dashboard.New(catalogService, catalogService, orderService, userService, contactService)

	handlers := Handlers{
		Auth:      authhandler.New(logger, authService, userService),
		Product:   producthandler.New(logger, catalogService, cfg.MaxUploadBytes),
		Category:  categoryhandler.New(logger, catalogService),
		Cart:      carthandler.New(logger, cartService, orderService),
		Order:     orderhandler.New(logger, orderService),
		User:      userhandler.New(logger, userService),
		Contact:   contacthandler.New(logger, contactService),
		Report:    reporthandler.New(logger, reportService),
		Dashboard: dashboardhandler.New(logger, dashboardService),
		Health: health.New(logger, map[string]health.Checker{
			"postgres": db.CheckDatabaseReady,
			"redis":    cacheRedis.Ping,
		}),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, RouterDeps{
		Log:            logger,
		Auth:           authService,
		Metrics:        m,
		LoginLimiter:   loginLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		UploadsDir:     images.Dir(),
		UploadsPrefix:  cfg.PublicPrefix,
	}, handlers)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:      srv,
		limiter:     loginLimiter,
		limiterIdle: cfg.IdleTTL,
		logger:      logger,
		db:          db,
		cache:       cacheRedis,
		conn:        conn,
		ch:          ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	if a.limiterIdle > 0 {
		go a.limiter.Run(ctx, a.limiterIdle, a.limiterIdle)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}
	a.close()
	return err
}

func (a *App) close() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close cache", slog.Any("err", err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close storage", slog.Any("err", err))
	}
}
