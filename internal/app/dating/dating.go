// Package dating собирает основное приложение: хранилище, кеш, очередь
// уведомлений, доменные сервисы и HTTP-сервер.
package dating

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/diaspora-dating/internal/cache"
	"github.com/magabrotheeeer/diaspora-dating/internal/config"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/jwt"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/diaspora-dating/internal/migrations"
	"github.com/magabrotheeeer/diaspora-dating/internal/paymentprovider/cardpay"
	"github.com/magabrotheeeer/diaspora-dating/internal/paymentprovider/mobilemoney"
	authservice "github.com/magabrotheeeer/diaspora-dating/internal/services/auth"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/entitlement"
	likeservice "github.com/magabrotheeeer/diaspora-dating/internal/services/like"
	messageservice "github.com/magabrotheeeer/diaspora-dating/internal/services/message"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/pricing"
	profileservice "github.com/magabrotheeeer/diaspora-dating/internal/services/profile"
	subscriptionservice "github.com/magabrotheeeer/diaspora-dating/internal/services/subscription"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

// App объединяет ресурсы основного сервера.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует приложение: подключения, миграции, сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	notifier := rabbitmq.NewNotifier(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	entitlementService := entitlement.New(cfg.Matching)
	pricingService := pricing.New(cfg.Billing)
	authService := authservice.New(db, cacheRedis, notifier, jwtMaker, cfg.OTPTTL, logger)
	profileService := profileservice.New(db, cacheRedis, entitlementService, logger)
	likeService := likeservice.New(db, entitlementService, logger)
	messageService := messageservice.New(db, entitlementService, logger)
	subscriptionService := subscriptionservice.New(db, pricingService, notifier, logger)

	cardpayClient := cardpay.NewClient(cfg.CardPay)
	mobilemoneyClient := mobilemoney.NewClient(cfg.MobileMoney)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		DB:           db,
		JWTMaker:     jwtMaker,
		Auth:         authService,
		Profile:      profileService,
		Like:         likeService,
		Message:      messageService,
		Subscription: subscriptionService,
		Entitlement:  entitlementService,
		Pricing:      pricingService,
		CardPay:      cardpayClient,
		MobileMoney:  mobilemoneyClient,
		Config:       cfg,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и завершает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
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

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
