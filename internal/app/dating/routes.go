package dating

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/diaspora-dating/internal/config"
	authlogin "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/auth/login"
	authregister "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/auth/register"
	authverify "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/auth/verify"
	entstatus "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/entitlement/status"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/health"
	likecreate "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/like/create"
	likereceived "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/like/received"
	matchlist "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/match/list"
	messagelist "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/message/list"
	messagesend "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/message/send"
	paymentcallback "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/payment/callback"
	paymentcheckout "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/payment/checkout"
	paymentcollect "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/payment/collect"
	paymentlist "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/payment/list"
	paymentstatus "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/payment/status"
	paymentwebhook "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/payment/webhook"
	planslist "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/plans/list"
	profilenearby "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/profile/nearby"
	profileread "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/profile/read"
	profileupdate "github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/profile/update"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/jwt"
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

// Services — зависимости, которые нужны маршрутам.
type Services struct {
	DB           *repository.Storage
	JWTMaker     jwt.Maker
	Auth         *authservice.Service
	Profile      *profileservice.Service
	Like         *likeservice.Service
	Message      *messageservice.Service
	Subscription *subscriptionservice.Service
	Entitlement  *entitlement.Service
	Pricing      *pricing.Service
	CardPay      *cardpay.Client
	MobileMoney  *mobilemoney.Client
	Config       *config.Config
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", authregister.New(logger, s.Auth))
		r.Post("/auth/verify", authverify.New(logger, s.Auth))
		r.Post("/auth/login", authlogin.New(logger, s.Auth))
		r.Get("/plans", planslist.New(logger, s.Pricing))
		r.Get("/health", health.New(s.DB))

		// Подтверждения провайдеров (аутентификация по подписи/токену)
		r.Post("/payments/webhook", paymentwebhook.New(logger, s.Subscription, s.Config.CardPay.WebhookSecret).ServeHTTP)
		r.Post("/payments/callback", paymentcallback.New(logger, s.Subscription, s.Config.MobileMoney.CallbackToken).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(mware.JWTMiddleware(s.JWTMaker, logger))
			r.Use(mware.RateLimitMiddleware(logger))

			r.Get("/profile", profileread.New(logger, s.Profile))
			r.Put("/profile", profileupdate.New(logger, s.Profile))
			r.Get("/profiles/nearby", profilenearby.New(logger, s.Profile))

			r.Post("/likes", likecreate.New(logger, s.Like))
			r.Get("/likes/received", likereceived.New(logger, s.DB))
			r.Get("/matches", matchlist.New(logger, s.Like))
			r.Post("/messages", messagesend.New(logger, s.Message))
			r.Get("/matches/{id}/messages", messagelist.New(logger, s.Message))

			r.Get("/entitlement", entstatus.New(logger, s.DB, s.Entitlement))

			r.Post("/payments/checkout", paymentcheckout.New(logger, s.DB, s.CardPay, s.Pricing))
			r.Post("/payments/collect", paymentcollect.New(logger, s.DB, s.MobileMoney, s.Pricing))
			r.Get("/payments", paymentlist.New(logger, s.DB))
			r.Get("/payments/{reference}", paymentstatus.New(logger, s.DB))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
