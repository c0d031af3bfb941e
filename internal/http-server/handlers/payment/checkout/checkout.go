// Package checkout реализует HTTP‑обработчик создания карточного платежа.
package checkout

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/paymentprovider/cardpay"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/pricing"
)

// Request — выбор тарифа для оплаты картой.
type Request struct {
	Plan      string `json:"plan" validate:"required"`
	ReturnURL string `json:"return_url" validate:"omitempty,url"`
}

// TransactionRepository сохраняет транзакцию и ссылку провайдера.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx models.PaymentTransaction) error
	SetTransactionProviderRef(ctx context.Context, reference, providerRef string) error
}

// Provider создаёт платёжную сессию у карточного провайдера.
type Provider interface {
	CreateCheckout(ctx context.Context, req cardpay.CreateCheckoutRequest) (*cardpay.CreateCheckoutResponse, error)
}

// New
// @Summary Создание карточного платежа за тариф
// @Tags payment
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   request body Request true "Тариф и адрес возврата"
// @Success 200 {object} response.Response "Ссылка на страницу оплаты"
// @Failure 400 {object} response.Response "Неизвестный тариф"
// @Failure 502 {object} response.Response "Провайдер недоступен"
// @Router /payments/checkout [post]
func New(log *slog.Logger, repo TransactionRepository, provider Provider, pricingSvc *pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.checkout.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		// Цена фиксируется в момент создания транзакции: скидка дня
		// проверяется при оплате, а не при подтверждении.
		quote, err := pricingSvc.QuoteAt(req.Plan, timewindow.Now())
		if err != nil {
			if errors.Is(err, pricing.ErrUnknownPlan) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("unknown plan"))
				return
			}
			log.Error("failed to quote plan", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to quote plan"))
			return
		}

		userUID := mware.UserUID(r.Context())
		reference := uuid.NewString()

		tx := models.PaymentTransaction{
			Reference: reference,
			UserUID:   userUID,
			Plan:      quote.Plan,
			Amount:    quote.Discounted,
			Currency:  quote.Currency,
			Provider:  models.ProviderCardPay,
		}
		if err := repo.CreateTransaction(r.Context(), tx); err != nil {
			log.Error("failed to create transaction", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create transaction"))
			return
		}

		checkout, err := provider.CreateCheckout(r.Context(), cardpay.CreateCheckoutRequest{
			Reference:   reference,
			Amount:      cardpay.Money{Amount: quote.Discounted, Currency: quote.Currency},
			Description: "premium subscription: " + quote.Plan,
			ReturnURL:   req.ReturnURL,
			Metadata:    map[string]string{"user_uid": userUID, "plan": quote.Plan},
		})
		if err != nil {
			log.Error("provider checkout failed", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider unavailable"))
			return
		}

		if err := repo.SetTransactionProviderRef(r.Context(), reference, checkout.ID); err != nil {
			log.Error("failed to save provider ref", sl.Err(err))
		}

		log.Info("checkout created",
			slog.String("reference", reference),
			slog.String("plan", quote.Plan),
			slog.Int64("amount", quote.Discounted))
		render.JSON(w, r, response.OKWithData(map[string]any{
			"reference":    reference,
			"checkout_url": checkout.CheckoutURL,
			"amount":       quote.Discounted,
			"currency":     quote.Currency,
			"has_discount": quote.HasDiscount,
		}))
	}
}
