// Package collect реализует HTTP‑обработчик оплаты мобильными деньгами.
package collect

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
	"github.com/magabrotheeeer/diaspora-dating/internal/paymentprovider/mobilemoney"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/pricing"
)

// Request — выбор тарифа и номер кошелька для списания.
type Request struct {
	Plan  string `json:"plan" validate:"required"`
	Phone string `json:"phone" validate:"required,e164"`
}

// TransactionRepository сохраняет транзакцию и ссылку провайдера.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx models.PaymentTransaction) error
	SetTransactionProviderRef(ctx context.Context, reference, providerRef string) error
}

// Provider инициирует списание у провайдера мобильных денег.
type Provider interface {
	RequestToPay(ctx context.Context, req mobilemoney.RequestToPayRequest) (*mobilemoney.RequestToPayResponse, error)
}

// New
// @Summary Оплата тарифа мобильными деньгами
// @Tags payment
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   request body Request true "Тариф и номер кошелька"
// @Success 200 {object} response.Response "Списание инициировано, подтверждение придёт асинхронно"
// @Failure 400 {object} response.Response "Неизвестный тариф"
// @Failure 502 {object} response.Response "Провайдер недоступен"
// @Router /payments/collect [post]
func New(log *slog.Logger, repo TransactionRepository, provider Provider, pricingSvc *pricing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.collect.New"

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
			Provider:  models.ProviderMobileMoney,
		}
		if err := repo.CreateTransaction(r.Context(), tx); err != nil {
			log.Error("failed to create transaction", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create transaction"))
			return
		}

		payResp, err := provider.RequestToPay(r.Context(), mobilemoney.RequestToPayRequest{
			ExternalID: reference,
			Amount:     quote.Discounted,
			Currency:   quote.Currency,
			Phone:      req.Phone,
			Message:    "premium subscription: " + quote.Plan,
		})
		if err != nil {
			log.Error("provider request-to-pay failed", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider unavailable"))
			return
		}

		if err := repo.SetTransactionProviderRef(r.Context(), reference, payResp.TransactionID); err != nil {
			log.Error("failed to save provider ref", sl.Err(err))
		}

		log.Info("collection initiated",
			slog.String("reference", reference),
			slog.String("plan", quote.Plan))
		render.JSON(w, r, response.OKWithData(map[string]any{
			"reference": reference,
			"status":    payResp.Status,
			"amount":    quote.Discounted,
			"currency":  quote.Currency,
		}))
	}
}
