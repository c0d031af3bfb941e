// Package callback реализует приём уведомлений провайдера мобильных денег.
package callback

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/subscription"
)

// Activator применяет подтверждение оплаты к подписке пользователя.
type Activator interface {
	Activate(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error)
}

// Handler принимает callback-уведомления провайдера мобильных денег.
// Аутентификация: общий секрет в заголовке X-Callback-Token.
type Handler struct {
	log           *slog.Logger
	activator     Activator
	callbackToken string
}

// New создаёт обработчик callback-уведомлений.
func New(log *slog.Logger, activator Activator, token string) *Handler {
	return &Handler{
		log:           log,
		activator:     activator,
		callbackToken: token,
	}
}

// Payload — уведомление провайдера о результате списания.
type Payload struct {
	TransactionID string `json:"transaction_id"`
	ExternalID    string `json:"external_id"` // внутренняя ссылка транзакции
	Status        string `json:"status"`      // successful | failed
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.callback"
	log := h.log.With(slog.String("op", op))

	token := r.Header.Get("X-Callback-Token")
	if token == "" || !hmac.Equal([]byte(token), []byte(h.callbackToken)) {
		log.Error("invalid or missing callback token")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read callback body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal callback payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	status := models.PaymentFailed
	if payload.Status == "successful" {
		status = models.PaymentProcessed
	}

	confirmation := models.PaymentConfirmation{
		Reference: payload.ExternalID,
		Status:    status,
		Amount:    payload.Amount,
		Currency:  payload.Currency,
	}

	if _, err := h.activator.Activate(r.Context(), confirmation); err != nil {
		switch {
		case errors.Is(err, subscription.ErrPaymentFailed):
			// Неуспешное списание зафиксировано, провайдеру отвечаем 200.
		case errors.Is(err, subscription.ErrTransactionNotFound),
			errors.Is(err, subscription.ErrInvalidPlan),
			errors.Is(err, subscription.ErrAmountMismatch):
			log.Error("callback rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		default:
			log.Error("failed to process callback", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	log.Info("callback processed",
		slog.String("reference", payload.ExternalID),
		slog.String("status", payload.Status))
	w.WriteHeader(http.StatusOK)
}
