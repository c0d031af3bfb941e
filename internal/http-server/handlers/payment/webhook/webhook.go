// Package webhook реализует приём подтверждений карточного провайдера.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/subscription"
)

// Activator применяет подтверждение оплаты к подписке пользователя.
type Activator interface {
	Activate(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error)
}

// Handler принимает и проверяет вебхуки провайдера.
type Handler struct {
	log           *slog.Logger
	activator     Activator
	webhookSecret string
}

// New создаёт обработчик вебхуков карточного провайдера.
func New(log *slog.Logger, activator Activator, secret string) *Handler {
	return &Handler{
		log:           log,
		activator:     activator,
		webhookSecret: secret,
	}
}

// Payload — событие провайдера о платеже.
type Payload struct {
	Event  string `json:"event"`
	Object struct {
		ID        string `json:"id"`        // ID платежа у провайдера
		Reference string `json:"reference"` // внутренняя ссылка транзакции
		Status    string `json:"status"`
		Amount    struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		} `json:"amount"`
		Metadata map[string]string `json:"metadata"`
	} `json:"object"`
}

// Проверка подписи webhook (X-Api-Signature).
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(slog.String("op", op))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer func() {
		_ = r.Body.Close()
	}()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	const (
		PaymentSucceeded = "payment.succeeded"
		PaymentCanceled  = "payment.canceled"
	)

	var status string
	switch strings.ToLower(payload.Event) {
	case PaymentSucceeded:
		status = models.PaymentProcessed
	case PaymentCanceled:
		status = models.PaymentFailed
	default:
		log.Info("ignored webhook event", slog.String("event", payload.Event))
		w.WriteHeader(http.StatusOK)
		return
	}

	confirmation := models.PaymentConfirmation{
		Reference: payload.Object.Reference,
		Status:    status,
		Amount:    payload.Object.Amount.Amount,
		Currency:  payload.Object.Amount.Currency,
	}

	if _, err := h.activator.Activate(r.Context(), confirmation); err != nil {
		switch {
		case errors.Is(err, subscription.ErrPaymentFailed):
			// Отменённый платёж помечен как failed, провайдеру
			// подтверждаем приём события.
		case errors.Is(err, subscription.ErrTransactionNotFound),
			errors.Is(err, subscription.ErrInvalidPlan),
			errors.Is(err, subscription.ErrAmountMismatch):
			log.Error("webhook rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		default:
			log.Error("failed to process webhook event", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}

	log.Info("webhook processed",
		slog.String("event", payload.Event),
		slog.String("reference", payload.Object.Reference))
	w.WriteHeader(http.StatusOK)
}
