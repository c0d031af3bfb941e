package webhook_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/payment/webhook"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/subscription"
)

type mockActivator struct {
	ActivateFunc func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error)
}

func (m *mockActivator) Activate(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
	return m.ActivateFunc(ctx, confirmation)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

const secret = "webhook-secret"

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

const succeededPayload = `{
	"event": "payment.succeeded",
	"object": {
		"id": "prov-1",
		"reference": "ref-123",
		"status": "succeeded",
		"amount": {"amount": 5000, "currency": "BIF"}
	}
}`

func TestWebhookHandler(t *testing.T) {
	t.Run("valid signature activates subscription", func(t *testing.T) {
		var got models.PaymentConfirmation
		activator := &mockActivator{
			ActivateFunc: func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
				got = confirmation
				return &models.ActivationResult{Plan: "weekly", NewExpiry: time.Now().Add(168 * time.Hour)}, nil
			},
		}

		body := []byte(succeededPayload)
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		req.Header.Set("X-Api-Signature", sign(body))
		w := httptest.NewRecorder()

		webhook.New(makeLogger(), activator, secret).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "ref-123", got.Reference)
		require.Equal(t, models.PaymentProcessed, got.Status)
		require.Equal(t, int64(5000), got.Amount)
		require.Equal(t, "BIF", got.Currency)
	})

	t.Run("invalid signature rejected", func(t *testing.T) {
		activator := &mockActivator{
			ActivateFunc: func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
				t.Fatal("Activate should not be called")
				return nil, nil
			},
		}

		body := []byte(succeededPayload)
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		req.Header.Set("X-Api-Signature", "bm90LXRoZS1zaWduYXR1cmU=")
		w := httptest.NewRecorder()

		webhook.New(makeLogger(), activator, secret).ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		activator := &mockActivator{
			ActivateFunc: func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
				t.Fatal("Activate should not be called")
				return nil, nil
			},
		}

		body := []byte(succeededPayload)
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		w := httptest.NewRecorder()

		webhook.New(makeLogger(), activator, secret).ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("duplicate delivery still returns 200", func(t *testing.T) {
		activator := &mockActivator{
			ActivateFunc: func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
				return &models.ActivationResult{Plan: "weekly", AlreadyProcessed: true}, nil
			},
		}

		body := []byte(succeededPayload)
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		req.Header.Set("X-Api-Signature", sign(body))
		w := httptest.NewRecorder()

		webhook.New(makeLogger(), activator, secret).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("canceled payment maps to failed status", func(t *testing.T) {
		var got models.PaymentConfirmation
		activator := &mockActivator{
			ActivateFunc: func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
				got = confirmation
				return nil, subscription.ErrPaymentFailed
			},
		}

		body := []byte(`{"event":"payment.canceled","object":{"reference":"ref-456","amount":{"amount":5000,"currency":"BIF"}}}`)
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		req.Header.Set("X-Api-Signature", sign(body))
		w := httptest.NewRecorder()

		webhook.New(makeLogger(), activator, secret).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, models.PaymentFailed, got.Status)
	})

	t.Run("unknown transaction returns 400", func(t *testing.T) {
		activator := &mockActivator{
			ActivateFunc: func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
				return nil, subscription.ErrTransactionNotFound
			},
		}

		body := []byte(succeededPayload)
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		req.Header.Set("X-Api-Signature", sign(body))
		w := httptest.NewRecorder()

		webhook.New(makeLogger(), activator, secret).ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unrelated event ignored", func(t *testing.T) {
		activator := &mockActivator{
			ActivateFunc: func(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
				t.Fatal("Activate should not be called")
				return nil, nil
			},
		}

		body := []byte(`{"event":"refund.succeeded","object":{"reference":"ref-789"}}`)
		req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
		req.Header.Set("X-Api-Signature", sign(body))
		w := httptest.NewRecorder()

		webhook.New(makeLogger(), activator, secret).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})
}
