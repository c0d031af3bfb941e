// Package status реализует HTTP‑обработчик состояния платежа.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

// Provider возвращает транзакцию по ссылке.
type Provider interface {
	GetTransactionByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error)
}

// New
// @Summary Состояние платежа по внутренней ссылке
// @Tags payment
// @Produce json
// @Security BearerAuth
// @Param   reference path string true "Ссылка транзакции"
// @Success 200 {object} response.Response "Транзакция"
// @Failure 404 {object} response.Response "Транзакция не найдена"
// @Router /payments/{reference} [get]
func New(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.status.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		reference := chi.URLParam(r, "reference")

		tx, err := provider.GetTransactionByReference(r.Context(), reference)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("transaction not found"))
				return
			}
			log.Error("failed to read transaction", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read transaction"))
			return
		}

		// Чужие транзакции не раскрываются.
		if tx.UserUID != mware.UserUID(r.Context()) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("transaction not found"))
			return
		}

		render.JSON(w, r, response.OKWithData(tx))
	}
}
