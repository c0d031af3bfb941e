// Package list реализует HTTP‑обработчик истории платежей пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

const defaultLimit = 20

// Lister возвращает платежи пользователя.
type Lister interface {
	ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.PaymentTransaction, error)
}

// New
// @Summary История платежей пользователя
// @Tags payment
// @Produce json
// @Security BearerAuth
// @Param   limit  query int false "Размер страницы"
// @Param   offset query int false "Смещение"
// @Success 200 {object} response.Response "Платежи"
// @Router /payments [get]
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.payment.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit, offset := defaultLimit, 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}
		if raw := r.URL.Query().Get("offset"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
				offset = parsed
			}
		}

		userUID := mware.UserUID(r.Context())

		transactions, err := lister.ListTransactions(r.Context(), userUID, limit, offset)
		if err != nil {
			log.Error("failed to list transactions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list transactions"))
			return
		}

		render.JSON(w, r, response.OKWithData(map[string]any{
			"transactions": transactions,
			"count":        len(transactions),
		}))
	}
}
