// Package list реализует HTTP‑обработчик чтения переписки пары.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/message"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

const defaultLimit = 50

// Lister описывает сервис чтения переписки.
type Lister interface {
	List(ctx context.Context, matchID int64, userUID string, limit, offset int) ([]*models.Message, error)
}

// New
// @Summary Сообщения пары в хронологическом порядке
// @Tags message
// @Produce json
// @Security BearerAuth
// @Param   id     path  int true  "ID пары"
// @Param   limit  query int false "Размер страницы"
// @Param   offset query int false "Смещение"
// @Success 200 {object} response.Response "Сообщения"
// @Failure 403 {object} response.Response "Не участник пары"
// @Failure 404 {object} response.Response "Пара не найдена"
// @Router /matches/{id}/messages [get]
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.message.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		matchID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || matchID <= 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid match id"))
			return
		}

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

		messages, err := lister.List(r.Context(), matchID, userUID, limit, offset)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("match not found"))
			case errors.Is(err, message.ErrNotInMatch):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("not a participant of the match"))
			default:
				log.Error("failed to list messages", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to list messages"))
			}
			return
		}

		render.JSON(w, r, response.OKWithData(map[string]any{
			"messages": messages,
			"count":    len(messages),
		}))
	}
}
