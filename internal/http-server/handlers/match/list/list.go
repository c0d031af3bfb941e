// Package list реализует HTTP‑обработчик списка пар пользователя.
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

const defaultLimit = 50

// Lister описывает сервис списка пар.
type Lister interface {
	Matches(ctx context.Context, userUID string, limit, offset int) ([]*models.Match, error)
}

// New
// @Summary Список пар пользователя
// @Tags match
// @Produce json
// @Security BearerAuth
// @Param   limit  query int false "Размер страницы"
// @Param   offset query int false "Смещение"
// @Success 200 {object} response.Response "Пары"
// @Router /matches [get]
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.match.list.New"

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

		matches, err := lister.Matches(r.Context(), userUID, limit, offset)
		if err != nil {
			log.Error("failed to list matches", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list matches"))
			return
		}

		render.JSON(w, r, response.OKWithData(map[string]any{
			"matches": matches,
			"count":   len(matches),
		}))
	}
}
