// Package received реализует HTTP‑обработчик входящих лайков.
package received

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

// Lister возвращает лайки, полученные пользователем.
type Lister interface {
	ListLikesReceived(ctx context.Context, likedUID string, limit, offset int) ([]*models.Like, error)
}

// New
// @Summary Входящие лайки текущего пользователя
// @Tags like
// @Produce json
// @Security BearerAuth
// @Param   limit  query int false "Размер страницы"
// @Param   offset query int false "Смещение"
// @Success 200 {object} response.Response "Лайки"
// @Router /likes/received [get]
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.like.received.New"

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

		likes, err := lister.ListLikesReceived(r.Context(), userUID, limit, offset)
		if err != nil {
			log.Error("failed to list received likes", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list received likes"))
			return
		}

		render.JSON(w, r, response.OKWithData(map[string]any{
			"likes": likes,
			"count": len(likes),
		}))
	}
}
