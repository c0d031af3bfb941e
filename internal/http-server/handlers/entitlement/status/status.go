// Package status реализует HTTP‑обработчик проверки доступа пользователя.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/entitlement"
)

// UserProvider возвращает пользователя по UID.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// New
// @Summary Текущий доступ пользователя: решение, лимит лайков, радиус поиска
// @Tags entitlement
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Решение с кодом причины"
// @Router /entitlement [get]
func New(log *slog.Logger, users UserProvider, ent *entitlement.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.entitlement.status.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userUID := mware.UserUID(r.Context())

		user, err := users.GetUser(r.Context(), userUID)
		if err != nil {
			log.Error("failed to read user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read user"))
			return
		}

		now := timewindow.Now()
		decision := ent.CanInteractFreely(user, now)

		render.JSON(w, r, response.OKWithData(map[string]any{
			"allowed":          decision.Allowed,
			"reason":           decision.Reason,
			"daily_like_cap":   ent.DailyLikeCap(user, now),
			"search_radius_km": ent.SearchRadiusKm(user, now),
		}))
	}
}
