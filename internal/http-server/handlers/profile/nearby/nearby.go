// Package nearby реализует HTTP‑обработчик подбора ближайших анкет.
package nearby

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

const defaultLimit = 20

// Matcher описывает сервис подбора ближайших анкет.
type Matcher interface {
	Nearby(ctx context.Context, userUID string, now time.Time, limit int) ([]*models.NearbyProfile, error)
}

// New
// @Summary Ближайшие анкеты в радиусе поиска
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param   limit query int false "Максимум анкет в ответе"
// @Success 200 {object} response.Response "Анкеты с расстоянием в километрах"
// @Router /profile/nearby [get]
func New(log *slog.Logger, matcher Matcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.nearby.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("limit must be a positive number"))
				return
			}
			limit = parsed
		}

		userUID := mware.UserUID(r.Context())

		profiles, err := matcher.Nearby(r.Context(), userUID, timewindow.Now(), limit)
		if err != nil {
			log.Error("failed to find nearby profiles", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to find nearby profiles"))
			return
		}

		render.JSON(w, r, response.OKWithData(map[string]any{
			"profiles": profiles,
			"count":    len(profiles),
		}))
	}
}
