// Package read реализует HTTP‑обработчик чтения собственной анкеты.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

// Provider описывает сервис чтения анкеты.
type Provider interface {
	Get(ctx context.Context, userUID string) (*models.Profile, error)
}

// New
// @Summary Чтение собственной анкеты
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "Анкета"
// @Failure 404 {object} response.Response "Анкета не найдена"
// @Router /profile [get]
func New(log *slog.Logger, provider Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.read.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userUID := mware.UserUID(r.Context())

		profile, err := provider.Get(r.Context(), userUID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Error("profile not found", slog.String("user_uid", userUID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("profile not found"))
				return
			}
			log.Error("failed to read profile", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read profile"))
			return
		}

		render.JSON(w, r, response.OKWithData(profile))
	}
}
