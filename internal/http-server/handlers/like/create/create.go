// Package create реализует HTTP‑обработчик лайка анкеты.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/like"
)

// Request — анкета, которой ставится лайк.
type Request struct {
	LikedUID string `json:"liked_uid" validate:"required,uuid"`
}

// Liker описывает сервис лайков.
type Liker interface {
	Like(ctx context.Context, likerUID, likedUID string, now time.Time) (*like.Result, error)
}

// New
// @Summary Лайк анкеты, при взаимности образуется пара
// @Tags like
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   request body Request true "UID анкеты"
// @Success 200 {object} response.Response "Лайк сохранён; matched=true при взаимности"
// @Failure 403 {object} response.Response "Дневной лимит лайков исчерпан"
// @Failure 409 {object} response.Response "Лайк уже ставился"
// @Router /likes [post]
func New(log *slog.Logger, liker Liker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.like.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		likerUID := mware.UserUID(r.Context())

		result, err := liker.Like(r.Context(), likerUID, req.LikedUID, timewindow.Now())
		if err != nil {
			switch {
			case errors.Is(err, like.ErrDailyLimitReached):
				log.Info("daily like limit reached", slog.String("user_uid", likerUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("daily like limit reached"))
			case errors.Is(err, like.ErrSelfLike):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("cannot like own profile"))
			case errors.Is(err, like.ErrAlreadyLiked):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("already liked"))
			default:
				log.Error("failed to create like", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to create like"))
			}
			return
		}

		render.JSON(w, r, response.OKWithData(result))
	}
}
