// Package update реализует HTTP‑обработчик обновления анкеты.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// Request — поля анкеты.
type Request struct {
	DisplayName string  `json:"display_name" validate:"required,min=2,max=50"`
	Gender      string  `json:"gender" validate:"required,oneof=male female other"`
	BirthDate   string  `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Bio         string  `json:"bio" validate:"max=500"`
	Country     string  `json:"country" validate:"required"`
	City        string  `json:"city" validate:"required"`
	Latitude    float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64 `json:"longitude" validate:"min=-180,max=180"`
}

// Updater описывает сервис обновления анкеты.
type Updater interface {
	Update(ctx context.Context, userUID string, p models.Profile) (int, error)
}

// New
// @Summary Обновление собственной анкеты
// @Tags profile
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   request body Request true "Поля анкеты"
// @Success 200 {object} response.Response "Анкета обновлена"
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Router /profile [put]
func New(log *slog.Logger, updater Updater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.update.New"

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

		userUID := mware.UserUID(r.Context())
		profile := models.Profile{
			UserUID:     userUID,
			DisplayName: req.DisplayName,
			Gender:      req.Gender,
			BirthDate:   req.BirthDate,
			Bio:         req.Bio,
			Country:     req.Country,
			City:        req.City,
			Latitude:    req.Latitude,
			Longitude:   req.Longitude,
		}

		rowsAffected, err := updater.Update(r.Context(), userUID, profile)
		if err != nil {
			log.Error("failed to update profile", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update profile"))
			return
		}
		if rowsAffected == 0 {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
			return
		}

		log.Info("profile updated", slog.String("user_uid", userUID))
		render.JSON(w, r, response.OK())
	}
}
