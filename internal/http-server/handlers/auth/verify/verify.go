// Package verify реализует HTTP‑обработчик подтверждения регистрации кодом.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/auth"
)

// Request — код подтверждения регистрации.
type Request struct {
	UserUID string `json:"user_uid" validate:"required,uuid"`
	Code    string `json:"code" validate:"required,len=6,numeric"`
}

// Verifier описывает сервис проверки кода подтверждения.
type Verifier interface {
	VerifyOTP(ctx context.Context, userUID, code string) error
}

// New
// @Summary Подтверждение регистрации одноразовым кодом
// @Tags auth
// @Accept  json
// @Produce json
// @Param   request body Request true "UID пользователя и код из письма"
// @Success 200 {object} response.Response "Пользователь подтверждён"
// @Failure 400 {object} response.Response "Неверный или истёкший код"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /auth/verify [post]
func New(log *slog.Logger, verifier Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.verify.New"

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

		if err := verifier.VerifyOTP(r.Context(), req.UserUID, req.Code); err != nil {
			if errors.Is(err, auth.ErrInvalidOTP) {
				log.Error("invalid otp", slog.String("user_uid", req.UserUID))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid or expired code"))
				return
			}
			log.Error("failed to verify user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to verify user"))
			return
		}

		log.Info("user verified", slog.String("user_uid", req.UserUID))
		render.JSON(w, r, response.OK())
	}
}
