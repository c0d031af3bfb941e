// Package login реализует HTTP‑обработчик входа пользователя.
package login

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

// Request — учётные данные для входа.
type Request struct {
	Username string `json:"username" validate:"required,alphanum,min=6,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

// Loginer описывает сервис проверки учётных данных.
type Loginer interface {
	Login(ctx context.Context, username, rawPassword string) (token, role string, err error)
}

// New
// @Summary Вход пользователя, выдача JWT
// @Tags auth
// @Accept  json
// @Produce json
// @Param   request body Request true "Учётные данные (username, password)"
// @Success 200 {object} response.Response "Токен выдан"
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Failure 401 {object} response.Response "Неверные учётные данные"
// @Router /auth/login [post]
func New(log *slog.Logger, loginer Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.login.New"

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

		token, role, err := loginer.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrNotVerified):
				log.Error("user not verified", slog.String("username", req.Username))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("user not verified"))
			default:
				log.Error("login failed", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid credentials"))
			}
			return
		}

		log.Info("user logged in", slog.String("username", req.Username))
		render.JSON(w, r, response.OKWithData(map[string]any{
			"token": token,
			"role":  role,
		}))
	}
}
