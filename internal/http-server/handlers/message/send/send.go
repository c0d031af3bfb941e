// Package send реализует HTTP‑обработчик отправки сообщения внутри пары.
package send

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
	"github.com/magabrotheeeer/diaspora-dating/internal/services/message"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

// Request — сообщение для отправки.
type Request struct {
	MatchID int64  `json:"match_id" validate:"required,min=1"`
	Body    string `json:"body" validate:"required,min=1,max=2000"`
}

// Sender описывает сервис переписки.
type Sender interface {
	Send(ctx context.Context, matchID int64, senderUID, body string, now time.Time) (int64, error)
}

// New
// @Summary Отправка сообщения внутри пары
// @Tags message
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   request body Request true "ID пары и текст сообщения"
// @Success 200 {object} response.Response "Сообщение отправлено"
// @Failure 403 {object} response.Response "Переписка недоступна вне окна или не участнику пары"
// @Failure 404 {object} response.Response "Пара не найдена"
// @Router /messages [post]
func New(log *slog.Logger, sender Sender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.message.send.New"

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

		senderUID := mware.UserUID(r.Context())

		messageID, err := sender.Send(r.Context(), req.MatchID, senderUID, req.Body, timewindow.Now())
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("match not found"))
			case errors.Is(err, message.ErrNotInMatch):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("not a participant of the match"))
			case errors.Is(err, message.ErrNotPermitted):
				log.Info("messaging not permitted", slog.String("user_uid", senderUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("messaging requires premium or happy hour"))
			default:
				log.Error("failed to send message", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to send message"))
			}
			return
		}

		render.JSON(w, r, response.OKWithData(map[string]any{
			"message_id": messageID,
		}))
	}
}
