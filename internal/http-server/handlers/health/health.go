// Package health реализует HTTP‑обработчик проверки готовности сервиса.
package health

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

// New
// @Summary Проверка готовности сервиса и базы данных
// @Tags health
// @Produce json
// @Success 200 {object} response.Response "Сервис готов"
// @Failure 503 {object} response.Response "База данных недоступна"
// @Router /health [get]
func New(storage *repository.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := repository.CheckDatabaseReady(storage); err != nil {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("database not ready"))
			return
		}
		render.JSON(w, r, response.OK())
	}
}
