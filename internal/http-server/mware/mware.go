// Package mware содержит middleware для HTTP‑сервера: проверку JWT‑токена
// с добавлением данных пользователя в контекст запроса и ограничение
// частоты запросов.
package mware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/jwt"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте.
	User Key = "username"
	// Role — ключ для роли пользователя в контексте.
	Role Key = "role"
	// UID — ключ для UID пользователя в контексте.
	UID Key = "user_uid"
)

// UserUID возвращает UID пользователя из контекста запроса.
func UserUID(ctx context.Context) string {
	uid, _ := ctx.Value(UID).(string)
	return uid
}

// Username возвращает имя пользователя из контекста запроса.
func Username(ctx context.Context) string {
	username, _ := ctx.Value(User).(string)
	return username
}

// JWTMiddleware возвращает middleware, которое проверяет JWT‑токен в
// заголовке Authorization и кладёт имя пользователя, роль и UID в контекст
// запроса.
func JWTMiddleware(jwtMaker jwt.Maker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "mware.JWTMiddleware"

			log = log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := jwtMaker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), User, claims.Username)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, UID, claims.UserUID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var limiter = rate.NewLimiter(10, 30)

// RateLimitMiddleware ограничивает частоту запросов к серверу.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
