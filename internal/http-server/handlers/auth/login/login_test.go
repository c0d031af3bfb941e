package login_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/auth/login"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/auth"
)

type mockLoginer struct {
	LoginFunc func(ctx context.Context, username, rawPassword string) (string, string, error)
}

func (m *mockLoginer) Login(ctx context.Context, username, rawPassword string) (string, string, error) {
	return m.LoginFunc(ctx, username, rawPassword)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestLoginHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(login.Request{
			Username: "aminak1",
			Password: "password123",
		})

		loginer := &mockLoginer{
			LoginFunc: func(ctx context.Context, username, rawPassword string) (string, string, error) {
				require.Equal(t, "aminak1", username)
				return "jwt-token", "user", nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler := login.New(makeLogger(), loginer)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)
		assert.Equal(t, "jwt-token", resp.Data.(map[string]any)["token"])
		assert.Equal(t, "user", resp.Data.(map[string]any)["role"])
	})

	t.Run("not verified", func(t *testing.T) {
		body, _ := json.Marshal(login.Request{
			Username: "aminak1",
			Password: "password123",
		})

		loginer := &mockLoginer{
			LoginFunc: func(ctx context.Context, username, rawPassword string) (string, string, error) {
				return "", "", auth.ErrNotVerified
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler := login.New(makeLogger(), loginer)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		body, _ := json.Marshal(login.Request{
			Username: "aminak1",
			Password: "wrongpass",
		})

		loginer := &mockLoginer{
			LoginFunc: func(ctx context.Context, username, rawPassword string) (string, string, error) {
				return "", "", auth.ErrInvalidCredentials
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler := login.New(makeLogger(), loginer)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid credentials", resp.Error)
	})

	t.Run("short username fails validation", func(t *testing.T) {
		body, _ := json.Marshal(login.Request{
			Username: "abc",
			Password: "password123",
		})

		loginer := &mockLoginer{
			LoginFunc: func(ctx context.Context, username, rawPassword string) (string, string, error) {
				t.Fatal("Login should not be called")
				return "", "", errors.New("unreachable")
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler := login.New(makeLogger(), loginer)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
