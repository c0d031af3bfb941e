package register_test

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

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/auth/register"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
)

type mockRegistration struct {
	RegisterFunc func(ctx context.Context, email, username, rawPassword string) (string, error)
}

func (m *mockRegistration) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	return m.RegisterFunc(ctx, email, username, rawPassword)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestRegisterHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		body, _ := json.Marshal(register.Request{
			Email:    "amina@example.com",
			Username: "aminak1",
			Password: "password123",
		})

		reg := &mockRegistration{
			RegisterFunc: func(ctx context.Context, email, username, rawPassword string) (string, error) {
				require.Equal(t, "amina@example.com", email)
				require.Equal(t, "aminak1", username)
				require.Equal(t, "password123", rawPassword)
				return "uid-123", nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler := register.New(makeLogger(), reg)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)
		assert.Equal(t, "uid-123", resp.Data.(map[string]any)["user_uid"])
	})

	t.Run("invalid JSON", func(t *testing.T) {
		reg := &mockRegistration{
			RegisterFunc: func(ctx context.Context, e, u, p string) (string, error) {
				t.Fatal("Register should not be called")
				return "", nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{bad json")))
		w := httptest.NewRecorder()

		handler := register.New(makeLogger(), reg)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		body, _ := json.Marshal(register.Request{
			Email:    "not-an-email",
			Username: "aminak1",
			Password: "password123",
		})

		reg := &mockRegistration{
			RegisterFunc: func(ctx context.Context, e, u, p string) (string, error) {
				t.Fatal("Register should not be called")
				return "", nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler := register.New(makeLogger(), reg)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusError, resp.Status)
	})

	t.Run("service error", func(t *testing.T) {
		body, _ := json.Marshal(register.Request{
			Email:    "amina@example.com",
			Username: "aminak1",
			Password: "password123",
		})

		reg := &mockRegistration{
			RegisterFunc: func(ctx context.Context, e, u, p string) (string, error) {
				return "", errors.New("db down")
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler := register.New(makeLogger(), reg)
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
