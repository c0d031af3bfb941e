package mware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/diaspora-dating/internal/lib/jwt"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	token, err := maker.GenerateToken("alice", "user", "uid-1")
	require.NoError(t, err)

	var gotUID, gotUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = UserUID(r.Context())
		gotUser = Username(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := JWTMiddleware(maker, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "uid-1", gotUID)
	assert.Equal(t, "alice", gotUser)
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not be called")
	})

	handler := JWTMiddleware(maker, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_BadToken(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler must not be called")
	})

	handler := JWTMiddleware(maker, discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
