package create_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/handlers/like/create"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/mware"
	"github.com/magabrotheeeer/diaspora-dating/internal/http-server/response"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/like"
)

type mockLiker struct {
	LikeFunc func(ctx context.Context, likerUID, likedUID string, now time.Time) (*like.Result, error)
}

func (m *mockLiker) Like(ctx context.Context, likerUID, likedUID string, now time.Time) (*like.Result, error) {
	return m.LikeFunc(ctx, likerUID, likedUID, now)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func newLikeRequest(t *testing.T, likerUID, likedUID string) *http.Request {
	t.Helper()
	body, err := json.Marshal(create.Request{LikedUID: likedUID})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/likes", bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), mware.UID, likerUID)
	return req.WithContext(ctx)
}

func TestCreateLikeHandler(t *testing.T) {
	const (
		likerUID = "5f3c2a1e-8d4b-4c6a-9e2f-1a2b3c4d5e6f"
		likedUID = "7a8b9c0d-1e2f-4a3b-8c4d-5e6f7a8b9c0d"
	)

	t.Run("success without match", func(t *testing.T) {
		liker := &mockLiker{
			LikeFunc: func(ctx context.Context, gotLiker, gotLiked string, now time.Time) (*like.Result, error) {
				require.Equal(t, likerUID, gotLiker)
				require.Equal(t, likedUID, gotLiked)
				return &like.Result{LikeID: 1, Matched: false}, nil
			},
		}

		w := httptest.NewRecorder()
		handler := create.New(makeLogger(), liker)
		handler.ServeHTTP(w, newLikeRequest(t, likerUID, likedUID))

		require.Equal(t, http.StatusOK, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.StatusOK, resp.Status)
		assert.Equal(t, false, resp.Data.(map[string]any)["matched"])
	})

	t.Run("mutual like returns match", func(t *testing.T) {
		liker := &mockLiker{
			LikeFunc: func(ctx context.Context, gotLiker, gotLiked string, now time.Time) (*like.Result, error) {
				return &like.Result{LikeID: 2, Matched: true, MatchID: 42}, nil
			},
		}

		w := httptest.NewRecorder()
		handler := create.New(makeLogger(), liker)
		handler.ServeHTTP(w, newLikeRequest(t, likerUID, likedUID))

		require.Equal(t, http.StatusOK, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, true, resp.Data.(map[string]any)["matched"])
		assert.Equal(t, float64(42), resp.Data.(map[string]any)["match_id"])
	})

	t.Run("daily limit reached", func(t *testing.T) {
		liker := &mockLiker{
			LikeFunc: func(ctx context.Context, gotLiker, gotLiked string, now time.Time) (*like.Result, error) {
				return nil, like.ErrDailyLimitReached
			},
		}

		w := httptest.NewRecorder()
		handler := create.New(makeLogger(), liker)
		handler.ServeHTTP(w, newLikeRequest(t, likerUID, likedUID))

		require.Equal(t, http.StatusForbidden, w.Code)
		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "daily like limit reached", resp.Error)
	})

	t.Run("already liked", func(t *testing.T) {
		liker := &mockLiker{
			LikeFunc: func(ctx context.Context, gotLiker, gotLiked string, now time.Time) (*like.Result, error) {
				return nil, like.ErrAlreadyLiked
			},
		}

		w := httptest.NewRecorder()
		handler := create.New(makeLogger(), liker)
		handler.ServeHTTP(w, newLikeRequest(t, likerUID, likedUID))

		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("not a uuid", func(t *testing.T) {
		liker := &mockLiker{
			LikeFunc: func(ctx context.Context, gotLiker, gotLiked string, now time.Time) (*like.Result, error) {
				t.Fatal("Like should not be called")
				return nil, nil
			},
		}

		w := httptest.NewRecorder()
		handler := create.New(makeLogger(), liker)
		handler.ServeHTTP(w, newLikeRequest(t, likerUID, "not-a-uuid"))

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
