// Package like реализует лайки с дневным лимитом и образование пар
// при взаимной симпатии.
package like

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/entitlement"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

// Ошибки лайков. ErrDailyLimitReached отличим от прочих отказов:
// хендлер отдаёт по нему отдельный код причины.
var (
	ErrDailyLimitReached = errors.New("daily like limit reached")
	ErrSelfLike          = errors.New("cannot like own profile")
	ErrAlreadyLiked      = errors.New("already liked")
)

// Repository описывает операции хранилища для лайков и пар.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	CreateLike(ctx context.Context, likerUID, likedUID string) (int64, error)
	LikeExists(ctx context.Context, likerUID, likedUID string) (bool, error)
	CountLikesSince(ctx context.Context, likerUID string, since time.Time) (int, error)
	IncrementDailyLikes(ctx context.Context, userUID string) error
	CreateMatch(ctx context.Context, firstUID, secondUID string) (int64, error)
	ListMatches(ctx context.Context, userUID string, limit, offset int) ([]*models.Match, error)
}

// Result — исход лайка: при взаимной симпатии образуется пара.
type Result struct {
	LikeID  int64 `json:"like_id"`
	Matched bool  `json:"matched"`
	MatchID int64 `json:"match_id,omitempty"`
}

// Service — бизнес-логика лайков.
type Service struct {
	repo        Repository
	entitlement *entitlement.Service
	log         *slog.Logger
}

// New создает сервис лайков.
func New(repo Repository, ent *entitlement.Service, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		entitlement: ent,
		log:         log,
	}
}

// Like ставит лайк от likerUID анкете likedUID.
//
// Дневной лимит бесплатного уровня считается от локальной полуночи
// опорного часового пояса по записям в хранилище, а не по счётчику в
// профиле: это делает лимит устойчивым к отсутствию фонового сброса.
func (s *Service) Like(ctx context.Context, likerUID, likedUID string, now time.Time) (*Result, error) {
	const op = "services.like.Like"

	if likerUID == likedUID {
		return nil, fmt.Errorf("%s: %w", op, ErrSelfLike)
	}

	liker, err := s.repo.GetUser(ctx, likerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Анкета должна существовать.
	if _, err := s.repo.GetUser(ctx, likedUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limit := s.entitlement.DailyLikeCap(liker, now)
	if limit != entitlement.UnlimitedLikes {
		used, err := s.repo.CountLikesSince(ctx, likerUID, timewindow.StartOfDay(now))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if used >= limit {
			return nil, fmt.Errorf("%s: %w", op, ErrDailyLimitReached)
		}
	}

	likeID, err := s.repo.CreateLike(ctx, likerUID, likedUID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyLiked) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyLiked)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.IncrementDailyLikes(ctx, likerUID); err != nil {
		s.log.Warn("failed to increment daily likes",
			slog.String("user_uid", likerUID), sl.Err(err))
	}

	result := &Result{LikeID: likeID}

	mutual, err := s.repo.LikeExists(ctx, likedUID, likerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if mutual {
		matchID, err := s.repo.CreateMatch(ctx, likerUID, likedUID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Matched = true
		result.MatchID = matchID
		s.log.Info("mutual like, match created",
			slog.String("first_uid", likerUID),
			slog.String("second_uid", likedUID),
			slog.Int64("match_id", matchID))
	}
	return result, nil
}

// Matches возвращает пары пользователя.
func (s *Service) Matches(ctx context.Context, userUID string, limit, offset int) ([]*models.Match, error) {
	return s.repo.ListMatches(ctx, userUID, limit, offset)
}
