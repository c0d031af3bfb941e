package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// ErrAlreadyLiked возвращается при повторном лайке той же анкеты.
var ErrAlreadyLiked = errors.New("already liked")

// CreateLike сохраняет лайк и возвращает его идентификатор. Повторный лайк
// той же пары пользователей не создаёт дубликата.
func (s *Storage) CreateLike(ctx context.Context, likerUID, likedUID string) (int64, error) {
	const op = "storage.CreateLike"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO likes (liker_uid, liked_uid)
			  VALUES ($1, $2)
			  ON CONFLICT (liker_uid, liked_uid) DO NOTHING
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, likerUID, likedUID).Scan(&newID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyLiked)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// LikeExists проверяет, ставил ли liker лайк анкете liked.
func (s *Storage) LikeExists(ctx context.Context, likerUID, likedUID string) (bool, error) {
	const op = "storage.LikeExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (
				  SELECT 1 FROM likes
				  WHERE liker_uid = $1 AND liked_uid = $2
			  )`
	if err := s.DB.QueryRowContext(ctx, query, likerUID, likedUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CountLikesSince возвращает число лайков пользователя начиная с указанного
// момента. Используется для дневного лимита бесплатного уровня: счёт ведётся
// от начала суток в опорном часовом поясе.
func (s *Storage) CountLikesSince(ctx context.Context, likerUID string, since time.Time) (int, error) {
	const op = "storage.CountLikesSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM likes
			  WHERE liker_uid = $1 AND created_at >= $2`
	if err := s.DB.QueryRowContext(ctx, query, likerUID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// IncrementDailyLikes увеличивает дневной счётчик лайков пользователя.
func (s *Storage) IncrementDailyLikes(ctx context.Context, userUID string) error {
	const op = "storage.IncrementDailyLikes"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET daily_likes_used = daily_likes_used + 1 WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListLikesReceived возвращает лайки, полученные пользователем.
func (s *Storage) ListLikesReceived(ctx context.Context, likedUID string, limit, offset int) ([]*models.Like, error) {
	const op = "storage.ListLikesReceived"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, liker_uid, liked_uid, created_at
			  FROM likes
			  WHERE liked_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, likedUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Like
	for rows.Next() {
		var l models.Like
		if err := rows.Scan(&l.ID, &l.LikerUID, &l.LikedUID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
