package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// CreateMatch сохраняет пару. Порядок участников нормализуется, чтобы пара
// (a, b) и пара (b, a) были одной записью; повторное создание возвращает
// идентификатор существующей пары.
func (s *Storage) CreateMatch(ctx context.Context, firstUID, secondUID string) (int64, error) {
	const op = "storage.CreateMatch"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if secondUID < firstUID {
		firstUID, secondUID = secondUID, firstUID
	}

	var newID int64
	query := `INSERT INTO matches (first_uid, second_uid)
			  VALUES ($1, $2)
			  ON CONFLICT (first_uid, second_uid) DO UPDATE SET first_uid = EXCLUDED.first_uid
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, firstUID, secondUID).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMatch возвращает пару по её идентификатору.
func (s *Storage) GetMatch(ctx context.Context, matchID int64) (*models.Match, error) {
	const op = "storage.GetMatch"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_uid, second_uid, created_at
			  FROM matches
			  WHERE id = $1`
	m := &models.Match{}
	row := s.DB.QueryRowContext(ctx, query, matchID)
	if err := row.Scan(&m.ID, &m.FirstUID, &m.SecondUID, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// GetMatchBetween возвращает пару между двумя пользователями, если она есть.
func (s *Storage) GetMatchBetween(ctx context.Context, firstUID, secondUID string) (*models.Match, error) {
	const op = "storage.GetMatchBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if secondUID < firstUID {
		firstUID, secondUID = secondUID, firstUID
	}

	query := `SELECT id, first_uid, second_uid, created_at
			  FROM matches
			  WHERE first_uid = $1 AND second_uid = $2`
	m := &models.Match{}
	row := s.DB.QueryRowContext(ctx, query, firstUID, secondUID)
	if err := row.Scan(&m.ID, &m.FirstUID, &m.SecondUID, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListMatches возвращает пары пользователя с пагинацией.
func (s *Storage) ListMatches(ctx context.Context, userUID string, limit, offset int) ([]*models.Match, error) {
	const op = "storage.ListMatches"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_uid, second_uid, created_at
			  FROM matches
			  WHERE first_uid = $1 OR second_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Match
	for rows.Next() {
		var m models.Match
		if err := rows.Scan(&m.ID, &m.FirstUID, &m.SecondUID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
