package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// CreateMessage сохраняет сообщение внутри пары и возвращает его
// идентификатор.
func (s *Storage) CreateMessage(ctx context.Context, matchID int64, senderUID, body string) (int64, error) {
	const op = "storage.CreateMessage"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO messages (match_id, sender_uid, body)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, matchID, senderUID, body).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListMessages возвращает сообщения пары в хронологическом порядке.
func (s *Storage) ListMessages(ctx context.Context, matchID int64, limit, offset int) ([]*models.Message, error) {
	const op = "storage.ListMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, match_id, sender_uid, body, created_at
			  FROM messages
			  WHERE match_id = $1
			  ORDER BY created_at ASC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, matchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.MatchID, &m.SenderUID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
