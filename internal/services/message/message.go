// Package message реализует переписку внутри пары.
package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/entitlement"
)

// Ошибки переписки.
var (
	ErrNotInMatch   = errors.New("user is not a participant of the match")
	ErrNotPermitted = errors.New("messaging not permitted")
)

// Repository описывает операции хранилища для сообщений.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetMatch(ctx context.Context, matchID int64) (*models.Match, error)
	CreateMessage(ctx context.Context, matchID int64, senderUID, body string) (int64, error)
	ListMessages(ctx context.Context, matchID int64, limit, offset int) ([]*models.Message, error)
}

// Service — бизнес-логика переписки.
type Service struct {
	repo        Repository
	entitlement *entitlement.Service
	log         *slog.Logger
}

// New создает сервис переписки.
func New(repo Repository, ent *entitlement.Service, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		entitlement: ent,
		log:         log,
	}
}

func participant(m *models.Match, userUID string) bool {
	return m.FirstUID == userUID || m.SecondUID == userUID
}

// Send отправляет сообщение внутри пары. Писать могут только участники
// пары, и только когда действует premium или "счастливый час".
func (s *Service) Send(ctx context.Context, matchID int64, senderUID, body string, now time.Time) (int64, error) {
	const op = "services.message.Send"

	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !participant(match, senderUID) {
		return 0, fmt.Errorf("%s: %w", op, ErrNotInMatch)
	}

	sender, err := s.repo.GetUser(ctx, senderUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !s.entitlement.CanMessage(sender, now) {
		return 0, fmt.Errorf("%s: %w", op, ErrNotPermitted)
	}

	messageID, err := s.repo.CreateMessage(ctx, matchID, senderUID, body)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("message sent",
		slog.Int64("match_id", matchID),
		slog.String("sender_uid", senderUID))
	return messageID, nil
}

// List возвращает сообщения пары. Читать переписку могут только её
// участники, без ограничения по окнам доступа.
func (s *Service) List(ctx context.Context, matchID int64, userUID string, limit, offset int) ([]*models.Message, error) {
	const op = "services.message.List"

	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !participant(match, userUID) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotInMatch)
	}
	return s.repo.ListMessages(ctx, matchID, limit, offset)
}
