// Package subscription активирует premium-подписку по подтверждению
// оплаты от платёжного провайдера.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/pricing"
	"github.com/magabrotheeeer/diaspora-dating/internal/storage/repository"
)

// Ошибки активации. Хендлеры сопоставляют их с HTTP-статусами.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidPlan         = errors.New("invalid plan")
	ErrAmountMismatch      = errors.New("amount mismatch")
	ErrPaymentFailed       = errors.New("payment failed")
)

var activationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "subscription_activations_total",
	Help: "Number of successful subscription activations by plan.",
}, []string{"plan"})

// Repository — операции хранилища, нужные активатору.
type Repository interface {
	GetTransactionByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error)
	MarkTransactionProcessed(ctx context.Context, reference string, newExpiry, processedAt time.Time) (int, error)
	MarkTransactionFailed(ctx context.Context, reference string) (int, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ActivateUserSubscription(ctx context.Context, userUID string, newExpiry, activatedAt time.Time) (int, error)
}

// Notifier отправляет уведомление об активации в очередь.
type Notifier interface {
	PublishActivation(notice models.ActivationNotice) error
}

// Service применяет подтверждения платежей к состоянию подписки.
type Service struct {
	repo     Repository
	pricing  *pricing.Service
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт активатор подписок.
func New(repo Repository, pricingSvc *pricing.Service, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		pricing:  pricingSvc,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Activate применяет подтверждение оплаты: проверяет тариф и сумму,
// вычисляет новый срок действия и переводит пользователя на premium.
//
// Срок действия накапливается: если подписка ещё активна, новый период
// добавляется к текущему сроку, иначе отсчитывается от момента активации.
// Повторная доставка того же подтверждения ничего не меняет и не шлёт
// повторного уведомления: маркер идемпотентности — условное обновление
// статуса транзакции, оно выполняется до записи в профиль пользователя.
func (s *Service) Activate(ctx context.Context, confirmation models.PaymentConfirmation) (*models.ActivationResult, error) {
	const op = "services.subscription.Activate"

	tx, err := s.repo.GetTransactionByReference(ctx, confirmation.Reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if confirmation.Status != models.PaymentProcessed {
		if _, err := s.repo.MarkTransactionFailed(ctx, tx.Reference); err != nil {
			s.log.Error("failed to mark transaction failed",
				slog.String("reference", tx.Reference), sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentFailed)
	}

	plan, ok := s.pricing.Plan(tx.Plan)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidPlan)
	}

	if confirmation.Amount != tx.Amount || confirmation.Currency != tx.Currency {
		return nil, fmt.Errorf("%s: %w", op, ErrAmountMismatch)
	}

	user, err := s.repo.GetUser(ctx, tx.UserUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	duration := time.Duration(plan.DurationHours) * time.Hour
	base := now
	if user.SubscriptionExpires != nil && user.SubscriptionExpires.After(now) {
		base = *user.SubscriptionExpires
	}
	newExpiry := base.Add(duration)

	rowsAffected, err := s.repo.MarkTransactionProcessed(ctx, tx.Reference, newExpiry, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		// Транзакция уже была применена ранее: возвращаем сохранённый
		// срок действия, подписку не трогаем, уведомление не шлём.
		stored, err := s.repo.GetTransactionByReference(ctx, tx.Reference)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result := &models.ActivationResult{
			Plan:             tx.Plan,
			AlreadyProcessed: true,
		}
		if stored.NewExpiry != nil {
			result.NewExpiry = *stored.NewExpiry
		}
		s.log.Info("duplicate payment confirmation ignored",
			slog.String("reference", tx.Reference))
		return result, nil
	}

	if _, err := s.repo.ActivateUserSubscription(ctx, tx.UserUID, newExpiry, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	activationsTotal.WithLabelValues(tx.Plan).Inc()
	s.log.Info("subscription activated",
		slog.String("user_uid", tx.UserUID),
		slog.String("plan", tx.Plan),
		slog.Time("new_expiry", newExpiry))

	notice := models.ActivationNotice{
		Email:     user.Email,
		Username:  user.Username,
		Plan:      tx.Plan,
		NewExpiry: newExpiry,
		Amount:    tx.Amount,
		Currency:  tx.Currency,
	}
	if err := s.notifier.PublishActivation(notice); err != nil {
		s.log.Error("failed to publish activation notice",
			slog.String("reference", tx.Reference), sl.Err(err))
	}

	return &models.ActivationResult{
		Plan:      tx.Plan,
		NewExpiry: newExpiry,
	}, nil
}
