package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// CreateTransaction сохраняет новую платёжную транзакцию в статусе pending.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.PaymentTransaction) error {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payment_transactions (reference, user_uid, plan, amount,
			      currency, provider, provider_ref, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		tx.Reference, tx.UserUID, tx.Plan, tx.Amount, tx.Currency,
		tx.Provider, tx.ProviderRef, models.PaymentPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetTransactionByReference возвращает транзакцию по её ссылке.
func (s *Storage) GetTransactionByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error) {
	const op = "storage.GetTransactionByReference"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT reference, user_uid, plan, amount, currency, provider,
			      provider_ref, status, new_expiry, created_at, processed_at
			  FROM payment_transactions
			  WHERE reference = $1`
	t := &models.PaymentTransaction{}
	var newExpiry, processedAt sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, reference)
	if err := row.Scan(&t.Reference, &t.UserUID, &t.Plan, &t.Amount, &t.Currency,
		&t.Provider, &t.ProviderRef, &t.Status, &newExpiry, &t.CreatedAt, &processedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if newExpiry.Valid {
		t.NewExpiry = &newExpiry.Time
	}
	if processedAt.Valid {
		t.ProcessedAt = &processedAt.Time
	}
	return t, nil
}

// MarkTransactionProcessed переводит транзакцию в терминальный статус
// processed одним условным обновлением. Это маркер идемпотентности:
// повторная доставка того же подтверждения увидит 0 изменённых строк
// и не применит активацию второй раз. Никакого отдельного чтения перед
// записью — проверка и установка атомарны.
func (s *Storage) MarkTransactionProcessed(ctx context.Context, reference string, newExpiry, processedAt time.Time) (int, error) {
	const op = "storage.MarkTransactionProcessed"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_transactions
			  SET status = $1, new_expiry = $2, processed_at = $3
			  WHERE reference = $4 AND status <> $1`
	res, err := s.DB.ExecContext(ctx, query,
		models.PaymentProcessed, newExpiry, processedAt, reference)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// MarkTransactionFailed переводит ожидающую транзакцию в статус failed.
// Уже обработанную транзакцию пометить неуспешной нельзя.
func (s *Storage) MarkTransactionFailed(ctx context.Context, reference string) (int, error) {
	const op = "storage.MarkTransactionFailed"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_transactions
			  SET status = $1
			  WHERE reference = $2 AND status = $3`
	res, err := s.DB.ExecContext(ctx, query,
		models.PaymentFailed, reference, models.PaymentPending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetTransactionProviderRef сохраняет идентификатор платежа на стороне
// провайдера, полученный при инициации.
func (s *Storage) SetTransactionProviderRef(ctx context.Context, reference, providerRef string) error {
	const op = "storage.SetTransactionProviderRef"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_transactions
			  SET provider_ref = $1
			  WHERE reference = $2`
	_, err := s.DB.ExecContext(ctx, query, providerRef, reference)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListTransactions возвращает платежи пользователя с пагинацией.
func (s *Storage) ListTransactions(ctx context.Context, userUID string, limit, offset int) ([]*models.PaymentTransaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT reference, user_uid, plan, amount, currency, provider,
			      provider_ref, status, new_expiry, created_at, processed_at
			  FROM payment_transactions
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PaymentTransaction
	for rows.Next() {
		var t models.PaymentTransaction
		var newExpiry, processedAt sql.NullTime
		if err := rows.Scan(&t.Reference, &t.UserUID, &t.Plan, &t.Amount, &t.Currency,
			&t.Provider, &t.ProviderRef, &t.Status, &newExpiry, &t.CreatedAt, &processedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if newExpiry.Valid {
			t.NewExpiry = &newExpiry.Time
		}
		if processedAt.Valid {
			t.ProcessedAt = &processedAt.Time
		}
		result = append(result, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
