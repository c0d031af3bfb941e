package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

const userColumns = `uid, email, username, password_hash, role, verified,
		      subscription_tier, subscription_status, subscription_expires,
		      daily_likes_used, last_activated_at, created_at`

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role,
			      subscription_tier, subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role,
		models.TierFree, models.SubscriptionInactive).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	var expires, lastActivated sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Verified,
		&u.SubscriptionTier, &u.SubscriptionStatus, &expires,
		&u.DailyLikesUsed, &lastActivated, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expires.Valid {
		u.SubscriptionExpires = &expires.Time
	}
	if lastActivated.Valid {
		u.LastActivatedAt = &lastActivated.Time
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	var expires, lastActivated sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Verified,
		&u.SubscriptionTier, &u.SubscriptionStatus, &expires,
		&u.DailyLikesUsed, &lastActivated, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expires.Valid {
		u.SubscriptionExpires = &expires.Time
	}
	if lastActivated.Valid {
		u.LastActivatedAt = &lastActivated.Time
	}
	return u, nil
}

// MarkUserVerified помечает пользователя как подтвердившего регистрацию.
func (s *Storage) MarkUserVerified(ctx context.Context, userUID string) (int, error) {
	const op = "storage.MarkUserVerified"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET verified = true WHERE uid = $1`
	res, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ActivateUserSubscription применяет побочные эффекты активации одной
// командой: уровень premium, статус active, новый срок действия, сброс
// дневного счётчика лайков и отметка времени активации.
func (s *Storage) ActivateUserSubscription(ctx context.Context, userUID string, newExpiry, activatedAt time.Time) (int, error) {
	const op = "storage.ActivateUserSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET subscription_tier = $1,
			      subscription_status = $2,
			      subscription_expires = $3,
			      daily_likes_used = 0,
			      last_activated_at = $4
			  WHERE uid = $5`
	res, err := s.DB.ExecContext(ctx, query,
		models.TierPremium, models.SubscriptionActive, newExpiry, activatedAt, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// GetProfile возвращает анкету пользователя.
func (s *Storage) GetProfile(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, display_name, gender, COALESCE(birth_date::text, ''), bio, country, city,
			      latitude, longitude
			  FROM users
			  WHERE uid = $1`
	p := &models.Profile{}
	// Координаты заполняются только после первого обновления анкеты.
	var lat, lon sql.NullFloat64
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&p.UserUID, &p.DisplayName, &p.Gender, &p.BirthDate, &p.Bio,
		&p.Country, &p.City, &lat, &lon); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p.Latitude = lat.Float64
	p.Longitude = lon.Float64
	return p, nil
}

// UpdateProfile обновляет анкету пользователя и возвращает количество
// изменённых строк.
func (s *Storage) UpdateProfile(ctx context.Context, userUID string, p models.Profile) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET display_name = $1, gender = $2, birth_date = $3::date, bio = $4,
			      country = $5, city = $6, latitude = $7, longitude = $8
			  WHERE uid = $9`
	res, err := s.DB.ExecContext(ctx, query,
		p.DisplayName, p.Gender, p.BirthDate, p.Bio, p.Country, p.City,
		p.Latitude, p.Longitude, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCandidateProfiles возвращает подтверждённые анкеты с координатами,
// кроме анкеты самого пользователя. Фильтр по радиусу выполняется выше,
// линейным проходом по формуле гаверсинуса.
func (s *Storage) ListCandidateProfiles(ctx context.Context, excludeUID string, limit, offset int) ([]*models.Profile, error) {
	const op = "storage.ListCandidateProfiles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, display_name, gender, COALESCE(birth_date::text, ''), bio, country, city,
			      latitude, longitude
			  FROM users
			  WHERE uid <> $1
			    AND verified = true
			    AND latitude IS NOT NULL
			    AND longitude IS NOT NULL
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, excludeUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.UserUID, &p.DisplayName, &p.Gender, &p.BirthDate, &p.Bio,
			&p.Country, &p.City, &p.Latitude, &p.Longitude); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
