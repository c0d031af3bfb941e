// Package auth содержит логику регистрации, подтверждения кода и входа.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/lib/jwt"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/password"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// Ошибки аутентификации.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired otp")
	ErrNotVerified        = errors.New("user not verified")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	MarkUserVerified(ctx context.Context, userUID string) (int, error)
}

// OTPStore — разделяемое TTL-хранилище одноразовых кодов подтверждения.
type OTPStore interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier отправляет код подтверждения в очередь уведомлений.
type Notifier interface {
	PublishOTP(notice models.OTPNotice) error
}

// Service отвечает за регистрацию, подтверждение и выдачу JWT.
type Service struct {
	users    UserRepository
	otps     OTPStore
	notifier Notifier
	jwtMaker jwt.Maker
	otpTTL   time.Duration
	log      *slog.Logger
}

// New создает сервис аутентификации.
func New(users UserRepository, otps OTPStore, notifier Notifier, jwtMaker jwt.Maker, otpTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		otps:     otps,
		notifier: notifier,
		jwtMaker: jwtMaker,
		otpTTL:   otpTTL,
		log:      log,
	}
}

func otpKey(userUID string) string {
	return fmt.Sprintf("otp:%s", userUID)
}

// GenerateOTP возвращает шестизначный код подтверждения.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Register создает нового пользователя с хэшированием пароля и ролью "user",
// сохраняет одноразовый код с временем жизни и отправляет его на почту
// через очередь уведомлений.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user",
	}
	userUID, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	code, err := GenerateOTP()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.otps.Set(otpKey(userUID), code, s.otpTTL); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	notice := models.OTPNotice{
		Email:     email,
		Username:  username,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpTTL),
	}
	if err := s.notifier.PublishOTP(notice); err != nil {
		s.log.Error("failed to publish otp notice",
			slog.String("user_uid", userUID), sl.Err(err))
	}

	s.log.Info("registered new user", slog.String("user_uid", userUID))
	return userUID, nil
}

// VerifyOTP сверяет код подтверждения и помечает пользователя
// подтверждённым. Код одноразовый: после успешной сверки он удаляется.
func (s *Service) VerifyOTP(ctx context.Context, userUID, code string) error {
	const op = "services.auth.VerifyOTP"

	var stored string
	found, err := s.otps.Get(otpKey(userUID), &stored)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found || stored != code {
		return fmt.Errorf("%s: %w", op, ErrInvalidOTP)
	}
	if err := s.otps.Invalidate(otpKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate otp", slog.String("user_uid", userUID), sl.Err(err))
	}

	rowsAffected, err := s.users.MarkUserVerified(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrInvalidOTP)
	}
	s.log.Info("user verified", slog.String("user_uid", userUID))
	return nil
}

// Login проверяет пароль подтверждённого пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if !user.Verified {
		return "", "", fmt.Errorf("%s: %w", op, ErrNotVerified)
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает данные пользователя из claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
		UID:      claims.UserUID,
	}, nil
}
