// Package profile реализует работу с анкетами и подбор ближайших анкет.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/lib/geo"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/sl"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
	"github.com/magabrotheeeer/diaspora-dating/internal/services/entitlement"
)

// Размер страницы кандидатов, вычитываемой из хранилища за один подбор.
const candidateBatchSize = 500

// Repository описывает операции хранилища для анкет.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userUID string, p models.Profile) (int, error)
	ListCandidateProfiles(ctx context.Context, excludeUID string, limit, offset int) ([]*models.Profile, error)
}

// Cache — кеш анкет.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service — бизнес-логика анкет.
type Service struct {
	repo        Repository
	cache       Cache
	entitlement *entitlement.Service
	log         *slog.Logger
}

// New создает сервис анкет.
func New(repo Repository, cache Cache, ent *entitlement.Service, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		cache:       cache,
		entitlement: ent,
		log:         log,
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("profile:%s", userUID)
}

// Get возвращает анкету пользователя, сначала пробуя кеш.
func (s *Service) Get(ctx context.Context, userUID string) (*models.Profile, error) {
	var cached models.Profile
	found, err := s.cache.Get(cacheKey(userUID), &cached)
	if err != nil {
		s.log.Warn("profile cache read failed", slog.String("user_uid", userUID), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	p, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey(userUID), p, time.Hour); err != nil {
		s.log.Warn("profile cache write failed", slog.String("user_uid", userUID), sl.Err(err))
	}
	return p, nil
}

// Update сохраняет анкету и сбрасывает её кеш.
func (s *Service) Update(ctx context.Context, userUID string, p models.Profile) (int, error) {
	rowsAffected, err := s.repo.UpdateProfile(ctx, userUID, p)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(cacheKey(userUID)); err != nil {
		s.log.Warn("profile cache invalidate failed", slog.String("user_uid", userUID), sl.Err(err))
	}
	s.log.Info("profile updated", slog.String("user_uid", userUID))
	return rowsAffected, nil
}

// Nearby возвращает анкеты в радиусе поиска пользователя, отсортированные
// по расстоянию. Радиус зависит от уровня подписки на момент запроса.
// Кандидаты фильтруются линейным проходом по формуле гаверсинуса.
func (s *Service) Nearby(ctx context.Context, userUID string, now time.Time, limit int) ([]*models.NearbyProfile, error) {
	const op = "services.profile.Nearby"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	own, err := s.repo.GetProfile(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	radius := s.entitlement.SearchRadiusKm(user, now)

	candidates, err := s.repo.ListCandidateProfiles(ctx, userUID, candidateBatchSize, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.NearbyProfile
	for _, c := range candidates {
		distance := geo.DistanceKm(own.Latitude, own.Longitude, c.Latitude, c.Longitude)
		if distance > radius {
			continue
		}
		result = append(result, &models.NearbyProfile{
			Profile:    *c,
			DistanceKm: distance,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
