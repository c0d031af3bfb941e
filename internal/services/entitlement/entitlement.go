// Package entitlement принимает решения о доступе пользователя к платным
// возможностям: свободное взаимодействие, дневной лимит лайков, радиус
// поиска.
//
// Истечение подписки учитывается лениво: решения принимаются по полю
// срока действия на момент запроса, без фоновых задач и без записи в
// хранилище.
package entitlement

import (
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/config"
	"github.com/magabrotheeeer/diaspora-dating/internal/lib/timewindow"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// Коды причин решения. Порядок проверки фиксированный: premium, затем
// "счастливый час", затем отказ.
const (
	ReasonPremium       = "premium"
	ReasonHappyHour     = "happy_hour"
	ReasonOutsideWindow = "free_tier_outside_window"
)

// UnlimitedLikes означает отсутствие дневного лимита.
const UnlimitedLikes = -1

// Decision — результат проверки доступа с кодом причины.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

// Service хранит параметры подбора из конфигурации.
type Service struct {
	matching config.Matching
}

// New создаёт сервис проверки доступа.
func New(matching config.Matching) *Service {
	return &Service{matching: matching}
}

// IsPremium сообщает, действует ли у пользователя premium-подписка на
// момент now. Подписка без срока действия считается бессрочной.
func (s *Service) IsPremium(user *models.User, now time.Time) bool {
	if user.SubscriptionTier != models.TierPremium {
		return false
	}
	if user.SubscriptionStatus != models.SubscriptionActive {
		return false
	}
	if user.SubscriptionExpires != nil && !user.SubscriptionExpires.After(now) {
		return false
	}
	return true
}

// CanInteractFreely решает, может ли пользователь взаимодействовать без
// ограничений бесплатного уровня.
func (s *Service) CanInteractFreely(user *models.User, now time.Time) Decision {
	if s.IsPremium(user, now) {
		return Decision{Allowed: true, Reason: ReasonPremium}
	}
	if timewindow.IsHappyHour(now) {
		return Decision{Allowed: true, Reason: ReasonHappyHour}
	}
	return Decision{Allowed: false, Reason: ReasonOutsideWindow}
}

// DailyLikeCap возвращает дневной лимит лайков пользователя на момент now.
// Во время действия premium или "счастливого часа" лимита нет.
func (s *Service) DailyLikeCap(user *models.User, now time.Time) int {
	if s.CanInteractFreely(user, now).Allowed {
		return UnlimitedLikes
	}
	return s.matching.FreeDailyLikes
}

// CanMessage решает, может ли пользователь отправлять сообщения.
// Для сообщений действует то же правило, что и для остальных
// взаимодействий.
func (s *Service) CanMessage(user *models.User, now time.Time) bool {
	return s.CanInteractFreely(user, now).Allowed
}

// SearchRadiusKm возвращает радиус поиска анкет в километрах.
func (s *Service) SearchRadiusKm(user *models.User, now time.Time) float64 {
	if s.IsPremium(user, now) {
		return s.matching.PremiumRadiusKm
	}
	return s.matching.FreeRadiusKm
}
