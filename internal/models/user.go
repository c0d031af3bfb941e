// Package models содержит доменные структуры приложения знакомств:
// пользователей с состоянием подписки, анкеты, лайки, пары, сообщения
// и платёжные транзакции.
package models

import "time"

// Уровни подписки пользователя. Набор уровней в исходных вариантах
// расходился (free/premium против free/premium/vip), поэтому прайс
// конфигурируем, а код завязан только на границу free/premium.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// Статусы подписки, хранящиеся в записи пользователя.
const (
	SubscriptionInactive = "inactive"
	SubscriptionActive   = "active"
)

// User — запись пользователя. Состояние подписки встроено в запись
// (отдельной сущности "подписка" нет): уровень, статус и срок действия.
// SubscriptionExpires равен nil, если пользователь никогда не платил.
// Просроченная подписка не сбрасывается фоновым процессом — истечение
// определяется лениво, сравнением SubscriptionExpires с текущим временем
// в момент проверки прав.
type User struct {
	UID                 string
	Email               string
	Username            string
	PasswordHash        string
	Role                string
	Verified            bool
	SubscriptionTier    string
	SubscriptionStatus  string
	SubscriptionExpires *time.Time
	DailyLikesUsed      int
	LastActivatedAt     *time.Time
	CreatedAt           time.Time
}

// Profile — публичная часть анкеты пользователя.
type Profile struct {
	UserUID     string  `json:"user_uid"`
	DisplayName string  `json:"display_name"`
	Gender      string  `json:"gender"`
	BirthDate   string  `json:"birth_date"` // формат 2006-01-02
	Bio         string  `json:"bio"`
	Country     string  `json:"country"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// NearbyProfile — анкета с расстоянием до искавшего пользователя.
type NearbyProfile struct {
	Profile
	DistanceKm float64 `json:"distance_km"`
}
