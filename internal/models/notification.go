package models

import "time"

// ActivationNotice — сообщение для очереди уведомлений об успешной
// активации подписки. Публикуется ровно один раз на транзакцию —
// только из выигравшего условного обновления маркера идемпотентности.
type ActivationNotice struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Plan      string    `json:"plan"`
	NewExpiry time.Time `json:"new_expiry"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
}

// OTPNotice — сообщение для очереди уведомлений с одноразовым кодом
// подтверждения регистрации.
type OTPNotice struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}
