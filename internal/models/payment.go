package models

import "time"

// Статусы платёжной транзакции. Терминальный статус "processed" ставится
// единственным условным UPDATE и служит маркером идемпотентности:
// повторное подтверждение той же транзакции не продлевает подписку
// и не отправляет повторное уведомление.
const (
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
	PaymentProcessed = "processed"
)

// Платёжные провайдеры.
const (
	ProviderCardPay     = "cardpay"
	ProviderMobileMoney = "mobilemoney"
)

// PaymentTransaction — запись попытки оплаты. Создаётся при инициации
// платежа, переводится в терминальный статус при подтверждении
// (синхронный опрос или webhook) и никогда не удаляется.
type PaymentTransaction struct {
	Reference   string
	UserUID     string
	Plan        string
	Amount      int64
	Currency    string
	Provider    string
	ProviderRef string
	Status      string
	NewExpiry   *time.Time
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// PaymentConfirmation — каноническое подтверждение платежа, к которому
// приводятся ответы обоих провайдеров (webhook или опрос статуса).
type PaymentConfirmation struct {
	Reference string
	Status    string
	Amount    int64
	Currency  string
}

// ActivationResult — итог активации подписки по подтверждённому платежу.
type ActivationResult struct {
	Plan             string
	NewExpiry        time.Time
	AlreadyProcessed bool
}
