package cardpay

import "time"

// Money представляет денежную сумму в минимальных единицах валюты.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateCheckoutRequest представляет запрос на создание платёжной сессии.
type CreateCheckoutRequest struct {
	Reference   string            `json:"reference"`    // внутренняя ссылка транзакции
	Amount      Money             `json:"amount"`       // сумма к оплате
	Description string            `json:"description"`  // назначение платежа
	ReturnURL   string            `json:"return_url"`   // куда вернуть покупателя
	Metadata    map[string]string `json:"metadata,omitempty"` // user_uid, plan и др.
}

// CreateCheckoutResponse представляет ответ на создание платёжной сессии.
type CreateCheckoutResponse struct {
	ID          string    `json:"id"`           // ID платежа у провайдера
	Status      string    `json:"status"`       // статус платежа
	CheckoutURL string    `json:"checkout_url"` // страница оплаты
	Amount      Money     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// Payment представляет состояние платежа у провайдера.
type Payment struct {
	ID        string            `json:"id"`
	Reference string            `json:"reference"`
	Status    string            `json:"status"`
	Amount    Money             `json:"amount"`
	Metadata  map[string]string `json:"metadata"`
}
