package mobilemoney

// RequestToPayRequest представляет запрос на списание с мобильного кошелька.
type RequestToPayRequest struct {
	ExternalID string `json:"external_id"` // внутренняя ссылка транзакции
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Phone      string `json:"phone"`   // номер кошелька плательщика
	Message    string `json:"message"` // текст в подтверждении на телефоне
}

// RequestToPayResponse представляет ответ на запрос списания.
type RequestToPayResponse struct {
	TransactionID string `json:"transaction_id"` // ID операции у провайдера
	Status        string `json:"status"`
}

// TransactionStatus представляет состояние операции у провайдера.
type TransactionStatus struct {
	TransactionID string `json:"transaction_id"`
	ExternalID    string `json:"external_id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Reason        string `json:"reason,omitempty"` // причина отказа
}
