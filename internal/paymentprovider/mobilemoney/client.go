// Package mobilemoney реализует клиента провайдера мобильных денег.
package mobilemoney

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/config"
)

// Client — HTTP клиент API провайдера. Аутентификация ключом подписки
// в заголовке запроса.
type Client struct {
	subscriptionKey string
	apiURL          string
	httpClient      *http.Client
}

// NewClient создаёт клиента провайдера мобильных денег.
func NewClient(cfg config.MobileMoney) *Client {
	return &Client{
		subscriptionKey: cfg.SubscriptionKey,
		apiURL:          cfg.APIURL,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// RequestToPay инициирует списание с кошелька плательщика. Подтверждение
// придёт асинхронно на callback-адрес сервиса.
func (c *Client) RequestToPay(ctx context.Context, reqParams RequestToPayRequest) (*RequestToPayResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/requesttopay", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var payResp RequestToPayResponse
	if err := json.NewDecoder(resp.Body).Decode(&payResp); err != nil {
		return nil, err
	}
	return &payResp, nil
}

// GetTransactionStatus возвращает состояние операции у провайдера.
func (c *Client) GetTransactionStatus(ctx context.Context, transactionID string) (*TransactionStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/requesttopay/"+transactionID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var status TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}
	return &status, nil
}
