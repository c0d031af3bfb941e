// Package cardpay реализует клиента карточного платёжного провайдера.
package cardpay

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/magabrotheeeer/diaspora-dating/internal/config"
)

// Client — HTTP клиент API провайдера. Аутентификация по схеме Basic:
// идентификатор магазина и секретный ключ.
type Client struct {
	shopID     string
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиента провайдера карточной оплаты.
func NewClient(cfg config.CardPay) *Client {
	return &Client{
		shopID:     cfg.ShopID,
		secretKey:  cfg.SecretKey,
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
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
	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateCheckout создаёт платёжную сессию и возвращает ссылку на оплату.
func (c *Client) CreateCheckout(ctx context.Context, reqParams CreateCheckoutRequest) (*CreateCheckoutResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/checkouts", reqParams)
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

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var checkoutResp CreateCheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&checkoutResp); err != nil {
		return nil, err
	}
	return &checkoutResp, nil
}

// GetPayment возвращает состояние платежа у провайдера.
func (c *Client) GetPayment(ctx context.Context, providerRef string) (*Payment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/payments/"+providerRef, nil)
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

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, err
	}
	return &payment, nil
}
