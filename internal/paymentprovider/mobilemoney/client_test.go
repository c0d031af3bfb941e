package mobilemoney

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/diaspora-dating/internal/config"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(config.MobileMoney{
		SubscriptionKey: "sub-key",
		APIURL:          server.URL,
	})
	return client, server
}

func TestRequestToPay(t *testing.T) {
	var gotKey string
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/requesttopay", r.URL.Path)
		gotKey = r.Header.Get("Ocp-Apim-Subscription-Key")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(RequestToPayResponse{
			TransactionID: "momo-1",
			Status:        "pending",
		})
	}))
	defer server.Close()

	resp, err := client.RequestToPay(context.Background(), RequestToPayRequest{
		ExternalID: "tx-1",
		Amount:     500,
		Currency:   "BIF",
		Phone:      "+25779000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "momo-1", resp.TransactionID)
	assert.Equal(t, "sub-key", gotKey)
}

func TestGetTransactionStatus(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/requesttopay/momo-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(TransactionStatus{
			TransactionID: "momo-1",
			ExternalID:    "tx-1",
			Status:        "successful",
			Amount:        500,
			Currency:      "BIF",
		})
	}))
	defer server.Close()

	status, err := client.GetTransactionStatus(context.Background(), "momo-1")
	require.NoError(t, err)
	assert.Equal(t, "successful", status.Status)
	assert.Equal(t, "tx-1", status.ExternalID)
}

func TestRequestToPay_UnexpectedStatus(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := client.RequestToPay(context.Background(), RequestToPayRequest{ExternalID: "tx-1"})
	assert.Error(t, err)
}
