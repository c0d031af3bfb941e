package sender

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	smtplib "github.com/magabrotheeeer/diaspora-dating/internal/lib/smtp"
	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

type fakeClient struct {
	from    string
	rcpts   []string
	body    bytes.Buffer
	quitted bool
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func (c *fakeClient) Mail(from string) error {
	c.from = from
	return nil
}

func (c *fakeClient) Rcpt(to string) error {
	c.rcpts = append(c.rcpts, to)
	return nil
}

func (c *fakeClient) Data() (io.WriteCloser, error) {
	return nopWriteCloser{&c.body}, nil
}

func (c *fakeClient) Quit() error {
	c.quitted = true
	return nil
}

func (c *fakeClient) Close() error { return nil }

type fakeTransport struct {
	client *fakeClient
}

func (t *fakeTransport) Connect() (smtplib.Client, error) {
	return t.client, nil
}

func (t *fakeTransport) GetSMTPUser() string { return "noreply@diaspora.example" }

func newTestService(client *fakeClient) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(&fakeTransport{client: client}, log)
}

func TestSendOTP(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	notice := models.OTPNotice{
		Email:     "a@b.example",
		Username:  "alice",
		Code:      "123456",
		ExpiresAt: time.Date(2026, 9, 1, 12, 5, 0, 0, time.UTC),
	}
	body, err := json.Marshal(notice)
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP(body))
	assert.Equal(t, "noreply@diaspora.example", client.from)
	assert.Equal(t, []string{"a@b.example"}, client.rcpts)
	assert.Contains(t, client.body.String(), "123456")
	assert.True(t, client.quitted)
}

func TestSendActivation(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	notice := models.ActivationNotice{
		Email:     "a@b.example",
		Username:  "alice",
		Plan:      "weekly",
		NewExpiry: time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC),
		Amount:    3000,
		Currency:  "BIF",
	}
	body, err := json.Marshal(notice)
	require.NoError(t, err)

	require.NoError(t, svc.SendActivation(body))
	assert.Contains(t, client.body.String(), "weekly")
	assert.Contains(t, client.body.String(), "3000 BIF")
}

func TestSendOTP_BadPayload(t *testing.T) {
	client := &fakeClient{}
	svc := newTestService(client)

	err := svc.SendOTP([]byte("not json"))
	assert.Error(t, err)
	assert.Empty(t, client.rcpts)
}
