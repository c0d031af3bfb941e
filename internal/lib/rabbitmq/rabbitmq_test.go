package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

func setupRabbitMQContainer(ctx context.Context, t *testing.T) (testcontainers.Container, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3-management",
		ExposedPorts: []string{"5672/tcp", "15672/tcp"},
		Env: map[string]string{
			"RABBITMQ_DEFAULT_USER":   "guest",
			"RABBITMQ_DEFAULT_PASS":   "guest",
			"RABBITMQ_DEFAULT_VHOST":  "/",
			"RABBITMQ_LOOPBACK_USERS": "",
		},
		WaitingFor: wait.ForListeningPort("5672/tcp").
			WithStartupTimeout(2 * time.Minute),
	}

	rmqContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	cleanup := func() {
		if err := rmqContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate rabbitmq container: %v", err)
		}
	}

	return rmqContainer, cleanup
}

func getAmqpURI(ctx context.Context, container testcontainers.Container) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := container.MappedPort(ctx, "5672/tcp")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("amqp://guest:guest@%s:%s/", host, port.Port()), nil
}

// Поднимает RabbitMQ (внешний по TEST_RABBITMQ_URL или testcontainers)
// и возвращает URI подключения.
func amqpURIForTest(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("integration tests disabled, set INTEGRATION_TESTS=1 to run")
	}

	if testRabbitMQURL := os.Getenv("TEST_RABBITMQ_URL"); testRabbitMQURL != "" {
		return testRabbitMQURL, func() {}
	}

	rmqContainer, cleanup := setupRabbitMQContainer(ctx, t)
	uri, err := getAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)
	return uri, cleanup
}

func TestConnectAndSetupChannel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	uri, cleanup := amqpURIForTest(ctx, t)
	defer cleanup()

	conn, err := Connect(uri, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	// Повторное объявление тех же очередей должно быть идемпотентным.
	ch2, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	require.NoError(t, ch2.Close())
}

func TestNotifierRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	uri, cleanup := amqpURIForTest(ctx, t)
	defer cleanup()

	conn, err := Connect(uri, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	var wg sync.WaitGroup
	wg.Add(1)

	var mu sync.Mutex
	var got models.OTPNotice

	handler := func(body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		if err := json.Unmarshal(body, &got); err != nil {
			return err
		}
		wg.Done()
		return nil
	}

	require.NoError(t, ConsumerMessage(ctx, ch, OTPQueue, handler))

	notifier := NewNotifier(ch)
	notice := models.OTPNotice{
		Email:     "amina@example.com",
		Username:  "aminak1",
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute).UTC(),
	}
	require.NoError(t, notifier.PublishOTP(notice))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for otp notice")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, notice.Email, got.Email)
	assert.Equal(t, notice.Code, got.Code)
}

func TestConsumerNackRequeuesOnHandlerError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	uri, cleanup := amqpURIForTest(ctx, t)
	defer cleanup()

	conn, err := Connect(uri, 3, time.Second)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()

	queueName := "nack-test"
	_, err = ch.QueueDeclare(queueName, false, false, false, false, nil)
	require.NoError(t, err)

	// Handler всегда возвращает ошибку, сообщение должно вернуться в очередь.
	handler := func(_ []byte) error {
		return fmt.Errorf("fail")
	}
	require.NoError(t, ConsumerMessage(ctx, ch, queueName, handler))

	err = ch.Publish("", queueName, false, false, amqp.Publishing{
		ContentType: "text/plain",
		Body:        []byte("bad"),
	})
	require.NoError(t, err)

	deliveries, err := ch.Consume(queueName, "test-consumer", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		assert.Equal(t, "bad", string(d.Body))
	case <-time.After(10 * time.Second):
		t.Fatal("did not receive requeued message after nack")
	}
}
