package rabbitmq

// QueueConfig связывает очередь с routing key в exchange уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Имена очередей и routing key уведомлений.
const (
	ActivationQueue      = "notifications.activation"
	ActivationRoutingKey = "activation"
	OTPQueue             = "notifications.otp"
	OTPRoutingKey        = "otp"
)

// GetNotificationQueues возвращает очереди, которые обслуживает
// notification-sender: подтверждения активации подписки и OTP-коды.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ActivationQueue, RoutingKey: ActivationRoutingKey},
		{QueueName: OTPQueue, RoutingKey: OTPRoutingKey},
	}
}
