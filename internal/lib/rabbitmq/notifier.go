package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/diaspora-dating/internal/models"
)

// Notifier публикует доменные уведомления в exchange "notifications".
// Один экземпляр обслуживает оба вида уведомлений: активацию подписки
// и коды подтверждения регистрации.
type Notifier struct {
	ch *amqp.Channel
}

// NewNotifier создает Notifier поверх открытого канала.
func NewNotifier(ch *amqp.Channel) *Notifier {
	return &Notifier{ch: ch}
}

// PublishActivation публикует уведомление об активации подписки.
func (n *Notifier) PublishActivation(notice models.ActivationNotice) error {
	return PublishMessage(n.ch, "notifications", ActivationRoutingKey, notice)
}

// PublishOTP публикует код подтверждения регистрации.
func (n *Notifier) PublishOTP(notice models.OTPNotice) error {
	return PublishMessage(n.ch, "notifications", OTPRoutingKey, notice)
}
