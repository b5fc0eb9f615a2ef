package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/growthpath/backend/internal/config"
	"github.com/growthpath/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareQueue 声明持久化的邮件队列，api 和 mail 两个进程共用
func DeclareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,  // 队列名称
		true,  // 是否持久化
		false, // 是否自动删除
		false, // 是否独占
		false, // 是否不等待
		nil,   // 额外参数
	)
}

type Publisher struct {
	ch      *amqp.Channel
	queue   string
	timeout time.Duration
}

func NewPublisher(cfg *config.Config, ch *amqp.Channel) *Publisher {
	return &Publisher{
		ch:      ch,
		queue:   cfg.RabbitMQ.Queue,
		timeout: time.Duration(cfg.RabbitMQ.PublishTimeout) * time.Second,
	}
}

func (p *Publisher) Publish(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.queue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
