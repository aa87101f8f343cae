package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPaymentEvents = "payment_events"
)

// 事件类型常量
const (
	EventSubmitted = "submitted"
	EventVerified  = "verified"
	EventRejected  = "rejected"
)

// PaymentEventMessage 支付事件，推送到后台对账页的实时列表
type PaymentEventMessage struct {
	Type      string  `json:"type"`
	Event     string  `json:"event"`
	PaymentID int64   `json:"payment_id"`
	UserEmail string  `json:"user_email"`
	Chain     string  `json:"chain"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishPaymentEvent 发布支付事件
func (p *Publisher) PublishPaymentEvent(ctx context.Context, msg *PaymentEventMessage) error {
	msg.Type = "payment_event"

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	return p.client.Publish(ctx, ChannelPaymentEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅支付事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*PaymentEventMessage)) error {
	pubsub := s.client.Subscribe(ctx, ChannelPaymentEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var eventMsg PaymentEventMessage
			if err := json.Unmarshal([]byte(msg.Payload), &eventMsg); err != nil {
				continue // 忽略解析错误
			}

			handler(&eventMsg)
		}
	}
}
