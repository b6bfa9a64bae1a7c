package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/thehungrydrop/hungrydrop/internal/models"
)

const (
	exchange         = "hungrydrop.orders"
	keyOrderPlaced   = "order.placed"
	keyStatusChanged = "order.status"
)

// AMQPPublisher emits order events on a durable fanout exchange. Admin
// console instances bind their own queues to it.
type AMQPPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the orders exchange.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

type orderPlacedEvent struct {
	OrderID   string    `json:"orderId"`
	OrderType string    `json:"orderType"`
	Total     float64   `json:"total"`
	ItemCount int       `json:"itemCount"`
	PlacedAt  time.Time `json:"placedAt"`
}

type statusChangedEvent struct {
	OrderID   string    `json:"orderId"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changedAt"`
}

// OrderPlaced publishes a persistent order-placed event.
func (p *AMQPPublisher) OrderPlaced(ctx context.Context, order models.Order) error {
	return p.publish(ctx, keyOrderPlaced, orderPlacedEvent{
		OrderID:   order.ID,
		OrderType: order.OrderType,
		Total:     order.Total,
		ItemCount: len(order.Items),
		PlacedAt:  order.OrderDate,
	})
}

// OrderStatusChanged publishes a persistent status-change event.
func (p *AMQPPublisher) OrderStatusChanged(ctx context.Context, orderID, status string) error {
	return p.publish(ctx, keyStatusChanged, statusChangedEvent{
		OrderID:   orderID,
		Status:    status,
		ChangedAt: time.Now().UTC(),
	})
}

func (p *AMQPPublisher) publish(ctx context.Context, key string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", key, err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
