package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// JoinedEvent is published once per successful signup.
type JoinedEvent struct {
	EventID       string `json:"event_id"`
	WalletAddress string `json:"wallet_address"`
	Handle        string `json:"x_username"`
	DisplayName   string `json:"name,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitPublisher publishes JoinedEvents to a direct exchange.
type RabbitPublisher struct {
	conn       *amqp.Connection
	channel    Channel
	exchange   string
	routingKey string
}

// NewRabbitPublisher dials amqpURL and declares a durable direct exchange.
func NewRabbitPublisher(amqpURL, exchange, routingKey string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "direct", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	p := NewPublisher(ch, exchange, routingKey)
	p.conn = conn
	return p, nil
}

// NewPublisher wraps an already open channel.
func NewPublisher(ch Channel, exchange, routingKey string) *RabbitPublisher {
	return &RabbitPublisher{
		channel:    ch,
		exchange:   exchange,
		routingKey: routingKey,
	}
}

// PublishJoined sends a persistent JSON JoinedEvent for rec.
func (p *RabbitPublisher) PublishJoined(ctx context.Context, rec model.WhitelistRecord) error {
	body, err := json.Marshal(JoinedEvent{
		EventID:       uuid.NewString(),
		WalletAddress: rec.WalletAddress,
		Handle:        rec.Handle,
		DisplayName:   rec.DisplayName,
		Timestamp:     rec.Timestamp,
	})
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		p.exchange,
		p.routingKey,
		false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		},
	)
}

// Close closes the channel and, when owned, the connection.
func (p *RabbitPublisher) Close() error {
	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Nop discards events; used when no broker is configured.
type Nop struct{}

func (Nop) PublishJoined(context.Context, model.WhitelistRecord) error { return nil }
