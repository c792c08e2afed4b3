package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/finlens/finlens-backend/internal/usecase/aggregator"
	"github.com/finlens/finlens-backend/internal/usecase/forecast"
)

// Routing keys for core lifecycle events.
const (
	RoutingKeyStatementRegenerated = "statement.regenerated"
	RoutingKeyProjectionGenerated  = "projection.generated"
)

const publishTimeout = 5 * time.Second

// Publisher emits core lifecycle events to a RabbitMQ topic exchange. It
// implements aggregator.EventPublisher and forecast.EventPublisher.
type Publisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

// NewPublisher connects to RabbitMQ and declares the exchange.
func NewPublisher(url, exchangeName string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}, nil
}

// StatementRegenerated publishes a statement.regenerated event.
func (p *Publisher) StatementRegenerated(ctx context.Context, event aggregator.StatementEvent) error {
	return p.publish(ctx, RoutingKeyStatementRegenerated, event)
}

// ProjectionGenerated publishes a projection.generated event.
func (p *Publisher) ProjectionGenerated(ctx context.Context, event forecast.ProjectionEvent) error {
	return p.publish(ctx, RoutingKeyProjectionGenerated, event)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
