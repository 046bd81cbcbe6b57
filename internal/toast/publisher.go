package toast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/ad-tracker/youtube-clone-state/internal/config"
	"github.com/ad-tracker/youtube-clone-state/internal/metrics"
	"github.com/ad-tracker/youtube-clone-state/pkg/logger"
)

const (
	confirmTimeout    = 5 * time.Second
	defaultPubBuffer  = 256
	connectAttempts   = 3
	connectRetryDelay = time.Second
)

// ErrPublisherClosed is returned when publishing on a closed publisher.
var ErrPublisherClosed = errors.New("toast publisher is closed")

// Publisher forwards toasts to a RabbitMQ topic exchange. Deliver only
// enqueues; Run publishes with publisher confirms in the background.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	confirms <-chan amqp.Confirmation
	config   config.RabbitMQConfig
	queue    chan Toast
	mu       sync.RWMutex
}

// NewPublisher connects to RabbitMQ and declares the toast exchange.
func NewPublisher(ctx context.Context, cfg config.RabbitMQConfig) (*Publisher, error) {
	size := cfg.BufferSize
	if size <= 0 {
		size = defaultPubBuffer
	}

	p := &Publisher{
		config: cfg,
		queue:  make(chan Toast, size),
	}

	err := retry.Do(
		p.connect,
		retry.Context(ctx),
		retry.Attempts(connectAttempts),
		retry.Delay(connectRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	conn, err := amqp.Dial(p.config.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	// Enable publisher confirms
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(
		p.config.Exchange, // name
		"topic",           // type
		true,              // durable
		false,             // auto-deleted
		false,             // internal
		false,             // no-wait
		nil,               // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.conn = conn
	p.channel = ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))

	logger.Log.Info("Connected to RabbitMQ",
		zap.String("exchange", p.config.Exchange),
		zap.String("routingKey", p.config.RoutingKey),
	)

	return nil
}

// Deliver implements Sink. Toasts are dropped when the buffer is full.
func (p *Publisher) Deliver(t Toast) {
	select {
	case p.queue <- t:
	default:
		metrics.ToastsDropped.WithLabelValues("rabbitmq").Inc()
	}
}

// Run publishes queued toasts until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-p.queue:
			if err := p.Publish(ctx, t); err != nil {
				logger.Log.Warn("Failed to publish toast",
					zap.String("toastId", t.ID),
					zap.Error(err),
				)
			}
		}
	}
}

// Publish sends one toast and waits for the broker to confirm it.
func (p *Publisher) Publish(ctx context.Context, t Toast) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.channel == nil {
		return ErrPublisherClosed
	}

	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal toast: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.config.Exchange,   // exchange
		p.config.RoutingKey, // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   t.CreatedAt,
			MessageId:   t.ID,
			Type:        string(t.Level),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm, ok := <-p.confirms:
		if !ok {
			return ErrPublisherClosed
		}
		if !confirm.Ack {
			return fmt.Errorf("message was not acknowledged by broker")
		}
	case <-time.After(confirmTimeout):
		return fmt.Errorf("timeout waiting for publish confirmation")
	case <-ctx.Done():
		return ctx.Err()
	}

	logger.Log.Debug("Published toast to RabbitMQ",
		zap.String("toastId", t.ID),
		zap.String("routingKey", p.config.RoutingKey),
	)

	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
		p.channel = nil
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, err)
		}
		p.conn = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing publisher: %w", errors.Join(errs...))
	}

	logger.Log.Info("RabbitMQ publisher closed")
	return nil
}

// IsHealthy reports whether the broker connection is open.
func (p *Publisher) IsHealthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.conn != nil && !p.conn.IsClosed() && p.channel != nil
}
