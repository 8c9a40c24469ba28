package rabbitmq

import (
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	// ExchangeName is the topic exchange order events are published to.
	ExchangeName = "order_events"
	// QueueName is the durable queue bound to every order event.
	QueueName = "order_queue"
	bindingKey = "order.#"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
	log     *zap.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the order exchange, queue and binding.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Info("RabbitMQ client connected", zap.String("exchange", ExchangeName), zap.String("queue", QueueName))
	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(
		ExchangeName, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-delete
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", ExchangeName, err)
	}

	if _, err := ch.QueueDeclare(
		QueueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("failed to declare %s: %w", QueueName, err)
	}

	if err := ch.QueueBind(QueueName, bindingKey, ExchangeName, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s to %s: %w", QueueName, ExchangeName, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishOrderEvent publishes a persistent JSON event routed by its type.
func (c *Client) PublishOrderEvent(event OrderEvent) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	body, err := EncodeOrderEvent(event)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		ExchangeName, // exchange
		event.Type,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    event.ID,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	c.log.Debug("order event published", zap.String("type", event.Type), zap.String("order_id", event.OrderID))
	return nil
}

// ConsumeOrderEvents delivers every decoded event of QueueName to handler until
// the channel closes. Successful handling acks; a handler error requeues; an
// undecodable message is rejected without requeue.
func (c *Client) ConsumeOrderEvents(handler func(OrderEvent) error) (<-chan struct{}, error) {
	if c.channel == nil {
		return nil, errors.New("RabbitMQ channel is not available for consumption")
	}

	if err := c.channel.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := c.channel.Consume(
		QueueName, // queue
		"",        // consumer tag
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			c.handleDelivery(msg, handler)
		}
	}()
	return done, nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(OrderEvent) error) {
	event, err := DecodeOrderEvent(msg.Body)
	if err != nil {
		c.log.Warn("rejecting malformed order event", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
		if rejectErr := msg.Reject(false); rejectErr != nil {
			c.log.Error("failed to reject message", zap.Error(rejectErr))
		}
		return
	}

	if err := handler(event); err != nil {
		c.log.Error("failed to process order event",
			zap.Uint64("delivery_tag", msg.DeliveryTag), zap.String("order_id", event.OrderID), zap.Error(err))
		if nackErr := msg.Nack(false, true); nackErr != nil {
			c.log.Error("failed to nack message", zap.Error(nackErr))
		}
		return
	}

	if ackErr := msg.Ack(false); ackErr != nil {
		c.log.Error("failed to ack message", zap.Error(ackErr))
	}
}
