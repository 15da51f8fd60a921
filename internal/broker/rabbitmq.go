package broker

import (
	"context"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/trnvdn/OmniStream/internal/metrics"
)

// Disposition решение по обработанному сообщению
type Disposition int

const (
	// Ack сообщение обработано, подтверждаем
	Ack Disposition = iota
	// Reject сообщение отклоняется без повторной доставки
	Reject
)

// Handler обрабатывает тело одного сообщения и возвращает решение ack/reject
type Handler func(ctx context.Context, body []byte) Disposition

// Connector владеет соединением и каналом RabbitMQ
type Connector struct {
	host           string
	username       string
	password       string
	queueName      string
	exchangeName   string
	reconnectDelay time.Duration

	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewConnector создает connector без установки соединения
func NewConnector(host, username, password, queue, exchange string, reconnectDelay time.Duration) *Connector {
	return &Connector{
		host:           host,
		username:       username,
		password:       password,
		queueName:      queue,
		exchangeName:   exchange,
		reconnectDelay: reconnectDelay,
	}
}

// url собирает AMQP URL подключения
func (c *Connector) url() string {
	return fmt.Sprintf("amqp://%s:%s@%s/", c.username, c.password, c.host)
}

// Connect блокируется до успешного подключения, с фиксированной задержкой
// между попытками и без ограничения их числа. Возвращает ошибку только
// при отмене контекста.
func (c *Connector) Connect(ctx context.Context) error {
	url := c.url()
	attempts := 0

	for {
		attempts++
		metrics.BrokerConnectAttempts.Inc()

		conn, err := amqp.Dial(url)
		if err == nil {
			channel, chErr := conn.Channel()
			if chErr == nil {
				c.conn = conn
				c.channel = channel
				log.Printf("Successfully connected to RabbitMQ after %d attempts", attempts)
				return c.declareTopology()
			}
			conn.Close()
			err = chErr
		}

		log.Printf("Failed to connect to RabbitMQ (attempt %d), retrying in %s: %v", attempts, c.reconnectDelay, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectDelay):
		}
	}
}

// declareTopology объявляет очередь и fanout exchange; повторное
// объявление при переподключении безопасно
func (c *Connector) declareTopology() error {
	if _, err := c.channel.QueueDeclare(c.queueName, false, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %q: %w", c.queueName, err)
	}
	if err := c.channel.ExchangeDeclare(c.exchangeName, "fanout", false, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %q: %w", c.exchangeName, err)
	}
	return nil
}

// Consume подписывается на очередь и передает сообщения handler'у по одному.
// При обрыве соединения переподключается и продолжает потребление;
// при отмене контекста дает текущему сообщению завершиться и выходит.
func (c *Connector) Consume(ctx context.Context, handler Handler) error {
	for {
		deliveries, err := c.channel.Consume(c.queueName, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("failed to start consumer: %w", err)
		}

		if done := c.drain(ctx, deliveries, handler); done {
			return nil
		}

		log.Println("RabbitMQ connection lost, reconnecting...")
		metrics.BrokerReconnects.Inc()
		c.Close()
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}
}

// drain передает доставки handler'у, пока не отменен контекст (true)
// или брокер не закрыл канал доставки (false — нужно переподключение)
func (c *Connector) drain(ctx context.Context, deliveries <-chan amqp.Delivery, handler Handler) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case d, ok := <-deliveries:
			if !ok {
				select {
				case <-ctx.Done():
					return true
				default:
				}
				return false
			}
			c.settle(d, handler(ctx, d.Body))
		}
	}
}

// settle применяет решение handler'а к доставке
func (c *Connector) settle(d amqp.Delivery, disposition Disposition) {
	switch disposition {
	case Ack:
		if err := d.Ack(false); err != nil {
			log.Printf("Failed to ack delivery %d: %v", d.DeliveryTag, err)
		}
	case Reject:
		if err := d.Nack(false, false); err != nil {
			log.Printf("Failed to reject delivery %d: %v", d.DeliveryTag, err)
		}
	}
}

// Publish отправляет тело в fanout exchange с пустым routing key
func (c *Connector) Publish(ctx context.Context, body []byte) error {
	err := c.channel.PublishWithContext(ctx, c.exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish to exchange %q: %w", c.exchangeName, err)
	}
	return nil
}

// Close закрывает канал и соединение
func (c *Connector) Close() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
