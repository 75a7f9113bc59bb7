package queue

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const DefaultExchange = "outreach.events"

// AMQPQueue publishes campaign events on a RabbitMQ topic exchange so every replica sees them.
type AMQPQueue struct {
	conn     *amqp.Connection
	mu       sync.Mutex // guards pubCh; amqp channels are not safe for concurrent publish
	pubCh    *amqp.Channel
	exchange string
}

func DialAMQP(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		DefaultExchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPQueue{conn: conn, pubCh: ch, exchange: DefaultExchange}, nil
}

func (q *AMQPQueue) Publish(topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pubCh.Publish(
		q.exchange,
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Subscribe binds an exclusive, auto-deleted queue to topic and feeds decoded CampaignEvents to handler.
func (q *AMQPQueue) Subscribe(topic string, handler func(payload any) error) error {
	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}

	dq, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(dq.Name, topic, q.exchange, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("bind queue: %w", err)
	}

	msgs, err := ch.Consume(
		dq.Name,
		"",
		false, // autoAck = false for reliability
		true,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("register consumer: %w", err)
	}

	go func() {
		for d := range msgs {
			var ev CampaignEvent
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				zap.L().Warn("dropping invalid event", zap.String("topic", topic), zap.Error(err))
				d.Ack(false)
				continue
			}
			if err := handler(ev); err != nil {
				zap.L().Warn("event handler failed", zap.String("topic", topic), zap.Error(err))
				// requeue once
				d.Nack(false, !d.Redelivered)
				continue
			}
			d.Ack(false)
		}
	}()

	return nil
}

func (q *AMQPQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pubCh.Close()
	return q.conn.Close()
}

var _ Queue = (*AMQPQueue)(nil)
