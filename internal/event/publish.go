package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"travel-news/internal/article"
)

const ArticleCreatedEvent = "article.created"

type ArticleCreatedMessage struct {
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Article   article.Article `json:"article"`
}

type PublishingChannel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	Close() error
}

type RabbitPublisher struct {
	conn       *amqp.Connection
	ch         PublishingChannel
	exchange   string
	routingKey string
	logger     *log.Logger
}

func NewRabbitPublisher(uri, exchange, routingKey string, logger *log.Logger) (*RabbitPublisher, error) {
	if logger == nil {
		logger = log.Default()
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connection failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel creation failed: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("exchange declare failed: %w", err)
	}

	return &RabbitPublisher{
		conn:       conn,
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

func (p *RabbitPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishArticleCreated announces an article that was stored for the first time.
func (p *RabbitPublisher) PublishArticleCreated(ctx context.Context, a *article.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(ArticleCreatedMessage{
		Event:     ArticleCreatedEvent,
		Timestamp: time.Now().UTC(),
		Article:   *a,
	})
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    a.URL,
			Timestamp:    time.Now().UTC(),
			Type:         ArticleCreatedEvent,
			Body:         body,
		},
	)
	if err != nil {
		return err
	}

	p.logger.Printf("events: published %s for %s", ArticleCreatedEvent, a.URL)
	return nil
}
