// Package queue_publisher provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned to allow callers to ignore failures without
// interrupting the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/wardrobe-designer/internal/queue"
)

// Publisher sends export events to the broker at URL.  A connection is
// opened per event; exports are rare compared to edits.
type Publisher struct {
	URL string
}

// New returns a Publisher for the broker at url.
func New(url string) *Publisher { return &Publisher{URL: url} }

// PublishDesignExported publishes event to the "design.exported" queue as a
// persistent message.  Any error is logged and returned so the caller can
// choose to ignore it.
func (p *Publisher) PublishDesignExported(ctx context.Context, event q.DesignExportedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.ExportQueueName, // name
		true,              // durable
		false,             // autoDelete
		false,             // exclusive
		false,             // noWait
		nil,               // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    event.ConfigurationID + "@" + event.SavedAt,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ExportQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
