// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package queue provides a best-effort publisher for domain events on RabbitMQ.

Events published here feed out-of-process consumers (delivery workers,
analytics). Publishing is never allowed to fail the triggering request:
errors are logged and returned so callers can ignore them deliberately.
*/
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher publishes JSON events to named durable queues.
//
// A nil *Publisher is a valid no-op publisher, which keeps call sites free of
// broker-configured-or-not branching.
type Publisher struct {
	url    string
	logger *slog.Logger
}

// NewPublisher returns a publisher for the given AMQP URL, or nil when the
// URL is empty (broker not configured).
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if url == "" {
		logger.Info("amqp publisher disabled (no broker configured)")
		return nil
	}
	return &Publisher{url: url, logger: logger}
}

// Publish marshals the event and delivers it to the named queue.
//
// The queue is declared durable and messages are marked persistent so they
// survive broker restarts. A fresh connection is dialed per publish: event
// volume here is low (one per notification) and this keeps the publisher
// free of connection-recovery state.
func (publisher *Publisher) Publish(ctx context.Context, queueName string, event any) error {
	if publisher == nil {
		return nil
	}

	connection, err := amqp.Dial(publisher.url)
	if err != nil {
		publisher.logger.Warn("amqp_dial_failed", slog.Any("error", err))
		return fmt.Errorf("queue: dial failed: %w", err)
	}
	defer func() { _ = connection.Close() }()

	channel, err := connection.Channel()
	if err != nil {
		publisher.logger.Warn("amqp_channel_failed", slog.Any("error", err))
		return fmt.Errorf("queue: channel open failed: %w", err)
	}
	defer func() { _ = channel.Close() }()

	// Idempotent declare so publishers never race consumers on queue creation.
	if _, err := channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		publisher.logger.Warn("amqp_queue_declare_failed", slog.String("queue", queueName), slog.Any("error", err))
		return fmt.Errorf("queue: declare failed: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("queue: marshal event failed: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := channel.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key = queue name
		false,     // mandatory
		false,     // immediate
		publishing,
	); err != nil {
		publisher.logger.Warn("amqp_publish_failed", slog.String("queue", queueName), slog.Any("error", err))
		return fmt.Errorf("queue: publish failed: %w", err)
	}

	return nil
}
