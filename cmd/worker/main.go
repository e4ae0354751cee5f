package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/VanshikaSalekar/DevBlog/internal/config"
	"github.com/VanshikaSalekar/DevBlog/internal/events"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", "error", err)
		os.Exit(1)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(events.ExchangeName, "topic", true, false, false, false, nil); err != nil {
		logger.Error("failed to declare exchange", "error", err)
		os.Exit(1)
	}

	q, err := ch.QueueDeclare(events.QueueName, true, false, false, false, nil)
	if err != nil {
		logger.Error("failed to declare queue", "error", err)
		os.Exit(1)
	}

	if err := ch.QueueBind(q.Name, events.BindingKey, events.ExchangeName, false, nil); err != nil {
		logger.Error("failed to bind queue", "error", err)
		os.Exit(1)
	}

	deliveries, err := ch.Consume(q.Name, "devblog-worker", false, false, false, false, nil)
	if err != nil {
		logger.Error("failed to start consuming", "error", err)
		os.Exit(1)
	}

	logger.Info("post event worker started", "queue", q.Name, "binding", events.BindingKey)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			logger.Info("worker shutting down")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			handleDelivery(logger, d)
		}
	}
}

func handleDelivery(logger *slog.Logger, d amqp.Delivery) {
	e, err := events.Decode(d.Body)
	if err != nil {
		logger.Error("dropping event", "routing_key", d.RoutingKey, "error", err)
		_ = d.Nack(false, false)
		return
	}

	logger.Info("post event received",
		"type", e.Type,
		"post_id", e.Payload.PostID,
		"slug", e.Payload.Slug,
		"title", e.Payload.Title,
		"author_id", e.Payload.AuthorID,
		"at", e.Timestamp,
	)

	if err := d.Ack(false); err != nil {
		logger.Error("failed to ack", "error", err)
	}
}
