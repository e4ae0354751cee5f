package handlers

import (
	"context"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/VanshikaSalekar/DevBlog/internal/storage"
)

type HealthDeps struct {
	Mirror      storage.Storage
	Backend     string
	RabbitMQURL string
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func Health(deps *HealthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}
		status := "healthy"

		if _, err := deps.Mirror.Exists(ctx, "__health__"); err != nil {
			checks["mirror"] = "unhealthy"
			status = "unhealthy"
		} else {
			checks["mirror"] = "ok"
		}
		if deps.Backend != "" {
			checks["mirror_backend"] = deps.Backend
		}

		if deps.RabbitMQURL != "" {
			conn, err := amqp.Dial(deps.RabbitMQURL)
			if err != nil {
				checks["rabbitmq"] = "unhealthy"
				status = "degraded"
			} else {
				_ = conn.Close()
				checks["rabbitmq"] = "ok"
			}
		} else {
			checks["rabbitmq"] = "skipped"
		}

		code := http.StatusOK
		if status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, healthResponse{Status: status, Checks: checks})
	}
}
