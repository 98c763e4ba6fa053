package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Pinger é implementado pelos KV stores.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionState é implementado por *amqp091.Connection.
type ConnectionState interface {
	IsClosed() bool
}

type HealthHandler struct {
	Store     Pinger
	RabbitMQ  ConnectionState
	Sheets    bool
	StartTime time.Time
	Now       func() time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    string            `json:"timestamp"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store Pinger, rabbitMQ ConnectionState, sheetsConfigured bool) *HealthHandler {
	return &HealthHandler{
		Store:     store,
		RabbitMQ:  rabbitMQ,
		Sheets:    sheetsConfigured,
		StartTime: time.Now(),
		Now:       time.Now,
	}
}

// Handle (GET /health): 503 só quando o store falha, o resto é informativo.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)
	status := "ok"

	// Check Store
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.Store.Ping(ctx)
		cancel()
		if err != nil {
			deps["store"] = fmt.Sprintf("unhealthy: %v", err)
			status = "degraded"
		} else {
			deps["store"] = "healthy"
		}
	} else {
		deps["store"] = "not configured"
	}

	// Check RabbitMQ
	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.Sheets {
		deps["google_sheets"] = "configured"
	} else {
		deps["google_sheets"] = "not configured"
	}

	now := h.Now()
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Timestamp:    now.UTC().Format(time.RFC3339Nano),
		Uptime:       now.Sub(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}
