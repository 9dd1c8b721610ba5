package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/visahub/lead-intake/internal/infra/store"
)

type HealthHandler struct {
	Store     *store.MemoryLeadStore
	RabbitMQ  *amqp091.Connection
	SMTPHost  string
	StartTime time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	LeadCount    int               `json:"lead_count"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(leadStore *store.MemoryLeadStore, rabbitMQ *amqp091.Connection, smtpHost string) *HealthHandler {
	return &HealthHandler{
		Store:     leadStore,
		RabbitMQ:  rabbitMQ,
		SMTPHost:  smtpHost,
		StartTime: time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// The store is in-process; it can only be healthy or absent.
	deps["store"] = fmt.Sprintf("healthy (%d leads, volatile)", h.Store.Len())

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	if h.SMTPHost != "" {
		deps["smtp"] = "configured"
	} else {
		deps["smtp"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if strings.HasPrefix(v, "unhealthy") {
			status = "degraded"
			break
		}
	}

	uptime := time.Since(h.StartTime).Round(time.Second).String()

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       uptime,
		LeadCount:    h.Store.Len(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
