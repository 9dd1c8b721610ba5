package main

import (
	"net/http"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/visahub/lead-intake/internal/auth"
	"github.com/visahub/lead-intake/internal/config"
	"github.com/visahub/lead-intake/internal/entity"
	"github.com/visahub/lead-intake/internal/infra/http/handlers"
	"github.com/visahub/lead-intake/internal/infra/http/middleware"
	"github.com/visahub/lead-intake/internal/infra/mail"
	"github.com/visahub/lead-intake/internal/infra/queue"
	"github.com/visahub/lead-intake/internal/infra/store"
	"github.com/visahub/lead-intake/internal/logger"
	"github.com/visahub/lead-intake/internal/usecase"
)

func main() {
	cfg := config.Load()

	log, err := logger.New("info")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// 1. Store (in-process, volatile by design)
	leadStore := store.NewMemoryLeadStore()

	// 2. Auth
	adminUser := entity.User{
		ID:    cfg.AdminID,
		Email: cfg.AdminEmail,
		Name:  cfg.AdminName,
		Role:  entity.RoleAdmin,
	}
	verifier := auth.NewVerifier(adminUser, cfg.AdminPassword)
	codec := auth.NewTokenCodec(cfg.JWTSecret)
	guard := middleware.NewGuard(codec, cfg.CookieName)

	// 3. Notification pipeline (optional: absent broker config disables it)
	var producer usecase.QueueProducerInterface
	var rabbitMQ *queue.RabbitMQ
	if cfg.AMQPUrl != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.AMQPUrl)
		if err != nil {
			log.Fatal("cannot connect to RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()
		producer = queue.NewProducer(rabbitMQ.Ch)

		if cfg.SMTPHost != "" && cfg.NotifyEmail != "" {
			sender := mail.NewEmailSender(
				cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass,
				"no-reply@visahub.example.com", cfg.NotifyEmail,
			)
			worker := queue.NewWorker(rabbitMQ.Ch, sender, log)
			go worker.Start(queue.QueueName)
		} else {
			log.Warn("RabbitMQ configured without SMTP; lead notifications will dead-letter")
		}
	}

	// 4. UseCases
	submitUC := usecase.NewSubmitLeadUseCase(leadStore, producer, cfg.StorageBaseURL, log)
	updateUC := usecase.NewUpdateLeadStatusUseCase(leadStore)

	// 5. Handlers
	authHandler := handlers.NewAuthHandler(verifier, codec, cfg.CookieName, cfg.SessionTTL, log)
	leadHandler := handlers.NewLeadHandler(leadStore, submitUC, updateUC, cfg.CookieName, log)

	var rabbitConn *amqp091.Connection
	if rabbitMQ != nil {
		rabbitConn = rabbitMQ.Conn
	}
	healthHandler := handlers.NewHealthHandler(leadStore, rabbitConn, cfg.SMTPHost)

	// 6. Router
	router := handlers.NewRouter(authHandler, leadHandler, healthHandler, guard, log, cfg.AllowedOrigins)

	log.Info("lead-intake server listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
