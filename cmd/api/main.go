package main

import (
	"log"
	"os"

	"fundadmin/internal/handlers"
	"fundadmin/internal/ledger"
	"fundadmin/internal/routes"
	"fundadmin/pkg/config"

	logrus "github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()
	config.ExecuteMigrations()

	svc := ledger.NewService(config.DB, logrus.StandardLogger())

	// Initialize RabbitMQ (optional, notifications fall back to the
	// worker's cron sweep when it is not configured)
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()

		publisher, err := config.NewPublisher()
		if err != nil {
			log.Fatal("Failed to create publisher:", err)
		}
		defer publisher.Close()
		svc.SetPublisher(publisher)
		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, skipping initialization")
	}

	handlers.Init(svc)

	// Set up router
	r := routes.SetupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
