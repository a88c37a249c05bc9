package main

import (
	"os"

	"fundadmin/internal/ledger"
	"fundadmin/pkg/config"
	"fundadmin/schedule"

	"github.com/robfig/cron/v3"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	c := cron.New(cron.WithSeconds())

	// Dispatch pending notifications every 30 seconds. This is the
	// retry path for rows whose immediate queue publish was missed.
	_, err := c.AddFunc("*/30 * * * * *", func() {
		if err := schedule.DispatchOutbox(config.DB); err != nil {
			logrus.Errorf("Outbox dispatch failed: %v", err)
		}
	})
	if err != nil {
		logrus.Fatalf("Failed to add outbox dispatch job: %v", err)
	}

	// Sweep overdue call items hourly.
	_, err = c.AddFunc("0 0 * * * *", func() {
		if err := schedule.SweepOverdueItems(config.DB); err != nil {
			logrus.Errorf("Overdue sweep failed: %v", err)
		}
	})
	if err != nil {
		logrus.Fatalf("Failed to add overdue sweep job: %v", err)
	}

	c.Start()
	logrus.Info("Worker started, cron jobs scheduled")

	// With RabbitMQ configured the worker also consumes the immediate
	// notification path; otherwise the cron sweep alone handles
	// delivery.
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer config.RabbitMQ.Close()

		msgConsumer, err := config.NewConsumer(ledger.NotificationQueue)
		if err != nil {
			logrus.Fatal("Failed to create consumer: ", err)
		}
		defer msgConsumer.Close()

		logrus.Info("Notification worker started, waiting for messages...")
		if err := msgConsumer.Consume(func(msg []byte) error {
			return schedule.HandleNotificationMessage(config.DB, msg)
		}); err != nil {
			logrus.Fatal("Consumer stopped: ", err)
		}
		return
	}

	select {}
}
