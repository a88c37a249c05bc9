package schedule

import (
	"encoding/json"
	"time"

	"fundadmin/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const outboxBatchSize = 100

// DispatchOutbox fans pending outbox rows out to fund members as
// per-user notification rows and marks them SENT. It runs on a cron
// schedule as the safety net behind the immediate post-commit publish,
// so rows missed by a broker outage still get delivered.
func DispatchOutbox(db *gorm.DB) error {
	var rows []models.NotificationOutbox
	err := db.Where("status = ?", models.OutboxPending).
		Order("id asc").
		Limit(outboxBatchSize).
		Find(&rows).Error
	if err != nil {
		return err
	}

	for i := range rows {
		if err := dispatchOutboxRow(db, &rows[i]); err != nil {
			log.WithFields(log.Fields{
				"outbox_id": rows[i].ID,
				"error":     err.Error(),
			}).Error("Failed to dispatch outbox row")
		}
	}
	return nil
}

// DispatchOutboxByID dispatches one outbox row, looked up by ID. The
// worker calls this when the immediate publish path delivers a message
// ahead of the cron sweep.
func DispatchOutboxByID(db *gorm.DB, outboxID uint) error {
	var row models.NotificationOutbox
	if err := db.First(&row, outboxID).Error; err != nil {
		return err
	}
	if row.Status == models.OutboxSent {
		return nil
	}
	return dispatchOutboxRow(db, &row)
}

// NotificationMessage is the queue payload published when an outbox
// row commits.
type NotificationMessage struct {
	OutboxID uint   `json:"outbox_id"`
	FundID   uint   `json:"fund_id"`
	Type     string `json:"type"`
}

// HandleNotificationMessage is the RabbitMQ consumer callback.
func HandleNotificationMessage(db *gorm.DB, body []byte) error {
	var msg NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Error("Failed to unmarshal notification message")
		// Malformed messages are dropped, not requeued.
		return nil
	}
	return DispatchOutboxByID(db, msg.OutboxID)
}

// dispatchOutboxRow expands one outbox row into per-member
// notifications and marks it sent, atomically. Re-running on an
// already dispatched row is prevented by the in-transaction status
// recheck.
func dispatchOutboxRow(db *gorm.DB, row *models.NotificationOutbox) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var current models.NotificationOutbox
		if err := tx.First(&current, row.ID).Error; err != nil {
			return err
		}
		if current.Status == models.OutboxSent {
			return nil
		}

		var members []models.FundMember
		if err := tx.Where("fund_id = ?", current.FundID).Find(&members).Error; err != nil {
			return err
		}

		notifications := make([]models.Notification, 0, len(members))
		for _, m := range members {
			if m.UserID == current.ExcludeUserID {
				continue
			}
			notifications = append(notifications, models.Notification{
				UserID:  m.UserID,
				FundID:  current.FundID,
				Type:    current.Type,
				Title:   current.Title,
				Message: current.Message,
				Link:    current.Link,
			})
		}
		if len(notifications) > 0 {
			if err := tx.Create(&notifications).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":   models.OutboxSent,
			"attempts": current.Attempts + 1,
			"sent_at":  &now,
		}
		if err := tx.Model(&models.NotificationOutbox{}).Where("id = ?", current.ID).Updates(updates).Error; err != nil {
			return err
		}

		log.WithFields(log.Fields{
			"outbox_id":  current.ID,
			"fund_id":    current.FundID,
			"type":       current.Type,
			"recipients": len(notifications),
		}).Info("Dispatched notification")
		return nil
	})
}
