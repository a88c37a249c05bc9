package ledger

import (
	"fundadmin/internal/models"

	"gorm.io/gorm"
)

// QueuePublisher publishes a JSON-serializable message to a named
// queue. pkg/config.Publisher satisfies this; tests use a fake.
type QueuePublisher interface {
	Publish(queueName string, message interface{}) error
}

// NotificationQueue is the queue outbox messages are published to.
const NotificationQueue = "fund_notifications"

// SetPublisher attaches a best-effort queue publisher. When set, a
// freshly committed outbox row is pushed immediately; on failure it
// simply stays PENDING for the worker to retry.
func (s *Service) SetPublisher(p QueuePublisher) {
	s.publisher = p
}

// enqueueFundNotification writes the outbox row inside the caller's
// transaction so the notification exists iff the financial change
// committed. Actual delivery happens post-commit and is never allowed
// to fail the operation.
func (s *Service) enqueueFundNotification(tx *gorm.DB, fundID uint, nType, title, message, link string, excludeUserID uint) error {
	row := models.NotificationOutbox{
		FundID:        fundID,
		Type:          nType,
		Title:         title,
		Message:       message,
		Link:          link,
		ExcludeUserID: excludeUserID,
	}
	if err := tx.Create(&row).Error; err != nil {
		return persistence("enqueue notification", err)
	}

	if s.publisher != nil {
		pub := s.publisher
		id := row.ID
		registerPostCommit(tx, func() {
			if err := pub.Publish(NotificationQueue, map[string]interface{}{
				"outbox_id": id,
				"fund_id":   fundID,
				"type":      nType,
			}); err != nil {
				s.log.Warnf("Failed to publish notification %d, leaving for worker retry: %v", id, err)
			}
		})
	}
	return nil
}
