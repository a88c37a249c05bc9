package models

import (
	"time"
)

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
)

// NotificationOutbox is written inside the same transaction as the
// financial change that triggered it. The worker dispatches pending
// rows to RabbitMQ and fans them out to fund members, so a delivery
// failure can never roll back the ledger write that produced it.
type NotificationOutbox struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	FundID        uint         `gorm:"not null;index" json:"fund_id"`
	Type          string       `gorm:"size:40;not null" json:"type"`
	Title         string       `gorm:"size:128;not null" json:"title"`
	Message       string       `gorm:"size:512" json:"message"`
	Link          string       `gorm:"size:255" json:"link"`
	ExcludeUserID uint         `json:"exclude_user_id"`
	Status        OutboxStatus `gorm:"size:10;not null;default:'PENDING';index" json:"status"`
	Attempts      int          `gorm:"default:0" json:"attempts"`
	SentAt        *time.Time   `json:"sent_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime"`
}

func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}

// Notification is the per-member row the worker writes when it
// dispatches an outbox entry.
type Notification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	FundID    uint      `gorm:"not null" json:"fund_id"`
	Type      string    `gorm:"size:40;not null" json:"type"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Message   string    `gorm:"size:512" json:"message"`
	Link      string    `gorm:"size:255" json:"link"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notification"
}
