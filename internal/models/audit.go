package models

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditRecord is the append-only trail of every state-changing ledger
// operation. Rows are written inside the same transaction as the
// change they describe and are never updated or deleted.
type AuditRecord struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	ActorID    uint            `gorm:"not null;index" json:"actor_id"`
	Action     AuditAction     `gorm:"size:10;not null" json:"action"`
	EntityType string          `gorm:"size:40;not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   uint            `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Changes    json.RawMessage `gorm:"type:jsonb" json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (AuditRecord) TableName() string {
	return "audit_record"
}
