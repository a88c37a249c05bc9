package ledger

import (
	"encoding/json"
	"sync"

	"fundadmin/internal/models"

	"gorm.io/gorm"
)

// fieldChange is one old→new pair in an audit record's change map.
type fieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

type changeSet map[string]fieldChange

// recordAudit appends an audit row inside the caller's transaction.
// A failure here fails the transaction: the audit trail is part of
// the system-of-record guarantee, unlike notifications.
func (s *Service) recordAudit(tx *gorm.DB, actorID uint, action models.AuditAction, entityType string, entityID uint, changes changeSet) error {
	record := models.AuditRecord{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}

	if len(changes) > 0 {
		raw, err := json.Marshal(changes)
		if err != nil {
			return persistence("marshal audit changes", err)
		}
		record.Changes = raw
	}

	if err := tx.Create(&record).Error; err != nil {
		return persistence("write audit record", err)
	}

	if s.AfterAudit != nil {
		// Deliver after commit, not now: the row may still roll back.
		sink := s.AfterAudit
		registerPostCommit(tx, func() { sink(record) })
	}
	return nil
}

// postCommit holds callbacks deferred until the outermost transaction
// commits, keyed by the transaction's ConnPool. The ConnPool is the
// one identity gorm preserves across the per-call statement clones
// inside a Transaction block, so every registration made anywhere in
// the transaction lands in the same list.
var postCommit sync.Map

type postCommitList struct {
	fns []func()
}

func registerPostCommit(tx *gorm.DB, fn func()) {
	v, _ := postCommit.LoadOrStore(tx.Statement.ConnPool, &postCommitList{})
	list := v.(*postCommitList)
	list.fns = append(list.fns, fn)
}

func flushPostCommit(tx *gorm.DB) {
	v, ok := postCommit.LoadAndDelete(tx.Statement.ConnPool)
	if !ok {
		return
	}
	for _, fn := range v.(*postCommitList).fns {
		fn()
	}
}

// discardPostCommit drops callbacks registered by a transaction that
// rolled back
func discardPostCommit(tx *gorm.DB) {
	postCommit.Delete(tx.Statement.ConnPool)
}

// ListAuditRecords returns the audit trail for one entity, newest
// first. Read-only, so no access gate beyond authentication.
func (s *Service) ListAuditRecords(actorID uint, entityType string, entityID uint) ([]models.AuditRecord, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}

	var records []models.AuditRecord
	q := s.db.Order("id DESC")
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if entityID != 0 {
		q = q.Where("entity_id = ?", entityID)
	}
	if err := q.Limit(500).Find(&records).Error; err != nil {
		return nil, persistence("list audit records", err)
	}
	return records, nil
}
