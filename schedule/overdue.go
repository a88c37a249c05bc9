package schedule

import (
	"encoding/json"
	"time"

	"fundadmin/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SweepOverdueItems flags unpaid call items on calls past their due
// date as OVERDUE. Overdue is advisory: payments against an overdue
// item are still accepted, so the sweep never touches ledger amounts.
func SweepOverdueItems(db *gorm.DB) error {
	now := time.Now()

	var calls []models.CapitalCall
	err := db.Where("status IN ? AND due_date < ?",
		[]models.CallStatus{models.CallSent, models.CallPartiallyFunded}, now).
		Find(&calls).Error
	if err != nil {
		return err
	}

	for _, call := range calls {
		if err := sweepCallItems(db, call); err != nil {
			log.WithFields(log.Fields{
				"capital_call_id": call.ID,
				"error":           err.Error(),
			}).Error("Failed to sweep overdue items")
		}
	}
	return nil
}

func sweepCallItems(db *gorm.DB, call models.CapitalCall) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var items []models.CallItem
		err := tx.Where("capital_call_id = ? AND status IN ?", call.ID,
			[]models.CallItemStatus{models.CallItemPending, models.CallItemNotified, models.CallItemPartial}).
			Find(&items).Error
		if err != nil {
			return err
		}

		for _, item := range items {
			err := tx.Model(&models.CallItem{}).Where("id = ?", item.ID).
				Update("status", models.CallItemOverdue).Error
			if err != nil {
				return err
			}

			changes, _ := json.Marshal(map[string]map[string]interface{}{
				"status": {"old": item.Status, "new": models.CallItemOverdue},
			})
			// ActorID 0 marks a system-initiated change.
			record := models.AuditRecord{
				ActorID:    0,
				Action:     models.AuditUpdate,
				EntityType: "call_item",
				EntityID:   item.ID,
				Changes:    changes,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}

			log.WithFields(log.Fields{
				"capital_call_id": call.ID,
				"call_item_id":    item.ID,
				"prior_status":    item.Status,
			}).Info("Call item marked overdue")
		}
		return nil
	})
}
