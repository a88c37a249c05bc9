package ledger

import (
	"errors"

	"fundadmin/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service is the capital operations core: it owns every mutation of
// calls, distributions and commitment balances. Each exported
// operation takes an explicit actor id, runs as one gorm transaction
// and writes its own audit records.
type Service struct {
	db        *gorm.DB
	log       *logrus.Logger
	publisher QueuePublisher

	// AfterAudit, when set, is invoked once per audit record after the
	// surrounding transaction commits. Used to feed the live audit
	// stream; failures there cannot affect the ledger.
	AfterAudit func(models.AuditRecord)
}

// amountEpsilon absorbs float drift when comparing monetary amounts.
const amountEpsilon = 0.005

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{db: db, log: log}
}

// transact wraps one logical operation in a database transaction and
// runs any deferred callbacks (audit sink, notification publish) only
// after the commit succeeds.
func (s *Service) transact(fn func(tx *gorm.DB) error) error {
	var inner *gorm.DB
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inner = tx
		return fn(tx)
	})
	if err != nil {
		if inner != nil {
			discardPostCommit(inner)
		}
		return err
	}
	if inner != nil {
		flushPostCommit(inner)
	}
	return nil
}

// requireFundAccess is called first in every mutating operation,
// before any read of financial data.
func (s *Service) requireFundAccess(tx *gorm.DB, actorID, fundID uint) error {
	if actorID == 0 {
		return ErrUnauthorized
	}

	var fund models.Fund
	if err := tx.First(&fund, fundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "fund", ID: fundID}
		}
		return persistence("load fund", err)
	}

	var count int64
	err := tx.Model(&models.FundMember{}).
		Where("fund_id = ? AND user_id = ?", fundID, actorID).
		Count(&count).Error
	if err != nil {
		return persistence("check fund membership", err)
	}
	if count == 0 {
		return &AccessDeniedError{ActorID: actorID, FundID: fundID}
	}
	return nil
}

// nextSequence assigns the next per-fund document number. Unscoped so
// a soft-deleted draft never frees its number for reuse; the caller
// holds the fund row lock, and the composite unique index catches
// anything that slips through.
func nextSequence(tx *gorm.DB, model interface{}, column string, fundID uint) (int, error) {
	var current int
	err := tx.Unscoped().Model(model).
		Where("fund_id = ?", fundID).
		Select("COALESCE(MAX(" + column + "), 0)").
		Scan(&current).Error
	if err != nil {
		return 0, persistence("read max "+column, err)
	}
	return current + 1, nil
}

// lockFund takes a row lock on the fund for the duration of the
// transaction, serializing per-fund sequence assignment. SQLite has a
// single writer and no FOR UPDATE, so the clause is postgres-only;
// the composite unique index on (fund_id, number) is the backstop.
func lockFund(tx *gorm.DB, fundID uint) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	var fund models.Fund
	return tx.Raw("SELECT id FROM fund WHERE id = ? FOR UPDATE", fundID).Scan(&fund).Error
}
