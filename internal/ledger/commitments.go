package ledger

import (
	"errors"
	"time"

	"fundadmin/internal/models"

	"gorm.io/gorm"
)

// Commitment statuses eligible for pro-rata allocation. Distributions
// use the narrower set: a merely signed commitment has paid nothing
// in yet, so nothing flows back to it.
var (
	callEligibleStatuses         = []models.CommitmentStatus{models.CommitmentActive, models.CommitmentFunded, models.CommitmentSigned}
	distributionEligibleStatuses = []models.CommitmentStatus{models.CommitmentActive, models.CommitmentFunded}
)

type CreateCommitmentInput struct {
	FundID          uint
	InvestorID      uint
	CommittedAmount float64
}

// CreateCommitment onboards an investor into a fund with zero
// balances. Balances are only ever mutated by the two engines after
// this point.
func (s *Service) CreateCommitment(actorID uint, in CreateCommitmentInput) (*models.Commitment, error) {
	if in.CommittedAmount <= 0 {
		return nil, validationf("committed amount must be positive")
	}
	if in.InvestorID == 0 {
		return nil, validationf("investor is required")
	}

	var commitment models.Commitment
	err := s.transact(func(tx *gorm.DB) error {
		if err := s.requireFundAccess(tx, actorID, in.FundID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Commitment{}).
			Where("fund_id = ? AND investor_id = ?", in.FundID, in.InvestorID).
			Count(&existing).Error; err != nil {
			return persistence("check existing commitment", err)
		}
		if existing > 0 {
			return validationf("investor %d already has a commitment in fund %d", in.InvestorID, in.FundID)
		}

		commitment = models.Commitment{
			FundID:          in.FundID,
			InvestorID:      in.InvestorID,
			CommittedAmount: in.CommittedAmount,
			Status:          models.CommitmentPending,
		}
		if err := tx.Create(&commitment).Error; err != nil {
			return persistence("create commitment", err)
		}

		return s.recordAudit(tx, actorID, models.AuditCreate, "commitment", commitment.ID, changeSet{
			"committed_amount": {Old: nil, New: in.CommittedAmount},
			"status":           {Old: nil, New: commitment.Status},
		})
	})
	if err != nil {
		return nil, err
	}
	return &commitment, nil
}

// UpdateCommitmentStatus moves a commitment along its lifecycle
// (Pending → Signed → Active → Funded). Entering Signed stamps the
// signed date.
func (s *Service) UpdateCommitmentStatus(actorID, commitmentID uint, next models.CommitmentStatus) (*models.Commitment, error) {
	var commitment models.Commitment
	err := s.transact(func(tx *gorm.DB) error {
		if err := tx.First(&commitment, commitmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "commitment", ID: commitmentID}
			}
			return persistence("load commitment", err)
		}
		if err := s.requireFundAccess(tx, actorID, commitment.FundID); err != nil {
			return err
		}

		prev := commitment.Status
		if err := checkCommitmentTransition(prev, next); err != nil {
			return err
		}

		commitment.Status = next
		if next == models.CommitmentSigned && commitment.SignedDate == nil {
			now := time.Now()
			commitment.SignedDate = &now
		}
		if err := tx.Save(&commitment).Error; err != nil {
			return persistence("update commitment", err)
		}

		return s.recordAudit(tx, actorID, models.AuditUpdate, "commitment", commitment.ID, changeSet{
			"status": {Old: prev, New: next},
		})
	})
	if err != nil {
		return nil, err
	}
	return &commitment, nil
}

// DeleteCommitment soft-deletes; the row and its history survive.
func (s *Service) DeleteCommitment(actorID, commitmentID uint) error {
	return s.transact(func(tx *gorm.DB) error {
		var commitment models.Commitment
		if err := tx.First(&commitment, commitmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "commitment", ID: commitmentID}
			}
			return persistence("load commitment", err)
		}
		if err := s.requireFundAccess(tx, actorID, commitment.FundID); err != nil {
			return err
		}

		if err := tx.Delete(&commitment).Error; err != nil {
			return persistence("delete commitment", err)
		}
		return s.recordAudit(tx, actorID, models.AuditDelete, "commitment", commitment.ID, nil)
	})
}

// ListCommitments returns a fund's live commitments.
func (s *Service) ListCommitments(actorID, fundID uint) ([]models.Commitment, error) {
	var commitments []models.Commitment
	err := s.transact(func(tx *gorm.DB) error {
		if err := s.requireFundAccess(tx, actorID, fundID); err != nil {
			return err
		}
		if err := tx.Where("fund_id = ?", fundID).Order("id").Find(&commitments).Error; err != nil {
			return persistence("list commitments", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commitments, nil
}

// eligibleCommitments loads the non-deleted commitments whose status
// allows pro-rata participation.
func eligibleCommitments(tx *gorm.DB, fundID uint, statuses []models.CommitmentStatus) ([]models.Commitment, error) {
	var commitments []models.Commitment
	err := tx.Where("fund_id = ? AND status IN ?", fundID, statuses).
		Order("id").
		Find(&commitments).Error
	if err != nil {
		return nil, persistence("load eligible commitments", err)
	}
	return commitments, nil
}

// applyCallSettlement posts a call-item payment into the commitment
// ledger: paid amount always, called amount only when the item just
// completed. A missing commitment is a hard error that rolls the
// whole payment back; silently skipping it would under-count the
// ledger.
func (s *Service) applyCallSettlement(tx *gorm.DB, actorID uint, item *models.CallItem, paid float64, completed bool) error {
	var commitment models.Commitment
	if err := tx.First(&commitment, item.CommitmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "commitment", ID: item.CommitmentID}
		}
		return persistence("load commitment", err)
	}

	changes := changeSet{}

	oldPaid := commitment.PaidAmount
	commitment.PaidAmount += paid
	changes["paid_amount"] = fieldChange{Old: oldPaid, New: commitment.PaidAmount}

	if completed {
		oldCalled := commitment.CalledAmount
		newCalled := oldCalled + item.CallAmount
		if newCalled > commitment.CommittedAmount+amountEpsilon {
			return validationf("called amount %.2f would exceed committed amount %.2f for investor %d",
				newCalled, commitment.CommittedAmount, commitment.InvestorID)
		}
		commitment.CalledAmount = newCalled
		changes["called_amount"] = fieldChange{Old: oldCalled, New: newCalled}
	}

	if err := tx.Save(&commitment).Error; err != nil {
		return persistence("update commitment ledger", err)
	}
	return s.recordAudit(tx, actorID, models.AuditUpdate, "commitment", commitment.ID, changes)
}

// applyDistributionSettlement posts a paid distribution item's net
// amount into the commitment ledger.
func (s *Service) applyDistributionSettlement(tx *gorm.DB, actorID uint, item *models.DistributionItem) error {
	var commitment models.Commitment
	if err := tx.First(&commitment, item.CommitmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "commitment", ID: item.CommitmentID}
		}
		return persistence("load commitment", err)
	}

	oldDistributed := commitment.DistributedAmount
	commitment.DistributedAmount += item.NetAmount
	if err := tx.Save(&commitment).Error; err != nil {
		return persistence("update commitment ledger", err)
	}

	return s.recordAudit(tx, actorID, models.AuditUpdate, "commitment", commitment.ID, changeSet{
		"distributed_amount": {Old: oldDistributed, New: commitment.DistributedAmount},
	})
}
