package ledger

import (
	"errors"
	"fmt"
	"time"

	"fundadmin/internal/models"
	"fundadmin/pkg/money"

	"gorm.io/gorm"
)

type CreateDistributionInput struct {
	FundID           uint
	DistributionDate time.Time
	TotalAmount      float64
	ReturnOfCapital  float64
	RealizedGains    float64
	Dividends        float64
	Interest         float64
	Description      string
}

// CreateDistribution creates a distribution and pro-rata allocates it
// across active and funded commitments. Withholding tax is zero at
// creation; it is assessed per item at processing time.
func (s *Service) CreateDistribution(actorID uint, in CreateDistributionInput) (*models.Distribution, error) {
	if in.TotalAmount <= 0 {
		return nil, validationf("total amount must be positive")
	}
	if in.DistributionDate.IsZero() {
		return nil, validationf("distribution date is required")
	}

	var dist models.Distribution
	err := s.transact(func(tx *gorm.DB) error {
		if err := s.requireFundAccess(tx, actorID, in.FundID); err != nil {
			return err
		}
		if err := lockFund(tx, in.FundID); err != nil {
			return persistence("lock fund", err)
		}

		var fund models.Fund
		if err := tx.First(&fund, in.FundID).Error; err != nil {
			return persistence("load fund", err)
		}

		next, err := nextSequence(tx, &models.Distribution{}, "distribution_number", in.FundID)
		if err != nil {
			return err
		}

		dist = models.Distribution{
			FundID:             in.FundID,
			DistributionNumber: next,
			DistributionDate:   in.DistributionDate,
			TotalAmount:        in.TotalAmount,
			ReturnOfCapital:    in.ReturnOfCapital,
			RealizedGains:      in.RealizedGains,
			Dividends:          in.Dividends,
			Interest:           in.Interest,
			Description:        in.Description,
			Status:             models.DistributionDraft,
		}
		if err := tx.Create(&dist).Error; err != nil {
			return persistence("create distribution", err)
		}

		commitments, err := eligibleCommitments(tx, in.FundID, distributionEligibleStatuses)
		if err != nil {
			return err
		}

		items := allocateDistributionItems(&dist, commitments, fund.Currency)
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return persistence("create distribution items", err)
			}
			dist.Items = items
		}

		if err := s.recordAudit(tx, actorID, models.AuditCreate, "distribution", dist.ID, changeSet{
			"distribution_number": {Old: nil, New: dist.DistributionNumber},
			"total_amount":        {Old: nil, New: dist.TotalAmount},
			"status":              {Old: nil, New: dist.Status},
		}); err != nil {
			return err
		}

		return s.enqueueFundNotification(tx, in.FundID, "distribution_created",
			"New distribution",
			fmt.Sprintf("Distribution #%d for %s has been created", dist.DistributionNumber, money.Format(dist.TotalAmount, fund.Currency)),
			fmt.Sprintf("/distributions/%d", dist.ID),
			actorID)
	})
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// allocateDistributionItems mirrors allocateCallItems: gross shares
// pro-rata to commitment size, residual cent on the last item.
func allocateDistributionItems(dist *models.Distribution, commitments []models.Commitment, currency string) []models.DistributionItem {
	totalCommitted := 0.0
	for _, c := range commitments {
		totalCommitted += c.CommittedAmount
	}
	if totalCommitted <= 0 {
		return nil
	}

	items := make([]models.DistributionItem, 0, len(commitments))
	allocated := 0.0
	for i, c := range commitments {
		gross := money.Round(dist.TotalAmount*(c.CommittedAmount/totalCommitted), currency)
		if i == len(commitments)-1 {
			gross = money.Round(dist.TotalAmount-allocated, currency)
		}
		allocated += gross

		items = append(items, models.DistributionItem{
			DistributionID: dist.ID,
			CommitmentID:   c.ID,
			InvestorID:     c.InvestorID,
			GrossAmount:    gross,
			WithholdingTax: 0,
			NetAmount:      gross,
			Status:         models.DistributionItemPending,
		})
	}
	return items
}

// GetDistribution returns a distribution with its items.
func (s *Service) GetDistribution(actorID, distID uint) (*models.Distribution, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}
	var dist models.Distribution
	if err := s.db.Preload("Items").First(&dist, distID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "distribution", ID: distID}
		}
		return nil, persistence("load distribution", err)
	}
	if err := s.requireFundAccess(s.db, actorID, dist.FundID); err != nil {
		return nil, err
	}
	return &dist, nil
}

// ListDistributions returns a fund's distributions, newest first.
func (s *Service) ListDistributions(actorID, fundID uint) ([]models.Distribution, error) {
	var dists []models.Distribution
	err := s.transact(func(tx *gorm.DB) error {
		if err := s.requireFundAccess(tx, actorID, fundID); err != nil {
			return err
		}
		if err := tx.Preload("Items").Where("fund_id = ?", fundID).
			Order("distribution_number DESC").Find(&dists).Error; err != nil {
			return persistence("list distributions", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dists, nil
}

// UpdateDistributionStatus applies an explicit status transition.
// Entering APPROVED stamps the approved date; entering COMPLETED
// stamps the paid date.
func (s *Service) UpdateDistributionStatus(actorID, distID uint, next models.DistributionStatus) (*models.Distribution, error) {
	var dist models.Distribution
	err := s.transact(func(tx *gorm.DB) error {
		if err := tx.First(&dist, distID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "distribution", ID: distID}
			}
			return persistence("load distribution", err)
		}
		if err := s.requireFundAccess(tx, actorID, dist.FundID); err != nil {
			return err
		}

		prev := dist.Status
		if err := checkDistributionTransition(prev, next); err != nil {
			return err
		}

		now := time.Now()
		dist.Status = next
		switch next {
		case models.DistributionApproved:
			dist.ApprovedDate = &now
		case models.DistributionCompleted:
			dist.PaidDate = &now
		}

		if err := tx.Save(&dist).Error; err != nil {
			return persistence("update distribution", err)
		}
		if err := s.recordAudit(tx, actorID, models.AuditUpdate, "distribution", dist.ID, changeSet{
			"status": {Old: prev, New: next},
		}); err != nil {
			return err
		}
		if next == models.DistributionApproved {
			return s.enqueueFundNotification(tx, dist.FundID, "distribution_approved",
				fmt.Sprintf("Distribution #%d", dist.DistributionNumber),
				fmt.Sprintf("Distribution #%d has been approved for payment", dist.DistributionNumber),
				fmt.Sprintf("/distributions/%d", dist.ID), actorID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// ProcessDistributionItem pays out one item in full. There are no
// partial distribution payments: the item goes straight to PAID, the
// net amount posts into the commitment ledger, and the parent moves
// to PROCESSING (first payment) or COMPLETED (all paid). An optional
// withholding tax is assessed here and reduces the net amount.
func (s *Service) ProcessDistributionItem(actorID, itemID uint, withholdingTax float64) (*models.DistributionItem, error) {
	if withholdingTax < 0 {
		return nil, validationf("withholding tax cannot be negative")
	}

	var item models.DistributionItem
	err := s.transact(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "distribution item", ID: itemID}
			}
			return persistence("load distribution item", err)
		}

		var dist models.Distribution
		if err := tx.First(&dist, item.DistributionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "distribution", ID: item.DistributionID}
			}
			return persistence("load distribution", err)
		}
		if err := s.requireFundAccess(tx, actorID, dist.FundID); err != nil {
			return err
		}

		if item.Status == models.DistributionItemPaid {
			return validationf("distribution item %d is already paid", item.ID)
		}
		if dist.Status != models.DistributionApproved && dist.Status != models.DistributionProcessing {
			return validationf("distribution #%d must be approved before items are processed; it is %s",
				dist.DistributionNumber, dist.Status.Display())
		}
		if withholdingTax > item.GrossAmount+amountEpsilon {
			return validationf("withholding tax %.2f exceeds gross amount %.2f", withholdingTax, item.GrossAmount)
		}

		prevStatus := item.Status
		prevNet := item.NetAmount
		now := time.Now()
		item.WithholdingTax = withholdingTax
		item.NetAmount = item.GrossAmount - withholdingTax
		item.Status = models.DistributionItemPaid
		item.PaidDate = &now

		if err := tx.Save(&item).Error; err != nil {
			return persistence("update distribution item", err)
		}
		if err := s.recordAudit(tx, actorID, models.AuditUpdate, "distribution_item", item.ID, changeSet{
			"status":     {Old: prevStatus, New: item.Status},
			"net_amount": {Old: prevNet, New: item.NetAmount},
		}); err != nil {
			return err
		}

		if err := s.applyDistributionSettlement(tx, actorID, &item); err != nil {
			return err
		}

		return s.refreshDistributionStatus(tx, actorID, &dist)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// refreshDistributionStatus moves the parent to COMPLETED when every
// item is paid, or to PROCESSING on the first payment.
func (s *Service) refreshDistributionStatus(tx *gorm.DB, actorID uint, dist *models.Distribution) error {
	var statuses []models.DistributionItemStatus
	if err := tx.Model(&models.DistributionItem{}).
		Where("distribution_id = ?", dist.ID).
		Order("id").
		Pluck("status", &statuses).Error; err != nil {
		return persistence("load item statuses", err)
	}

	next := DeriveDistributionStatus(dist.Status, statuses)
	if next == dist.Status && dist.Status != models.DistributionApproved {
		return nil
	}
	if next == dist.Status && dist.Status == models.DistributionApproved {
		// first payment landed but not all: explicit PROCESSING
		next = models.DistributionProcessing
	}

	prev := dist.Status
	dist.Status = next
	if next == models.DistributionCompleted && dist.PaidDate == nil {
		now := time.Now()
		dist.PaidDate = &now
	}
	if err := tx.Save(dist).Error; err != nil {
		return persistence("update distribution", err)
	}
	return s.recordAudit(tx, actorID, models.AuditUpdate, "distribution", dist.ID, changeSet{
		"status": {Old: prev, New: next},
	})
}

// DeleteDistribution soft-deletes a draft distribution.
func (s *Service) DeleteDistribution(actorID, distID uint) error {
	return s.transact(func(tx *gorm.DB) error {
		var dist models.Distribution
		if err := tx.First(&dist, distID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "distribution", ID: distID}
			}
			return persistence("load distribution", err)
		}
		if err := s.requireFundAccess(tx, actorID, dist.FundID); err != nil {
			return err
		}
		if dist.Status != models.DistributionDraft {
			return validationf("only draft distributions can be deleted; distribution %d is %s", dist.ID, dist.Status.Display())
		}

		if err := tx.Delete(&dist).Error; err != nil {
			return persistence("delete distribution", err)
		}
		return s.recordAudit(tx, actorID, models.AuditDelete, "distribution", dist.ID, nil)
	})
}
