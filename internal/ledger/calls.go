package ledger

import (
	"errors"
	"fmt"
	"time"

	"fundadmin/internal/models"
	"fundadmin/pkg/money"

	"gorm.io/gorm"
)

type CreateCallInput struct {
	FundID        uint
	CallDate      time.Time
	DueDate       time.Time
	TotalAmount   float64
	ForInvestment float64
	ForFees       float64
	ForExpenses   float64
	Purpose       string
}

// CreateCall creates a capital call and pro-rata allocates it across
// the fund's capital-eligible commitments in one transaction. With no
// eligible commitments the call is created with zero items, which is
// degenerate but valid.
func (s *Service) CreateCall(actorID uint, in CreateCallInput) (*models.CapitalCall, error) {
	if in.TotalAmount <= 0 {
		return nil, validationf("total amount must be positive")
	}
	if in.CallDate.IsZero() || in.DueDate.IsZero() {
		return nil, validationf("call date and due date are required")
	}
	if in.DueDate.Before(in.CallDate) {
		return nil, validationf("due date cannot be before call date")
	}

	var call models.CapitalCall
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

		next, err := nextSequence(tx, &models.CapitalCall{}, "call_number", in.FundID)
		if err != nil {
			return err
		}

		call = models.CapitalCall{
			FundID:        in.FundID,
			CallNumber:    next,
			CallDate:      in.CallDate,
			DueDate:       in.DueDate,
			TotalAmount:   in.TotalAmount,
			ForInvestment: in.ForInvestment,
			ForFees:       in.ForFees,
			ForExpenses:   in.ForExpenses,
			Purpose:       in.Purpose,
			Status:        models.CallDraft,
		}
		if err := tx.Create(&call).Error; err != nil {
			return persistence("create capital call", err)
		}

		commitments, err := eligibleCommitments(tx, in.FundID, callEligibleStatuses)
		if err != nil {
			return err
		}

		items := allocateCallItems(&call, commitments, fund.Currency)
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return persistence("create call items", err)
			}
			call.Items = items
		}

		if err := s.recordAudit(tx, actorID, models.AuditCreate, "capital_call", call.ID, changeSet{
			"call_number":  {Old: nil, New: call.CallNumber},
			"total_amount": {Old: nil, New: call.TotalAmount},
			"status":       {Old: nil, New: call.Status},
		}); err != nil {
			return err
		}

		return s.enqueueFundNotification(tx, in.FundID, "capital_call_created",
			"New capital call",
			fmt.Sprintf("Capital call #%d for %s has been created", call.CallNumber, money.Format(call.TotalAmount, fund.Currency)),
			fmt.Sprintf("/capital-calls/%d", call.ID),
			actorID)
	})
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// allocateCallItems splits the call total across commitments in
// proportion to committed amounts. Shares are rounded to the fund
// currency's minor units and the rounding residual lands on the last
// item so the item sum always reconciles with the call total.
func allocateCallItems(call *models.CapitalCall, commitments []models.Commitment, currency string) []models.CallItem {
	totalCommitted := 0.0
	for _, c := range commitments {
		totalCommitted += c.CommittedAmount
	}
	if totalCommitted <= 0 {
		return nil
	}

	items := make([]models.CallItem, 0, len(commitments))
	allocated := 0.0
	for i, c := range commitments {
		share := money.Round(call.TotalAmount*(c.CommittedAmount/totalCommitted), currency)
		if i == len(commitments)-1 {
			share = money.Round(call.TotalAmount-allocated, currency)
		}
		allocated += share

		items = append(items, models.CallItem{
			CapitalCallID: call.ID,
			CommitmentID:  c.ID,
			InvestorID:    c.InvestorID,
			CallAmount:    share,
			Status:        models.CallItemPending,
		})
	}
	return items
}

// GetCall returns a call with its items.
func (s *Service) GetCall(actorID, callID uint) (*models.CapitalCall, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}
	var call models.CapitalCall
	if err := s.db.Preload("Items").First(&call, callID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "capital call", ID: callID}
		}
		return nil, persistence("load capital call", err)
	}
	if err := s.requireFundAccess(s.db, actorID, call.FundID); err != nil {
		return nil, err
	}
	return &call, nil
}

// ListCalls returns a fund's calls, newest first.
func (s *Service) ListCalls(actorID, fundID uint) ([]models.CapitalCall, error) {
	var calls []models.CapitalCall
	err := s.transact(func(tx *gorm.DB) error {
		if err := s.requireFundAccess(tx, actorID, fundID); err != nil {
			return err
		}
		if err := tx.Preload("Items").Where("fund_id = ?", fundID).
			Order("call_number DESC").Find(&calls).Error; err != nil {
			return persistence("list capital calls", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return calls, nil
}

// UpdateCallStatus applies an explicit status transition. Entering
// SENT stamps the notice date and marks pending items notified;
// entering FULLY_FUNDED stamps the completed date.
func (s *Service) UpdateCallStatus(actorID, callID uint, next models.CallStatus) (*models.CapitalCall, error) {
	var call models.CapitalCall
	err := s.transact(func(tx *gorm.DB) error {
		if err := tx.First(&call, callID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "capital call", ID: callID}
			}
			return persistence("load capital call", err)
		}
		if err := s.requireFundAccess(tx, actorID, call.FundID); err != nil {
			return err
		}

		prev := call.Status
		if err := checkCallTransition(prev, next); err != nil {
			return err
		}

		now := time.Now()
		call.Status = next
		switch next {
		case models.CallSent:
			call.NoticeDate = &now
			if err := tx.Model(&models.CallItem{}).
				Where("capital_call_id = ? AND status = ?", call.ID, models.CallItemPending).
				Update("status", models.CallItemNotified).Error; err != nil {
				return persistence("notify call items", err)
			}
		case models.CallFullyFunded:
			call.CompletedDate = &now
		}

		if err := tx.Save(&call).Error; err != nil {
			return persistence("update capital call", err)
		}
		if err := s.recordAudit(tx, actorID, models.AuditUpdate, "capital_call", call.ID, changeSet{
			"status": {Old: prev, New: next},
		}); err != nil {
			return err
		}
		if next == models.CallSent {
			return s.enqueueFundNotification(tx, call.FundID, "capital_call_sent",
				fmt.Sprintf("Capital Call #%d", call.CallNumber),
				fmt.Sprintf("Notice for capital call #%d has been issued, due %s", call.CallNumber, call.DueDate.Format("2006-01-02")),
				fmt.Sprintf("/capital-calls/%d", call.ID), actorID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &call, nil
}

// RecordItemPayment applies a payment to a call item, posts it into
// the commitment ledger and re-derives the parent call's status, all
// in one transaction. Re-invoking on an already-paid item is rejected
// so amounts are never double-counted.
func (s *Service) RecordItemPayment(actorID, itemID uint, amount float64, markAsPaid bool) (*models.CallItem, error) {
	if amount < 0 {
		return nil, validationf("payment amount cannot be negative")
	}
	if amount == 0 && !markAsPaid {
		return nil, validationf("payment amount must be positive")
	}

	var item models.CallItem
	err := s.transact(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "call item", ID: itemID}
			}
			return persistence("load call item", err)
		}

		var call models.CapitalCall
		if err := tx.First(&call, item.CapitalCallID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "capital call", ID: item.CapitalCallID}
			}
			return persistence("load capital call", err)
		}
		if err := s.requireFundAccess(tx, actorID, call.FundID); err != nil {
			return err
		}

		switch item.Status {
		case models.CallItemPaid:
			return validationf("call item %d is already fully paid", item.ID)
		case models.CallItemDefaulted:
			return validationf("call item %d is defaulted; payments must be recorded on a new call", item.ID)
		}

		newPaid := item.PaidAmount + amount
		if newPaid > item.CallAmount+amountEpsilon {
			return validationf("payment of %.2f would exceed the call amount %.2f (already paid %.2f)",
				amount, item.CallAmount, item.PaidAmount)
		}

		prevStatus := item.Status
		prevPaid := item.PaidAmount
		item.PaidAmount = newPaid

		completed := markAsPaid || newPaid >= item.CallAmount-amountEpsilon
		if completed {
			item.Status = models.CallItemPaid
			now := time.Now()
			item.PaidDate = &now
		} else if newPaid > 0 {
			item.Status = models.CallItemPartial
		}

		if err := tx.Save(&item).Error; err != nil {
			return persistence("update call item", err)
		}
		if err := s.recordAudit(tx, actorID, models.AuditUpdate, "call_item", item.ID, changeSet{
			"paid_amount": {Old: prevPaid, New: item.PaidAmount},
			"status":      {Old: prevStatus, New: item.Status},
		}); err != nil {
			return err
		}

		if err := s.applyCallSettlement(tx, actorID, &item, amount, completed); err != nil {
			return err
		}

		return s.refreshCallStatus(tx, actorID, &call)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// refreshCallStatus re-derives the parent status over all items and
// persists it when changed. Funding statuses are written directly;
// the completed date is stamped on the way into FULLY_FUNDED.
func (s *Service) refreshCallStatus(tx *gorm.DB, actorID uint, call *models.CapitalCall) error {
	var statuses []models.CallItemStatus
	if err := tx.Model(&models.CallItem{}).
		Where("capital_call_id = ?", call.ID).
		Order("id").
		Pluck("status", &statuses).Error; err != nil {
		return persistence("load item statuses", err)
	}

	derived := DeriveCallStatus(call.Status, statuses)
	if derived == call.Status {
		return nil
	}

	prev := call.Status
	call.Status = derived
	if derived == models.CallFullyFunded && call.CompletedDate == nil {
		now := time.Now()
		call.CompletedDate = &now
	}
	if err := tx.Save(call).Error; err != nil {
		return persistence("update capital call", err)
	}
	return s.recordAudit(tx, actorID, models.AuditUpdate, "capital_call", call.ID, changeSet{
		"status": {Old: prev, New: derived},
	})
}

// MarkItemDefaulted records that an investor failed to meet a call.
// The unpaid remainder stays visible on the item.
func (s *Service) MarkItemDefaulted(actorID, itemID uint) (*models.CallItem, error) {
	var item models.CallItem
	err := s.transact(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "call item", ID: itemID}
			}
			return persistence("load call item", err)
		}

		var call models.CapitalCall
		if err := tx.First(&call, item.CapitalCallID).Error; err != nil {
			return persistence("load capital call", err)
		}
		if err := s.requireFundAccess(tx, actorID, call.FundID); err != nil {
			return err
		}

		if item.Status == models.CallItemPaid {
			return validationf("call item %d is fully paid and cannot default", item.ID)
		}
		if item.Status == models.CallItemDefaulted {
			return validationf("call item %d is already defaulted", item.ID)
		}

		prev := item.Status
		item.Status = models.CallItemDefaulted
		if err := tx.Save(&item).Error; err != nil {
			return persistence("update call item", err)
		}
		return s.recordAudit(tx, actorID, models.AuditUpdate, "call_item", item.ID, changeSet{
			"status": {Old: prev, New: item.Status},
		})
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteCall soft-deletes a call. Only drafts can be deleted: once a
// call is approved it is part of the financial record.
func (s *Service) DeleteCall(actorID, callID uint) error {
	return s.transact(func(tx *gorm.DB) error {
		var call models.CapitalCall
		if err := tx.First(&call, callID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "capital call", ID: callID}
			}
			return persistence("load capital call", err)
		}
		if err := s.requireFundAccess(tx, actorID, call.FundID); err != nil {
			return err
		}
		if call.Status != models.CallDraft {
			return validationf("only draft calls can be deleted; call %d is %s", call.ID, call.Status.Display())
		}

		if err := tx.Delete(&call).Error; err != nil {
			return persistence("delete capital call", err)
		}
		return s.recordAudit(tx, actorID, models.AuditDelete, "capital_call", call.ID, nil)
	})
}
