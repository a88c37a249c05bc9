package ledger

import (
	"errors"
	"strings"

	"fundadmin/internal/models"

	"gorm.io/gorm"
)

type CreateFundInput struct {
	Name       string
	Currency   string
	Vintage    int
	TargetSize float64
}

// CreateFund registers a fund and makes the creator its first member.
func (s *Service) CreateFund(actorID uint, in CreateFundInput) (*models.Fund, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, validationf("fund name is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, validationf("currency must be a 3-letter ISO code")
	}

	var fund models.Fund
	err := s.transact(func(tx *gorm.DB) error {
		fund = models.Fund{
			Name:       strings.TrimSpace(in.Name),
			Currency:   currency,
			Vintage:    in.Vintage,
			TargetSize: in.TargetSize,
			IsActive:   true,
		}
		if err := tx.Create(&fund).Error; err != nil {
			return persistence("create fund", err)
		}

		member := models.FundMember{FundID: fund.ID, UserID: actorID, Role: "manager"}
		if err := tx.Create(&member).Error; err != nil {
			return persistence("create fund member", err)
		}

		return s.recordAudit(tx, actorID, models.AuditCreate, "fund", fund.ID, changeSet{
			"name":     {Old: nil, New: fund.Name},
			"currency": {Old: nil, New: fund.Currency},
		})
	})
	if err != nil {
		return nil, err
	}
	return &fund, nil
}

// AddFundMember grants another user access to the fund.
func (s *Service) AddFundMember(actorID, fundID, userID uint, role string) (*models.FundMember, error) {
	if userID == 0 {
		return nil, validationf("user is required")
	}
	if role == "" {
		role = "manager"
	}
	if role != "manager" && role != "viewer" {
		return nil, validationf("role must be manager or viewer")
	}

	var member models.FundMember
	err := s.transact(func(tx *gorm.DB) error {
		if err := s.requireFundAccess(tx, actorID, fundID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.FundMember{}).
			Where("fund_id = ? AND user_id = ?", fundID, userID).
			Count(&existing).Error; err != nil {
			return persistence("check fund member", err)
		}
		if existing > 0 {
			return validationf("user %d is already a member of fund %d", userID, fundID)
		}

		member = models.FundMember{FundID: fundID, UserID: userID, Role: role}
		if err := tx.Create(&member).Error; err != nil {
			return persistence("create fund member", err)
		}
		return s.recordAudit(tx, actorID, models.AuditCreate, "fund_member", member.ID, changeSet{
			"user_id": {Old: nil, New: userID},
			"role":    {Old: nil, New: role},
		})
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetFund returns one fund. Members only, like every other read of
// fund-scoped data.
func (s *Service) GetFund(actorID, fundID uint) (*models.Fund, error) {
	if err := s.requireFundAccess(s.db, actorID, fundID); err != nil {
		return nil, err
	}
	var fund models.Fund
	if err := s.db.First(&fund, fundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "fund", ID: fundID}
		}
		return nil, persistence("load fund", err)
	}
	return &fund, nil
}

// ListFunds returns the funds the actor is a member of.
func (s *Service) ListFunds(actorID uint) ([]models.Fund, error) {
	if actorID == 0 {
		return nil, ErrUnauthorized
	}
	var funds []models.Fund
	err := s.db.
		Joins("JOIN fund_member ON fund_member.fund_id = fund.id AND fund_member.user_id = ?", actorID).
		Order("fund.id").
		Find(&funds).Error
	if err != nil {
		return nil, persistence("list funds", err)
	}
	return funds, nil
}
