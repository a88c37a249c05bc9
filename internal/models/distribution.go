package models

import (
	"time"

	"gorm.io/gorm"
)

type DistributionStatus string

const (
	DistributionDraft      DistributionStatus = "DRAFT"
	DistributionApproved   DistributionStatus = "APPROVED"
	DistributionProcessing DistributionStatus = "PROCESSING"
	DistributionCompleted  DistributionStatus = "COMPLETED"
	DistributionCancelled  DistributionStatus = "CANCELLED"
)

func (s DistributionStatus) Display() string {
	switch s {
	case DistributionDraft:
		return "Draft"
	case DistributionApproved:
		return "Approved"
	case DistributionProcessing:
		return "Processing"
	case DistributionCompleted:
		return "Completed"
	case DistributionCancelled:
		return "Cancelled"
	}
	return string(s)
}

type DistributionItemStatus string

const (
	DistributionItemPending    DistributionItemStatus = "PENDING"
	DistributionItemProcessing DistributionItemStatus = "PROCESSING"
	DistributionItemPaid       DistributionItemStatus = "PAID"
	DistributionItemFailed     DistributionItemStatus = "FAILED"
)

func (s DistributionItemStatus) Display() string {
	switch s {
	case DistributionItemPending:
		return "Pending"
	case DistributionItemProcessing:
		return "Processing"
	case DistributionItemPaid:
		return "Paid"
	case DistributionItemFailed:
		return "Failed"
	}
	return string(s)
}

// Distribution is one return of capital/profit to a fund's investors,
// structurally the mirror of CapitalCall.
type Distribution struct {
	ID                 uint               `gorm:"primarykey" json:"id"`
	FundID             uint               `gorm:"not null;uniqueIndex:uq_fund_distribution_number" json:"fund_id"`
	DistributionNumber int                `gorm:"not null;uniqueIndex:uq_fund_distribution_number" json:"distribution_number"`
	DistributionDate   time.Time          `gorm:"not null" json:"distribution_date"`
	TotalAmount        float64            `gorm:"not null" json:"total_amount"`
	ReturnOfCapital    float64            `gorm:"default:0" json:"return_of_capital"`
	RealizedGains      float64            `gorm:"default:0" json:"realized_gains"`
	Dividends          float64            `gorm:"default:0" json:"dividends"`
	Interest           float64            `gorm:"default:0" json:"interest"`
	Description        string             `gorm:"size:255" json:"description"`
	Status             DistributionStatus `gorm:"size:20;not null;default:'DRAFT'" json:"status"`
	ApprovedDate       *time.Time         `json:"approved_date,omitempty"`
	PaidDate           *time.Time         `json:"paid_date,omitempty"`
	CreatedAt          time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`

	Items []DistributionItem `gorm:"foreignKey:DistributionID" json:"items,omitempty"`
}

func (Distribution) TableName() string {
	return "distribution"
}

// DistributionItem is one investor's share of a distribution.
// NetAmount = GrossAmount - WithholdingTax.
type DistributionItem struct {
	ID             uint                   `gorm:"primarykey" json:"id"`
	DistributionID uint                   `gorm:"not null;index" json:"distribution_id"`
	CommitmentID   uint                   `gorm:"not null;index" json:"commitment_id"`
	InvestorID     uint                   `gorm:"not null;index" json:"investor_id"`
	GrossAmount    float64                `gorm:"not null" json:"gross_amount"`
	WithholdingTax float64                `gorm:"not null;default:0" json:"withholding_tax"`
	NetAmount      float64                `gorm:"not null" json:"net_amount"`
	Status         DistributionItemStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	PaidDate       *time.Time             `json:"paid_date,omitempty"`
	CreatedAt      time.Time              `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time              `json:"updated_at" gorm:"autoUpdateTime"`
}

func (DistributionItem) TableName() string {
	return "distribution_item"
}
