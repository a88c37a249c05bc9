package models

import (
	"time"

	"gorm.io/gorm"
)

type CommitmentStatus string

const (
	CommitmentPending   CommitmentStatus = "PENDING"
	CommitmentSigned    CommitmentStatus = "SIGNED"
	CommitmentActive    CommitmentStatus = "ACTIVE"
	CommitmentFunded    CommitmentStatus = "FUNDED"
	CommitmentCancelled CommitmentStatus = "CANCELLED"
)

// Display returns the human-facing name used in UI messages.
func (s CommitmentStatus) Display() string {
	switch s {
	case CommitmentPending:
		return "Pending"
	case CommitmentSigned:
		return "Signed"
	case CommitmentActive:
		return "Active"
	case CommitmentFunded:
		return "Funded"
	case CommitmentCancelled:
		return "Cancelled"
	}
	return string(s)
}

// Commitment is one investor's pledge to one fund and the running
// ledger of how much of it has been called, paid and distributed.
// Balances are mutated only by the call and distribution engines.
type Commitment struct {
	ID                uint             `gorm:"primarykey" json:"id"`
	FundID            uint             `gorm:"not null;uniqueIndex:uq_fund_investor" json:"fund_id"`
	InvestorID        uint             `gorm:"not null;uniqueIndex:uq_fund_investor" json:"investor_id"`
	CommittedAmount   float64          `gorm:"not null;default:0" json:"committed_amount"`
	CalledAmount      float64          `gorm:"not null;default:0" json:"called_amount"`
	PaidAmount        float64          `gorm:"not null;default:0" json:"paid_amount"`
	DistributedAmount float64          `gorm:"not null;default:0" json:"distributed_amount"`
	Status            CommitmentStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	SignedDate        *time.Time       `json:"signed_date,omitempty"`
	CreatedAt         time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Commitment) TableName() string {
	return "commitment"
}
