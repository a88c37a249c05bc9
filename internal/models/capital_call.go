package models

import (
	"time"

	"gorm.io/gorm"
)

type CallStatus string

const (
	CallDraft           CallStatus = "DRAFT"
	CallApproved        CallStatus = "APPROVED"
	CallSent            CallStatus = "SENT"
	CallPartiallyFunded CallStatus = "PARTIALLY_FUNDED"
	CallFullyFunded     CallStatus = "FULLY_FUNDED"
	CallCancelled       CallStatus = "CANCELLED"
)

func (s CallStatus) Display() string {
	switch s {
	case CallDraft:
		return "Draft"
	case CallApproved:
		return "Approved"
	case CallSent:
		return "Sent"
	case CallPartiallyFunded:
		return "Partially Funded"
	case CallFullyFunded:
		return "Fully Funded"
	case CallCancelled:
		return "Cancelled"
	}
	return string(s)
}

type CallItemStatus string

const (
	CallItemPending   CallItemStatus = "PENDING"
	CallItemNotified  CallItemStatus = "NOTIFIED"
	CallItemPartial   CallItemStatus = "PARTIAL"
	CallItemPaid      CallItemStatus = "PAID"
	CallItemOverdue   CallItemStatus = "OVERDUE"
	CallItemDefaulted CallItemStatus = "DEFAULTED"
)

func (s CallItemStatus) Display() string {
	switch s {
	case CallItemPending:
		return "Pending"
	case CallItemNotified:
		return "Notified"
	case CallItemPartial:
		return "Partial"
	case CallItemPaid:
		return "Paid"
	case CallItemOverdue:
		return "Overdue"
	case CallItemDefaulted:
		return "Defaulted"
	}
	return string(s)
}

// CapitalCall is one capital call event for a fund. Items are created
// atomically with the call, one per eligible commitment, and the set
// never changes afterward.
type CapitalCall struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	FundID        uint           `gorm:"not null;uniqueIndex:uq_fund_call_number" json:"fund_id"`
	CallNumber    int            `gorm:"not null;uniqueIndex:uq_fund_call_number" json:"call_number"`
	CallDate      time.Time      `gorm:"not null" json:"call_date"`
	DueDate       time.Time      `gorm:"not null" json:"due_date"`
	TotalAmount   float64        `gorm:"not null" json:"total_amount"`
	ForInvestment float64        `gorm:"default:0" json:"for_investment"`
	ForFees       float64        `gorm:"default:0" json:"for_fees"`
	ForExpenses   float64        `gorm:"default:0" json:"for_expenses"`
	Purpose       string         `gorm:"size:255" json:"purpose"`
	Status        CallStatus     `gorm:"size:20;not null;default:'DRAFT'" json:"status"`
	NoticeDate    *time.Time     `json:"notice_date,omitempty"`
	CompletedDate *time.Time     `json:"completed_date,omitempty"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CallItem `gorm:"foreignKey:CapitalCallID" json:"items,omitempty"`
}

func (CapitalCall) TableName() string {
	return "capital_call"
}

// CallItem is one investor's share of a capital call. CallAmount is
// fixed at creation; PaidAmount only grows.
type CallItem struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CapitalCallID uint           `gorm:"not null;index" json:"capital_call_id"`
	CommitmentID  uint           `gorm:"not null;index" json:"commitment_id"`
	InvestorID    uint           `gorm:"not null;index" json:"investor_id"`
	CallAmount    float64        `gorm:"not null" json:"call_amount"`
	PaidAmount    float64        `gorm:"not null;default:0" json:"paid_amount"`
	Status        CallItemStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	PaidDate      *time.Time     `json:"paid_date,omitempty"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CallItem) TableName() string {
	return "call_item"
}
