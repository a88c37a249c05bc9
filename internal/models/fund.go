package models

import (
	"time"

	"gorm.io/gorm"
)

type Fund struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Name       string         `gorm:"size:128;not null" json:"name"`
	Currency   string         `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Vintage    int            `json:"vintage"`
	TargetSize float64        `gorm:"default:0" json:"target_size"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Fund) TableName() string {
	return "fund"
}

// FundMember grants a user access to a fund. Every mutating ledger
// operation checks for a row here before touching financial data.
type FundMember struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	FundID    uint      `gorm:"not null;uniqueIndex:uq_fund_member" json:"fund_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:uq_fund_member" json:"user_id"`
	Role      string    `gorm:"size:32;not null;default:'manager'" json:"role"` // 'manager' or 'viewer'
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (FundMember) TableName() string {
	return "fund_member"
}
