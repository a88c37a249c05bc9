package ledger

import (
	"io"
	"testing"

	"fundadmin/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testActor uint = 1

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every session on the same in-memory DB
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Fund{},
		&models.FundMember{},
		&models.Commitment{},
		&models.CapitalCall{},
		&models.CallItem{},
		&models.Distribution{},
		&models.DistributionItem{},
		&models.AuditRecord{},
		&models.NotificationOutbox{},
		&models.Notification{},
	))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewService(db, log), db
}

func seedFund(t *testing.T, db *gorm.DB) models.Fund {
	t.Helper()

	fund := models.Fund{Name: "Growth Fund I", Currency: "USD", IsActive: true}
	require.NoError(t, db.Create(&fund).Error)
	require.NoError(t, db.Create(&models.FundMember{FundID: fund.ID, UserID: testActor, Role: "manager"}).Error)
	return fund
}

func seedCommitment(t *testing.T, db *gorm.DB, fundID, investorID uint, committed float64, status models.CommitmentStatus) models.Commitment {
	t.Helper()

	c := models.Commitment{
		FundID:          fundID,
		InvestorID:      investorID,
		CommittedAmount: committed,
		Status:          status,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func reloadCommitment(t *testing.T, db *gorm.DB, id uint) models.Commitment {
	t.Helper()

	var c models.Commitment
	require.NoError(t, db.First(&c, id).Error)
	return c
}

func reloadCall(t *testing.T, db *gorm.DB, id uint) models.CapitalCall {
	t.Helper()

	var call models.CapitalCall
	require.NoError(t, db.Preload("Items").First(&call, id).Error)
	return call
}

func auditCount(t *testing.T, db *gorm.DB, entityType string, entityID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&models.AuditRecord{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&n).Error)
	return n
}
