package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"fundadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Fund{},
		&models.FundMember{},
		&models.CapitalCall{},
		&models.CallItem{},
		&models.AuditRecord{},
		&models.NotificationOutbox{},
		&models.Notification{},
	))
	return db
}

func TestDispatchOutbox(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Create(&models.Fund{Name: "Fund I", Currency: "USD", IsActive: true}).Error)
	members := []models.FundMember{
		{FundID: 1, UserID: 1, Role: "manager"},
		{FundID: 1, UserID: 2, Role: "viewer"},
		{FundID: 1, UserID: 3, Role: "viewer"},
	}
	require.NoError(t, db.Create(&members).Error)

	outbox := models.NotificationOutbox{
		FundID:        1,
		Type:          "capital_call_sent",
		Title:         "Capital Call #1",
		Message:       "Capital call issued",
		ExcludeUserID: 1,
		Status:        models.OutboxPending,
	}
	require.NoError(t, db.Create(&outbox).Error)

	require.NoError(t, DispatchOutbox(db))

	t.Run("fans out to members except the actor", func(t *testing.T) {
		var notifications []models.Notification
		require.NoError(t, db.Order("user_id").Find(&notifications).Error)
		require.Len(t, notifications, 2)
		assert.Equal(t, uint(2), notifications[0].UserID)
		assert.Equal(t, uint(3), notifications[1].UserID)
		assert.Equal(t, "Capital Call #1", notifications[0].Title)
	})

	t.Run("marks the row sent", func(t *testing.T) {
		var row models.NotificationOutbox
		require.NoError(t, db.First(&row, outbox.ID).Error)
		assert.Equal(t, models.OutboxSent, row.Status)
		assert.Equal(t, 1, row.Attempts)
		assert.NotNil(t, row.SentAt)
	})

	t.Run("redispatch is a no-op", func(t *testing.T) {
		require.NoError(t, DispatchOutbox(db))
		var count int64
		require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})
}

func TestHandleNotificationMessage(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Create(&models.Fund{Name: "Fund I", Currency: "USD", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.FundMember{FundID: 1, UserID: 2, Role: "viewer"}).Error)
	outbox := models.NotificationOutbox{FundID: 1, Type: "distribution_approved", Title: "Distribution #1", Status: models.OutboxPending}
	require.NoError(t, db.Create(&outbox).Error)

	body, err := json.Marshal(NotificationMessage{OutboxID: outbox.ID, FundID: 1, Type: "distribution_approved"})
	require.NoError(t, err)
	require.NoError(t, HandleNotificationMessage(db, body))

	var row models.NotificationOutbox
	require.NoError(t, db.First(&row, outbox.ID).Error)
	assert.Equal(t, models.OutboxSent, row.Status)

	t.Run("malformed payload is dropped without error", func(t *testing.T) {
		assert.NoError(t, HandleNotificationMessage(db, []byte("{not json")))
	})
}

func TestSweepOverdueItems(t *testing.T) {
	db := testDB(t)

	past := time.Now().Add(-48 * time.Hour)
	future := time.Now().Add(48 * time.Hour)

	overdueCall := models.CapitalCall{
		FundID: 1, CallNumber: 1, CallDate: past, DueDate: past,
		TotalAmount: 1000, Status: models.CallSent,
	}
	require.NoError(t, db.Create(&overdueCall).Error)
	currentCall := models.CapitalCall{
		FundID: 1, CallNumber: 2, CallDate: past, DueDate: future,
		TotalAmount: 1000, Status: models.CallSent,
	}
	require.NoError(t, db.Create(&currentCall).Error)

	items := []models.CallItem{
		{CapitalCallID: overdueCall.ID, CommitmentID: 1, InvestorID: 1, CallAmount: 600, Status: models.CallItemNotified},
		{CapitalCallID: overdueCall.ID, CommitmentID: 2, InvestorID: 2, CallAmount: 400, PaidAmount: 400, Status: models.CallItemPaid},
		{CapitalCallID: currentCall.ID, CommitmentID: 1, InvestorID: 1, CallAmount: 500, Status: models.CallItemNotified},
	}
	require.NoError(t, db.Create(&items).Error)

	require.NoError(t, SweepOverdueItems(db))

	t.Run("unpaid item on a past-due call flips", func(t *testing.T) {
		var item models.CallItem
		require.NoError(t, db.First(&item, items[0].ID).Error)
		assert.Equal(t, models.CallItemOverdue, item.Status)
	})

	t.Run("paid and current items are untouched", func(t *testing.T) {
		var paid, current models.CallItem
		require.NoError(t, db.First(&paid, items[1].ID).Error)
		require.NoError(t, db.First(&current, items[2].ID).Error)
		assert.Equal(t, models.CallItemPaid, paid.Status)
		assert.Equal(t, models.CallItemNotified, current.Status)
	})

	t.Run("sweep is audited as a system change", func(t *testing.T) {
		var records []models.AuditRecord
		require.NoError(t, db.Where("entity_type = ?", "call_item").Find(&records).Error)
		require.Len(t, records, 1)
		assert.EqualValues(t, 0, records[0].ActorID)
		assert.EqualValues(t, items[0].ID, records[0].EntityID)
	})
}
