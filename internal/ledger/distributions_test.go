package ledger

import (
	"testing"
	"time"

	"fundadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func distributionInput(fundID uint, total float64) CreateDistributionInput {
	return CreateDistributionInput{
		FundID:           fundID,
		DistributionDate: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		TotalAmount:      total,
		ReturnOfCapital:  total,
		Description:      "Exit proceeds",
	}
}

func reloadDistribution(t *testing.T, db *gorm.DB, id uint) models.Distribution {
	t.Helper()

	var dist models.Distribution
	require.NoError(t, db.Preload("Items").First(&dist, id).Error)
	return dist
}

func TestCreateDistributionProRata(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	seedCommitment(t, db, fund.ID, 10, 700000, models.CommitmentActive)
	seedCommitment(t, db, fund.ID, 11, 300000, models.CommitmentFunded)
	// SIGNED is eligible for calls but never for distributions
	seedCommitment(t, db, fund.ID, 12, 500000, models.CommitmentSigned)

	dist, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 50000))
	require.NoError(t, err)

	assert.Equal(t, 1, dist.DistributionNumber)
	assert.Equal(t, models.DistributionDraft, dist.Status)
	require.Len(t, dist.Items, 2)
	assert.Equal(t, 35000.0, dist.Items[0].GrossAmount)
	assert.Equal(t, 15000.0, dist.Items[1].GrossAmount)
	assert.Zero(t, dist.Items[0].WithholdingTax)
	assert.Equal(t, dist.Items[0].GrossAmount, dist.Items[0].NetAmount)

	sum := 0.0
	for _, item := range dist.Items {
		sum += item.GrossAmount
	}
	assert.InDelta(t, 50000, sum, 1e-9)
}

func TestCreateDistributionNoEligibleCommitments(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	seedCommitment(t, db, fund.ID, 10, 500000, models.CommitmentSigned)

	dist, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 50000))
	require.NoError(t, err)
	assert.Empty(t, dist.Items)
}

func TestProcessDistributionItem(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	commitment := seedCommitment(t, db, fund.ID, 10, 600000, models.CommitmentActive)
	seedCommitment(t, db, fund.ID, 11, 400000, models.CommitmentActive)

	dist, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 100000))
	require.NoError(t, err)
	require.Len(t, dist.Items, 2)

	t.Run("rejected before approval", func(t *testing.T) {
		_, err := svc.ProcessDistributionItem(testActor, dist.Items[0].ID, 0)
		var invalid *ValidationError
		assert.ErrorAs(t, err, &invalid)
	})

	_, err = svc.UpdateDistributionStatus(testActor, dist.ID, models.DistributionApproved)
	require.NoError(t, err)

	t.Run("first payment moves parent to processing", func(t *testing.T) {
		item, err := svc.ProcessDistributionItem(testActor, dist.Items[0].ID, 0)
		require.NoError(t, err)
		assert.Equal(t, models.DistributionItemPaid, item.Status)
		require.NotNil(t, item.PaidDate)
		assert.Equal(t, 60000.0, item.NetAmount)

		after := reloadCommitment(t, db, commitment.ID)
		assert.Equal(t, 60000.0, after.DistributedAmount)

		parent := reloadDistribution(t, db, dist.ID)
		assert.Equal(t, models.DistributionProcessing, parent.Status)
	})

	t.Run("reprocessing is rejected, not double-counted", func(t *testing.T) {
		_, err := svc.ProcessDistributionItem(testActor, dist.Items[0].ID, 0)
		var invalid *ValidationError
		require.ErrorAs(t, err, &invalid)

		after := reloadCommitment(t, db, commitment.ID)
		assert.Equal(t, 60000.0, after.DistributedAmount)
	})

	t.Run("last payment completes the distribution", func(t *testing.T) {
		_, err := svc.ProcessDistributionItem(testActor, dist.Items[1].ID, 0)
		require.NoError(t, err)

		parent := reloadDistribution(t, db, dist.ID)
		assert.Equal(t, models.DistributionCompleted, parent.Status)
		assert.NotNil(t, parent.PaidDate)
	})
}

func TestProcessDistributionItemWithholding(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	commitment := seedCommitment(t, db, fund.ID, 10, 100000, models.CommitmentActive)

	dist, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 10000))
	require.NoError(t, err)
	_, err = svc.UpdateDistributionStatus(testActor, dist.ID, models.DistributionApproved)
	require.NoError(t, err)

	item, err := svc.ProcessDistributionItem(testActor, dist.Items[0].ID, 1500)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, item.WithholdingTax)
	assert.Equal(t, 8500.0, item.NetAmount)

	after := reloadCommitment(t, db, commitment.ID)
	assert.Equal(t, 8500.0, after.DistributedAmount)

	t.Run("tax above gross rejected", func(t *testing.T) {
		d2, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 1000))
		require.NoError(t, err)
		_, err = svc.UpdateDistributionStatus(testActor, d2.ID, models.DistributionApproved)
		require.NoError(t, err)

		_, err = svc.ProcessDistributionItem(testActor, d2.Items[0].ID, 2000)
		var invalid *ValidationError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestUpdateDistributionStatusRejectsSkip(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	seedCommitment(t, db, fund.ID, 10, 100000, models.CommitmentActive)

	dist, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 10000))
	require.NoError(t, err)

	_, err = svc.UpdateDistributionStatus(testActor, dist.ID, models.DistributionCompleted)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Draft", invalid.From)
	assert.Equal(t, "Completed", invalid.To)

	approved, err := svc.UpdateDistributionStatus(testActor, dist.ID, models.DistributionApproved)
	require.NoError(t, err)
	assert.NotNil(t, approved.ApprovedDate)
}

func TestDeleteDistributionDraftOnly(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	seedCommitment(t, db, fund.ID, 10, 100000, models.CommitmentActive)

	dist, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 10000))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteDistribution(testActor, dist.ID))

	d2, err := svc.CreateDistribution(testActor, distributionInput(fund.ID, 10000))
	require.NoError(t, err)
	assert.Equal(t, 2, d2.DistributionNumber)

	_, err = svc.UpdateDistributionStatus(testActor, d2.ID, models.DistributionApproved)
	require.NoError(t, err)
	err = svc.DeleteDistribution(testActor, d2.ID)
	var invalid *ValidationError
	assert.ErrorAs(t, err, &invalid)
}
