package ledger

import (
	"testing"

	"fundadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommitment(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)

	c, err := svc.CreateCommitment(testActor, CreateCommitmentInput{
		FundID:          fund.ID,
		InvestorID:      42,
		CommittedAmount: 250000,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CommitmentPending, c.Status)
	assert.Zero(t, c.CalledAmount)
	assert.Zero(t, c.PaidAmount)
	assert.Zero(t, c.DistributedAmount)
	assert.EqualValues(t, 1, auditCount(t, db, "commitment", c.ID))

	t.Run("duplicate investor rejected", func(t *testing.T) {
		_, err := svc.CreateCommitment(testActor, CreateCommitmentInput{
			FundID:          fund.ID,
			InvestorID:      42,
			CommittedAmount: 1000,
		})
		var invalid *ValidationError
		assert.ErrorAs(t, err, &invalid)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := svc.CreateCommitment(testActor, CreateCommitmentInput{
			FundID:          fund.ID,
			InvestorID:      43,
			CommittedAmount: 0,
		})
		var invalid *ValidationError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestCommitmentLifecycle(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)

	c, err := svc.CreateCommitment(testActor, CreateCommitmentInput{
		FundID:          fund.ID,
		InvestorID:      42,
		CommittedAmount: 250000,
	})
	require.NoError(t, err)

	signed, err := svc.UpdateCommitmentStatus(testActor, c.ID, models.CommitmentSigned)
	require.NoError(t, err)
	assert.NotNil(t, signed.SignedDate)

	_, err = svc.UpdateCommitmentStatus(testActor, c.ID, models.CommitmentActive)
	require.NoError(t, err)

	t.Run("skipping states rejected", func(t *testing.T) {
		c2, err := svc.CreateCommitment(testActor, CreateCommitmentInput{
			FundID:          fund.ID,
			InvestorID:      43,
			CommittedAmount: 100000,
		})
		require.NoError(t, err)

		_, err = svc.UpdateCommitmentStatus(testActor, c2.ID, models.CommitmentFunded)
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Pending", invalid.From)
		assert.Equal(t, "Funded", invalid.To)
	})
}

// A payment whose commitment has vanished must fail loudly and leave
// no partial writes: the item, the ledger and the call all stay as
// they were.
func TestPaymentMissingCommitmentRollsBack(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	commitment := seedCommitment(t, db, fund.ID, 10, 100000, models.CommitmentActive)

	call, err := svc.CreateCall(testActor, callInput(fund.ID, 10000))
	require.NoError(t, err)
	item := call.Items[0]

	require.NoError(t, db.Delete(&models.Commitment{}, commitment.ID).Error)

	_, err = svc.RecordItemPayment(testActor, item.ID, 10000, false)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	var after models.CallItem
	require.NoError(t, db.First(&after, item.ID).Error)
	assert.Equal(t, models.CallItemPending, after.Status)
	assert.Zero(t, after.PaidAmount)

	reloaded := reloadCall(t, db, call.ID)
	assert.Equal(t, models.CallDraft, reloaded.Status)
}

func TestCalledAmountCannotExceedCommitted(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)
	// committed barely below the allocation
	commitment := seedCommitment(t, db, fund.ID, 10, 100000, models.CommitmentActive)

	call, err := svc.CreateCall(testActor, callInput(fund.ID, 60000))
	require.NoError(t, err)
	_, err = svc.RecordItemPayment(testActor, call.Items[0].ID, 60000, false)
	require.NoError(t, err)

	second, err := svc.CreateCall(testActor, callInput(fund.ID, 60000))
	require.NoError(t, err)

	_, err = svc.RecordItemPayment(testActor, second.Items[0].ID, 60000, false)
	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)

	// the rejected payment left the ledger untouched
	after := reloadCommitment(t, db, commitment.ID)
	assert.Equal(t, 60000.0, after.PaidAmount)
	assert.Equal(t, 60000.0, after.CalledAmount)
}

func TestDeleteCommitmentLeavesHistory(t *testing.T) {
	svc, db := testService(t)
	fund := seedFund(t, db)

	c, err := svc.CreateCommitment(testActor, CreateCommitmentInput{
		FundID:          fund.ID,
		InvestorID:      42,
		CommittedAmount: 250000,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCommitment(testActor, c.ID))

	live, err := svc.ListCommitments(testActor, fund.ID)
	require.NoError(t, err)
	assert.Empty(t, live)

	// audit rows survive the soft delete
	assert.EqualValues(t, 2, auditCount(t, db, "commitment", c.ID))
}
