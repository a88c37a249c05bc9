package ledger

import (
	"testing"

	"fundadmin/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveCallStatus(t *testing.T) {
	paid := models.CallItemPaid
	pending := models.CallItemPending
	partial := models.CallItemPartial

	t.Run("all paid is fully funded", func(t *testing.T) {
		got := DeriveCallStatus(models.CallSent, []models.CallItemStatus{paid, paid, paid})
		assert.Equal(t, models.CallFullyFunded, got)
	})

	t.Run("one paid of three is partially funded", func(t *testing.T) {
		got := DeriveCallStatus(models.CallSent, []models.CallItemStatus{paid, pending, pending})
		assert.Equal(t, models.CallPartiallyFunded, got)
	})

	t.Run("partial payment counts as payment", func(t *testing.T) {
		got := DeriveCallStatus(models.CallSent, []models.CallItemStatus{partial, pending})
		assert.Equal(t, models.CallPartiallyFunded, got)
	})

	t.Run("no payments never downgrades", func(t *testing.T) {
		got := DeriveCallStatus(models.CallSent, []models.CallItemStatus{pending, models.CallItemNotified})
		assert.Equal(t, models.CallSent, got)
	})

	t.Run("no items no transition", func(t *testing.T) {
		assert.Equal(t, models.CallDraft, DeriveCallStatus(models.CallDraft, nil))
	})

	t.Run("idempotent", func(t *testing.T) {
		snapshot := []models.CallItemStatus{paid, pending, pending}
		first := DeriveCallStatus(models.CallSent, snapshot)
		second := DeriveCallStatus(first, snapshot)
		assert.Equal(t, first, second)
	})
}

func TestDeriveDistributionStatus(t *testing.T) {
	paid := models.DistributionItemPaid
	pending := models.DistributionItemPending

	t.Run("all paid completes", func(t *testing.T) {
		got := DeriveDistributionStatus(models.DistributionProcessing, []models.DistributionItemStatus{paid, paid})
		assert.Equal(t, models.DistributionCompleted, got)
	})

	t.Run("any unpaid leaves status alone", func(t *testing.T) {
		got := DeriveDistributionStatus(models.DistributionProcessing, []models.DistributionItemStatus{paid, pending})
		assert.Equal(t, models.DistributionProcessing, got)
	})

	t.Run("no items no transition", func(t *testing.T) {
		assert.Equal(t, models.DistributionDraft, DeriveDistributionStatus(models.DistributionDraft, nil))
	})
}

func TestTransitionTables(t *testing.T) {
	t.Run("draft cannot jump to fully funded", func(t *testing.T) {
		err := checkCallTransition(models.CallDraft, models.CallFullyFunded)
		var invalid *InvalidTransitionError
		assert.ErrorAs(t, err, &invalid)
		assert.Contains(t, err.Error(), "Draft")
		assert.Contains(t, err.Error(), "Fully Funded")
	})

	t.Run("draft to approved allowed", func(t *testing.T) {
		assert.NoError(t, checkCallTransition(models.CallDraft, models.CallApproved))
	})

	t.Run("cancel allowed from any live call status", func(t *testing.T) {
		for _, from := range []models.CallStatus{models.CallDraft, models.CallApproved, models.CallSent, models.CallPartiallyFunded, models.CallFullyFunded} {
			assert.NoError(t, checkCallTransition(from, models.CallCancelled), "from %s", from)
		}
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		assert.Error(t, checkCallTransition(models.CallCancelled, models.CallDraft))
		assert.Error(t, checkDistributionTransition(models.DistributionCancelled, models.DistributionDraft))
	})

	t.Run("distribution happy path", func(t *testing.T) {
		assert.NoError(t, checkDistributionTransition(models.DistributionDraft, models.DistributionApproved))
		assert.NoError(t, checkDistributionTransition(models.DistributionApproved, models.DistributionProcessing))
		assert.NoError(t, checkDistributionTransition(models.DistributionProcessing, models.DistributionCompleted))
		assert.Error(t, checkDistributionTransition(models.DistributionDraft, models.DistributionCompleted))
	})
}
