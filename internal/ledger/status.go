package ledger

import (
	"fundadmin/internal/models"
)

// Allowed status transitions. Anything absent is rejected with an
// InvalidTransitionError naming both display statuses. The aggregated
// funding statuses (PARTIALLY_FUNDED / FULLY_FUNDED / PROCESSING /
// COMPLETED) are written directly by the engines as payments land and
// do not pass through these tables.
var callTransitions = map[models.CallStatus][]models.CallStatus{
	models.CallDraft:           {models.CallApproved, models.CallCancelled},
	models.CallApproved:        {models.CallSent, models.CallCancelled},
	models.CallSent:            {models.CallPartiallyFunded, models.CallFullyFunded, models.CallCancelled},
	models.CallPartiallyFunded: {models.CallFullyFunded, models.CallCancelled},
	models.CallFullyFunded:     {models.CallCancelled},
}

var distributionTransitions = map[models.DistributionStatus][]models.DistributionStatus{
	models.DistributionDraft:      {models.DistributionApproved, models.DistributionCancelled},
	models.DistributionApproved:   {models.DistributionProcessing, models.DistributionCancelled},
	models.DistributionProcessing: {models.DistributionCompleted, models.DistributionCancelled},
}

var commitmentTransitions = map[models.CommitmentStatus][]models.CommitmentStatus{
	models.CommitmentPending: {models.CommitmentSigned, models.CommitmentCancelled},
	models.CommitmentSigned:  {models.CommitmentActive, models.CommitmentCancelled},
	models.CommitmentActive:  {models.CommitmentFunded, models.CommitmentCancelled},
	models.CommitmentFunded:  {models.CommitmentActive},
}

func checkCallTransition(from, to models.CallStatus) error {
	for _, allowed := range callTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "capital call", From: from.Display(), To: to.Display()}
}

func checkDistributionTransition(from, to models.DistributionStatus) error {
	for _, allowed := range distributionTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "distribution", From: from.Display(), To: to.Display()}
}

func checkCommitmentTransition(from, to models.CommitmentStatus) error {
	for _, allowed := range commitmentTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "commitment", From: from.Display(), To: to.Display()}
}

// DeriveCallStatus derives a call's status from its item statuses.
// Pure and idempotent. With no items, or no payments yet, the current
// status is returned unchanged so an already-advanced status (SENT)
// is never downgraded.
func DeriveCallStatus(current models.CallStatus, items []models.CallItemStatus) models.CallStatus {
	if len(items) == 0 {
		return current
	}

	allPaid := true
	anyPayment := false
	for _, st := range items {
		if st == models.CallItemPaid {
			anyPayment = true
		} else {
			allPaid = false
			if st == models.CallItemPartial {
				anyPayment = true
			}
		}
	}

	if allPaid {
		return models.CallFullyFunded
	}
	if anyPayment {
		return models.CallPartiallyFunded
	}
	return current
}

// DeriveDistributionStatus mirrors DeriveCallStatus for distributions:
// COMPLETED only when every item is paid, otherwise unchanged. The
// intermediate PROCESSING status is assigned explicitly by
// ProcessDistributionItem, not derived here.
func DeriveDistributionStatus(current models.DistributionStatus, items []models.DistributionItemStatus) models.DistributionStatus {
	if len(items) == 0 {
		return current
	}

	for _, st := range items {
		if st != models.DistributionItemPaid {
			return current
		}
	}
	return models.DistributionCompleted
}
