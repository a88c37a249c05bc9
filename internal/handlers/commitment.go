package handlers

import (
	"net/http"
	"strconv"

	"fundadmin/internal/ledger"
	"fundadmin/internal/models"

	"github.com/gin-gonic/gin"
)

// CommitmentRequest represents the request body for onboarding an
// investor into a fund
type CommitmentRequest struct {
	FundID          uint    `json:"fund_id"`
	InvestorID      uint    `json:"investor_id"`
	CommittedAmount float64 `json:"committed_amount"`
}

// CommitmentStatusRequest represents a status transition request
type CommitmentStatusRequest struct {
	Status models.CommitmentStatus `json:"status"`
}

// CreateCommitment onboards an investor into a fund with zero balances
func CreateCommitment(c *gin.Context) {
	var request CommitmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commitment, err := Ledger.CreateCommitment(actorID(c), ledger.CreateCommitmentInput{
		FundID:          request.FundID,
		InvestorID:      request.InvestorID,
		CommittedAmount: request.CommittedAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commitment)
}

// ListCommitments returns a fund's live commitments
func ListCommitments(c *gin.Context) {
	fundID, err := strconv.Atoi(c.Query("fund_id"))
	if err != nil || fundID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fund_id query parameter is required"})
		return
	}

	commitments, lerr := Ledger.ListCommitments(actorID(c), uint(fundID))
	if lerr != nil {
		respondError(c, lerr)
		return
	}
	c.JSON(http.StatusOK, commitments)
}

// UpdateCommitmentStatus moves a commitment along its lifecycle
func UpdateCommitmentStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request CommitmentStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	commitment, err := Ledger.UpdateCommitmentStatus(actorID(c), id, request.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, commitment)
}

// DeleteCommitment soft-deletes a commitment
func DeleteCommitment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := Ledger.DeleteCommitment(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commitment deleted"})
}
