package handlers

import (
	"net/http"
	"strconv"

	"fundadmin/internal/ledger"
	"fundadmin/internal/models"

	"github.com/gin-gonic/gin"
)

// DistributionRequest represents the request body for drafting a
// distribution. The breakdown fields must sum to the total.
type DistributionRequest struct {
	FundID           uint    `json:"fund_id"`
	DistributionDate string  `json:"distribution_date"`
	TotalAmount      float64 `json:"total_amount"`
	ReturnOfCapital  float64 `json:"return_of_capital"`
	RealizedGains    float64 `json:"realized_gains"`
	Dividends        float64 `json:"dividends"`
	Interest         float64 `json:"interest"`
	Description      string  `json:"description"`
}

// DistributionStatusRequest represents a status transition request
type DistributionStatusRequest struct {
	Status models.DistributionStatus `json:"status"`
}

// DistributionProcessRequest carries the withholding tax assessed when
// an item is paid out
type DistributionProcessRequest struct {
	WithholdingTax float64 `json:"withholding_tax"`
}

// CreateDistribution drafts a distribution and allocates it across the
// fund's active and funded commitments
func CreateDistribution(c *gin.Context) {
	var request DistributionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	distDate, err := parseDate(request.DistributionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "distribution_date must be YYYY-MM-DD"})
		return
	}

	dist, lerr := Ledger.CreateDistribution(actorID(c), ledger.CreateDistributionInput{
		FundID:           request.FundID,
		DistributionDate: distDate,
		TotalAmount:      request.TotalAmount,
		ReturnOfCapital:  request.ReturnOfCapital,
		RealizedGains:    request.RealizedGains,
		Dividends:        request.Dividends,
		Interest:         request.Interest,
		Description:      request.Description,
	})
	if lerr != nil {
		respondError(c, lerr)
		return
	}
	c.JSON(http.StatusCreated, dist)
}

// ListDistributions returns a fund's distributions, newest first
func ListDistributions(c *gin.Context) {
	fundID, err := strconv.Atoi(c.Query("fund_id"))
	if err != nil || fundID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fund_id query parameter is required"})
		return
	}

	distributions, lerr := Ledger.ListDistributions(actorID(c), uint(fundID))
	if lerr != nil {
		respondError(c, lerr)
		return
	}
	c.JSON(http.StatusOK, distributions)
}

// GetDistribution returns one distribution with its items
func GetDistribution(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	dist, err := Ledger.GetDistribution(actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}

// UpdateDistributionStatus moves a distribution along its lifecycle
func UpdateDistributionStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request DistributionStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	dist, err := Ledger.UpdateDistributionStatus(actorID(c), id, request.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dist)
}

// ProcessDistributionItem pays out one distribution item, assessing
// withholding tax at payout time
func ProcessDistributionItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request DistributionProcessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := Ledger.ProcessDistributionItem(actorID(c), id, request.WithholdingTax)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteDistribution removes a draft distribution
func DeleteDistribution(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := Ledger.DeleteDistribution(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Distribution deleted"})
}
