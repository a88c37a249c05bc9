package handlers

import (
	"net/http"
	"strconv"

	"fundadmin/internal/ledger"
	"fundadmin/internal/models"

	"github.com/gin-gonic/gin"
)

// CapitalCallRequest represents the request body for drafting a call
type CapitalCallRequest struct {
	FundID        uint    `json:"fund_id"`
	CallDate      string  `json:"call_date"`
	DueDate       string  `json:"due_date"`
	TotalAmount   float64 `json:"total_amount"`
	ForInvestment float64 `json:"for_investment"`
	ForFees       float64 `json:"for_fees"`
	ForExpenses   float64 `json:"for_expenses"`
	Purpose       string  `json:"purpose"`
}

// CallStatusRequest represents a status transition request
type CallStatusRequest struct {
	Status models.CallStatus `json:"status"`
}

// CallPaymentRequest represents a payment against a call item.
// MarkAsPaid settles the item even when the amount leaves a shortfall.
type CallPaymentRequest struct {
	Amount     float64 `json:"amount"`
	MarkAsPaid bool    `json:"mark_as_paid"`
}

// CreateCapitalCall drafts a capital call and allocates it across the
// fund's eligible commitments
func CreateCapitalCall(c *gin.Context) {
	var request CapitalCallRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	callDate, err := parseDate(request.CallDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "call_date must be YYYY-MM-DD"})
		return
	}
	dueDate, err := parseDate(request.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD"})
		return
	}

	call, err := Ledger.CreateCall(actorID(c), ledger.CreateCallInput{
		FundID:        request.FundID,
		CallDate:      callDate,
		DueDate:       dueDate,
		TotalAmount:   request.TotalAmount,
		ForInvestment: request.ForInvestment,
		ForFees:       request.ForFees,
		ForExpenses:   request.ForExpenses,
		Purpose:       request.Purpose,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, call)
}

// ListCapitalCalls returns a fund's calls, newest first
func ListCapitalCalls(c *gin.Context) {
	fundID, err := strconv.Atoi(c.Query("fund_id"))
	if err != nil || fundID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fund_id query parameter is required"})
		return
	}

	calls, lerr := Ledger.ListCalls(actorID(c), uint(fundID))
	if lerr != nil {
		respondError(c, lerr)
		return
	}
	c.JSON(http.StatusOK, calls)
}

// GetCapitalCall returns one call with its items
func GetCapitalCall(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	call, err := Ledger.GetCall(actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// UpdateCapitalCallStatus moves a call along its lifecycle
func UpdateCapitalCallStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request CallStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	call, err := Ledger.UpdateCallStatus(actorID(c), id, request.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

// RecordCallItemPayment records an investor payment against a call item
func RecordCallItemPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request CallPaymentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := Ledger.RecordItemPayment(actorID(c), id, request.Amount, request.MarkAsPaid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// MarkCallItemDefaulted flags a call item as defaulted
func MarkCallItemDefaulted(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	item, err := Ledger.MarkItemDefaulted(actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteCapitalCall removes a draft call
func DeleteCapitalCall(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := Ledger.DeleteCall(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Capital call deleted"})
}
