package handlers

import (
	"net/http"

	"fundadmin/internal/ledger"

	"github.com/gin-gonic/gin"
)

// FundRequest represents the request body for creating a fund
type FundRequest struct {
	Name       string  `json:"name"`
	Currency   string  `json:"currency"`
	Vintage    int     `json:"vintage"`
	TargetSize float64 `json:"target_size"`
}

// FundMemberRequest represents the request body for adding a member
type FundMemberRequest struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
}

// CreateFund creates a fund; the creator becomes its first member
func CreateFund(c *gin.Context) {
	var request FundRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fund, err := Ledger.CreateFund(actorID(c), ledger.CreateFundInput{
		Name:       request.Name,
		Currency:   request.Currency,
		Vintage:    request.Vintage,
		TargetSize: request.TargetSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fund)
}

// ListFunds returns the funds the caller is a member of
func ListFunds(c *gin.Context) {
	funds, err := Ledger.ListFunds(actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, funds)
}

// GetFund returns a specific fund by ID
func GetFund(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	fund, err := Ledger.GetFund(actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fund)
}

// AddFundMember grants another user access to the fund
func AddFundMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var request FundMemberRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := Ledger.AddFundMember(actorID(c), id, request.UserID, request.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}
