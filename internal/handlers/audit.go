package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListAuditRecords returns the change history for one entity,
// newest first
func ListAuditRecords(c *gin.Context) {
	entityType := c.Query("entity_type")
	entityID, err := strconv.Atoi(c.Query("entity_id"))
	if entityType == "" || err != nil || entityID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity_type and entity_id query parameters are required"})
		return
	}

	records, lerr := Ledger.ListAuditRecords(actorID(c), entityType, uint(entityID))
	if lerr != nil {
		respondError(c, lerr)
		return
	}
	c.JSON(http.StatusOK, records)
}
