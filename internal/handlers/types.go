package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"fundadmin/internal/ledger"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Ledger is the shared capital-operations service, wired in main.
var Ledger *ledger.Service

// Init attaches the ledger service all handlers dispatch into and
// wires committed audit records into the websocket stream.
func Init(svc *ledger.Service) {
	Ledger = svc
	svc.AfterAudit = AuditHub.Broadcast
}

const dateLayout = "2006-01-02"

// actorID returns the acting user resolved by the auth middleware.
func actorID(c *gin.Context) uint {
	if v, ok := c.Get("actor_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// respondError maps ledger errors onto HTTP statuses. Expected
// conditions surface their message verbatim; persistence failures are
// logged and reduced to a generic message.
func respondError(c *gin.Context, err error) {
	var (
		denied     *ledger.AccessDeniedError
		validation *ledger.ValidationError
		notFound   *ledger.NotFoundError
		transition *ledger.InvalidTransitionError
		storage    *ledger.PersistenceError
	)

	switch {
	case errors.Is(err, ledger.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{"error": denied.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": transition.Error()})
	case errors.As(err, &storage):
		log.Errorf("Storage failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please retry"})
	default:
		log.Errorf("Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please retry"})
	}
}
