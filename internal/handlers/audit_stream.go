package handlers

import (
	"net/http"
	"sync"

	"fundadmin/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var auditUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AuditStreamHub fans committed audit records out to connected
// websocket clients. Slow or broken clients are dropped rather than
// buffered.
type AuditStreamHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewAuditStreamHub creates an empty hub
func NewAuditStreamHub() *AuditStreamHub {
	return &AuditStreamHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// Broadcast sends one audit record to every connected client
func (h *AuditStreamHub) Broadcast(record models.AuditRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(record); err != nil {
			log.WithFields(log.Fields{
				"error": err.Error(),
			}).Warn("Dropping audit stream client after write failure")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *AuditStreamHub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *AuditStreamHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// ClientCount returns the number of connected clients
func (h *AuditStreamHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// AuditHub is the process-wide stream hub, wired to the ledger
// service's post-commit audit hook in Init
var AuditHub = NewAuditStreamHub()

// StreamAuditRecords upgrades the connection and keeps it registered
// until the client disconnects
func StreamAuditRecords(c *gin.Context) {
	conn, err := auditUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithFields(log.Fields{
			"error": err.Error(),
		}).Error("Failed to upgrade audit stream connection")
		return
	}

	AuditHub.register(conn)
	log.Info("Audit stream client connected")

	// Read loop exists only to observe the close; inbound messages
	// are ignored.
	go func() {
		defer AuditHub.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
