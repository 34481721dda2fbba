// Package messaging provides the websocket broadcaster that tells open
// editor sessions when a menu document changed.
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/gorilla/websocket"
)

// EditorClient is a single connected editor session.
type EditorClient struct {
	Conn *websocket.Conn
	Send chan []byte
}

// MenuUpdatedEvent is pushed to every connected editor after a successful
// save, so concurrent sessions can prompt a reload. Delivery is advisory;
// the save itself already won on a last-write-wins basis.
type MenuUpdatedEvent struct {
	Event      string    `json:"event"`
	DocumentID int64     `json:"documentId"`
	ChangedAt  time.Time `json:"changedAt"`
}

// EditorBroadcaster manages connected editor clients and fans out document
// update notifications.
type EditorBroadcaster struct {
	clients    map[*EditorClient]bool
	register   chan *EditorClient
	unregister chan *EditorClient
	events     chan MenuUpdatedEvent
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewEditorBroadcaster creates a broadcaster instance.
func NewEditorBroadcaster(logger *logging.ChanneledLogger) *EditorBroadcaster {
	return &EditorBroadcaster{
		clients:    make(map[*EditorClient]bool),
		register:   make(chan *EditorClient),
		unregister: make(chan *EditorClient),
		events:     make(chan MenuUpdatedEvent, 16),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *EditorBroadcaster) Run() {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.WS().Info("Editor client registered", "clients", count)

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			count := len(b.clients)
			b.mu.Unlock()
			b.logger.WS().Info("Editor client unregistered", "clients", count)

		case event := <-b.events:
			b.fanOut(event)

		case <-ping.C:
			b.pingClients()
		}
	}
}

// Register queues a client for registration.
func (b *EditorBroadcaster) Register(client *EditorClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *EditorBroadcaster) Unregister(client *EditorClient) {
	b.unregister <- client
}

// BroadcastMenuUpdated notifies every connected editor that a document
// changed.
func (b *EditorBroadcaster) BroadcastMenuUpdated(documentID int64) {
	event := MenuUpdatedEvent{
		Event:      "menu-updated",
		DocumentID: documentID,
		ChangedAt:  time.Now().UTC(),
	}
	select {
	case b.events <- event:
	default:
		b.logger.WS().Warn("Event queue full, dropping menu-updated broadcast", "documentId", documentID)
	}
}

func (b *EditorBroadcaster) fanOut(event MenuUpdatedEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		b.logger.WS().Error("Failed to marshal broadcast event", "error", err.Error())
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

func (b *EditorBroadcaster) pingClients() {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		if err := client.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
			b.logger.WS().Debug("Ping failed for editor client", "error", err.Error())
		}
	}
}
