package handlers

import (
	"net/http"
	"time"

	"github.com/TavolaMedia/menustack-go/internal/application/services"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/messaging"
	"github.com/TavolaMedia/menustack-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsSendBuffer = 8
)

// WSHandlers upgrades editor connections and pumps broadcast events to them.
type WSHandlers struct {
	broadcaster *messaging.EditorBroadcaster
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewWSHandlers creates websocket handlers with injected dependencies
func NewWSHandlers(broadcaster *messaging.EditorBroadcaster, authService *services.AuthService, logger *logging.ChanneledLogger) *WSHandlers {
	return &WSHandlers{
		broadcaster: broadcaster,
		authService: authService,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers cannot set Authorization on websocket upgrades, so
			// the token rides on the query string or the auth cookies.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// GetEditorWS handles GET /ws/editor - upgrades an authenticated editor
// session and streams menu-updated events to it.
func (h *WSHandlers) GetEditorWS(c *gin.Context) {
	if !h.authenticated(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WS().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.EditorClient{
		Conn: conn,
		Send: make(chan []byte, wsSendBuffer),
	}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

func (h *WSHandlers) authenticated(c *gin.Context) bool {
	if token := c.Query("token"); token != "" {
		if info := h.authService.GetTokenInfo(token); info.Valid {
			return true
		}
	}

	for _, cookieName := range []string{"admin_auth", "editor_auth"} {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			continue
		}
		if info := h.authService.GetTokenInfo(cookie); info.Valid {
			return true
		}
	}
	return false
}

// readPump drains inbound frames so pong handling keeps the connection
// alive. Editors never send application messages.
func (h *WSHandlers) readPump(client *messaging.EditorClient) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WS().Debug("Editor connection closed unexpectedly", "error", err.Error())
			}
			return
		}
	}
}

func (h *WSHandlers) writePump(client *messaging.EditorClient) {
	defer client.Conn.Close()

	for message := range client.Send {
		client.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	// Send channel closed by the broadcaster on unregister.
	client.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	client.Conn.WriteMessage(websocket.CloseMessage, nil)
}
