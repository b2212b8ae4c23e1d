package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/plumekit/plume-backend/internal/hub"
	"github.com/plumekit/plume-backend/internal/middleware"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WSHandler upgrades authenticated clients to a websocket and bridges them
// to the push hub. Everything sent here is advisory; a client that misses an
// event recovers by re-querying the REST endpoints.
type WSHandler struct {
	pusher    *hub.Hub
	jwtSecret string
	upgrader  websocket.Upgrader
	log       *logrus.Logger
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(pusher *hub.Hub, jwtSecret string, log *logrus.Logger) *WSHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WSHandler{
		pusher:    pusher,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is enforced at the HTTP layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// RegisterWSRoutes registers the live channel endpoint
func (h *WSHandler) RegisterWSRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve authenticates the connection with the same bearer credential as the
// REST layer (Authorization header or ?token= for browser clients), registers
// it with the hub, and pumps events until the client goes away.
func (h *WSHandler) Serve(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		}
	}
	if tokenString == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims, err := middleware.ParseToken(tokenString, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	userID := claims.UserID

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	events, connID := h.pusher.Register(userID)
	h.log.WithFields(logrus.Fields{"user_id": userID, "conn_id": connID}).Info("websocket connected")

	go h.writePump(conn, events, userID, connID)
	go h.readPump(conn, userID, connID)

	return nil
}

// writePump forwards hub events to the client and keeps the connection alive
// with pings. Exits when the hub closes the event channel or a write fails.
func (h *WSHandler) writePump(conn *websocket.Conn, events <-chan hub.Event, userID uint, connID string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				// Client gone; the read pump unregisters.
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames (the channel is server→client only) and
// unregisters the connection when the client disconnects.
func (h *WSHandler) readPump(conn *websocket.Conn, userID uint, connID string) {
	defer func() {
		h.pusher.Unregister(userID, connID)
		conn.Close()
		h.log.WithFields(logrus.Fields{"user_id": userID, "conn_id": connID}).Info("websocket disconnected")
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
