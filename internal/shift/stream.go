// internal/shift/stream.go

package shift

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sweepstouch/registration-gateway/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// How often the dashboard snapshot is pushed to the peer
	refreshPeriod = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Stream upgrades the connection and pushes dashboard snapshots until the
// client disconnects or the shift ends.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := session.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Dashboard stream upgrade error: %v", err)
		return
	}

	client := &streamClient{
		handler: h,
		conn:    conn,
		claims:  claims,
		done:    make(chan struct{}),
	}
	go client.writePump()
	client.readPump()
}

// streamClient is one dashboard websocket subscriber.
type streamClient struct {
	handler *Handler
	conn    *websocket.Conn
	claims  *session.Claims
	done    chan struct{}
}

func (c *streamClient) readPump() {
	defer func() {
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Dashboard stream error: %v", err)
			}
			break
		}
	}
}

func (c *streamClient) writePump() {
	ping := time.NewTicker(pingPeriod)
	refresh := time.NewTicker(refreshPeriod)
	defer func() {
		ping.Stop()
		refresh.Stop()
		c.conn.Close()
	}()

	// Push the first snapshot immediately so the dashboard renders
	// without waiting a full refresh period.
	if err := c.push(); err != nil {
		return
	}

	for {
		select {
		case <-c.done:
			return

		case <-refresh.C:
			if err := c.push(); err != nil {
				return
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *streamClient) push() error {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	res, err := c.handler.service.Resolve(ctx, c.claims.SessionID, c.claims.UserID)
	if err != nil {
		log.Printf("Dashboard stream resolve error: %v", err)
		return nil // keep the connection, retry next tick
	}

	payload, err := json.Marshal(Dashboard{
		Resolution:     *res,
		RecentPhones:   c.handler.recent.Recent(),
		JustRegistered: c.handler.recent.JustRegistered(),
	})
	if err != nil {
		return err
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}
