package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the server carries no credentials worth forging
	},
}

const (
	sendBuffer = 256
	writeWait  = 10 * time.Second
)

// Client is one websocket connection. gameID and playerID are set by
// create_game/join_game and only touched from the hub's run loop.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	remote string

	gameID   string
	playerID string
}

func (c *Client) readPump(h *Hub, readLimit int64, pongWait time.Duration) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	if readLimit > 0 {
		c.conn.SetReadLimit(readLimit)
	}
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("dropping malformed message",
				zap.String("remote", c.remote), zap.Error(err))
			continue
		}
		h.inbound <- inbound{client: c, msg: msg}
	}
}

func (c *Client) writePump(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
