package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/gorilla/websocket" // WebSocket protocol
	"github.com/sirupsen/logrus"   // Logging library
)

const (
	writeWait      = 10 * time.Second    // Max time to write a frame
	pongWait       = 60 * time.Second    // Max time between client pongs
	pingPeriod     = (pongWait * 9) / 10 // Must be less than pongWait
	maxMessageSize = 4096                // Max inbound frame size in bytes
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth happens on the upgrade request; origins are not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket connection attached to the hub. The hub owns the
// rooms map; the pumps own the connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// rooms the client has joined. Touched only on the hub's dispatch
	// goroutine.
	rooms map[string]bool
	// closed marks that the hub already closed send. Touched only on the
	// dispatch goroutine.
	closed bool
}

// newClient wires a connection to the hub. Exposed for tests via NewTestClient.
func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, 64),
		rooms: make(map[string]bool),
	}
}

// NewTestClient returns a hub-attachable client without a network connection.
// Frames the hub delivers arrive on the returned channel.
func NewTestClient(hub *Hub) (*Client, <-chan []byte) {
	c := newClient(hub, nil)
	return c, c.send
}

// HandleFrame dispatches one decoded client frame to the hub. Unknown events
// and undecodable frames are dropped.
func (c *Client) HandleFrame(raw []byte) {
	var in inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		logrus.Debugf("dropping malformed ws frame: %v", err)
		return
	}
	room := string(in.RoomID)
	if room == "" {
		return
	}
	switch in.Event {
	case EventJoinRoom:
		c.hub.Join(c, room, in.UserInfo)
	case EventLeaveRoom:
		c.hub.Leave(c, room)
	case EventSendMessage:
		c.hub.Message(room, in.Message, in.UserInfo, in.Timestamp)
	case EventSendGift:
		c.hub.Gift(room, in.GiftType, in.UserInfo, in.Timestamp)
	default:
		logrus.WithField("event", in.Event).Debug("Ignoring unknown ws event")
	}
}

// readPump reads frames from the connection and hands them to the hub. On
// any read error the client is disconnected from every room.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Debugf("ws read error: %v", err)
			}
			return
		}
		c.HandleFrame(raw)
	}
}

// writePump forwards hub frames to the connection and keeps it alive with
// pings. Exits when the hub closes the send channel.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

// ServeHandler upgrades HTTP requests to websocket connections attached to
// the hub.
func ServeHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logrus.Errorf("websocket upgrade failed: %v", err)
			return
		}
		client := newClient(hub, conn)
		go client.writePump()
		go client.readPump()
	}
}
