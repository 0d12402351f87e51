package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hersh/blockstack/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// conn is one websocket client. Writes go through sendCh so only writePump
// touches the socket for writing.
type conn struct {
	id     string
	ws     *websocket.Conn
	sendCh chan []byte
	logger *log.Logger

	closeOnce sync.Once
}

func newConn(id string, ws *websocket.Conn, logger *log.Logger) *conn {
	return &conn{
		id:     id,
		ws:     ws,
		sendCh: make(chan []byte, sendBuffer),
		logger: logger,
	}
}

// send marshals an envelope and queues it. A full queue drops the message.
func (c *conn) send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.logger.Printf("marshal error for player %s: %v", c.id, err)
		return
	}
	select {
	case c.sendCh <- data:
	default:
		c.logger.Printf("send channel full for player %s, dropping %s", c.id, env.Type)
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() { close(c.sendCh) })
}

// writePump sends messages from sendCh to the websocket.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump hands every well-formed message to dispatch until the socket
// closes.
func (c *conn) readPump(dispatch func(protocol.MessageType, []byte)) {
	defer c.ws.Close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Printf("read error for %s: %v", c.id, err)
			}
			return
		}
		typ, err := protocol.Decode(message)
		if err != nil {
			c.logger.Printf("unmarshal error from %s: %v", c.id, err)
			c.send(protocol.Envelope{Type: protocol.MsgError, Payload: protocol.ErrorPayload{Message: "malformed message"}})
			continue
		}
		dispatch(typ, message)
	}
}
