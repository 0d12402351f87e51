package netclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16384
)

var ErrClosed = errors.New("netclient: connection closed")

// ConnectedMsg is sent when the client connects and receives its PlayerID.
type ConnectedMsg struct {
	PlayerID string
}

// SnapshotMsg carries the latest frame of the hosted session.
type SnapshotMsg struct {
	Snapshot engine.Snapshot
}

// ResultMsg carries the final result of the hosted session.
type ResultMsg struct {
	Result engine.Result
}

// ErrorMsg is a message the server rejected.
type ErrorMsg struct {
	Message string
}

// DisconnectedMsg is sent when the WebSocket connection is lost.
type DisconnectedMsg struct {
	Err error
}

// Sender receives decoded server messages. *tea.Program satisfies it.
type Sender interface {
	Send(tea.Msg)
}

// Client manages the WebSocket connection to the game server.
type Client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	sendCh  chan []byte
	program Sender
	done    chan struct{}
	closed  bool
}

// New creates a Client connected to the given server URL.
func New(serverURL string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}

	c := &Client{
		conn:   conn,
		sendCh: make(chan []byte, 256),
		done:   make(chan struct{}),
	}

	return c, nil
}

// SetProgram sets where decoded server messages are delivered.
func (c *Client) SetProgram(p Sender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = p
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send marshals and queues an envelope for the server.
func (c *Client) Send(env protocol.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.Type, err)
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	select {
	case c.sendCh <- data:
		return nil
	default:
		log.Printf("client send channel full, dropping %s", env.Type)
		return nil
	}
}

// StartGame asks the server to start, or restart, a session.
func (c *Client) StartGame(mode, name string) error {
	return c.Send(protocol.Envelope{
		Type:    protocol.MsgStart,
		Payload: protocol.StartPayload{Mode: mode, PlayerName: name},
	})
}

// Intent forwards one key transition.
func (c *Client) Intent(action protocol.Action, down bool) error {
	return c.Send(protocol.Envelope{
		Type:    protocol.MsgIntent,
		Payload: protocol.IntentPayload{Action: action, Down: down},
	})
}

func (c *Client) Pause() error {
	return c.Send(protocol.Envelope{Type: protocol.MsgPause})
}

func (c *Client) Resume() error {
	return c.Send(protocol.Envelope{Type: protocol.MsgResume})
}

// Close shuts down the client connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	// writePump may still be writing; control frames are safe alongside it.
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	c.conn.Close()
}

func (c *Client) deliver(msg tea.Msg) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// readPump reads messages from the WebSocket and sends them to the program.
func (c *Client) readPump() {
	var readErr error
	defer func() {
		c.deliver(DisconnectedMsg{Err: readErr})
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("readPump error: %v", err)
				readErr = err
			}
			return
		}

		msg, err := decode(message)
		if err != nil {
			log.Printf("client unmarshal error: %v", err)
			continue
		}
		if msg != nil {
			c.deliver(msg)
		}
	}
}

// decode turns one server message into a tea.Msg. Unknown types yield nil.
func decode(raw []byte) (tea.Msg, error) {
	typ, err := protocol.Decode(raw)
	if err != nil {
		return nil, err
	}
	switch typ {
	case protocol.MsgAssignID:
		var payload protocol.AssignIDPayload
		if err := protocol.ExtractPayload(raw, &payload); err != nil {
			return nil, err
		}
		return ConnectedMsg{PlayerID: payload.PlayerID}, nil
	case protocol.MsgSnapshot:
		var payload protocol.SnapshotPayload
		if err := protocol.ExtractPayload(raw, &payload); err != nil {
			return nil, err
		}
		return SnapshotMsg{Snapshot: payload.Snapshot()}, nil
	case protocol.MsgResult:
		var payload engine.Result
		if err := protocol.ExtractPayload(raw, &payload); err != nil {
			return nil, err
		}
		return ResultMsg{Result: payload}, nil
	case protocol.MsgError:
		var payload protocol.ErrorPayload
		if err := protocol.ExtractPayload(raw, &payload); err != nil {
			return nil, err
		}
		return ErrorMsg{Message: payload.Message}, nil
	}
	return nil, nil
}

// writePump writes messages from sendCh to the WebSocket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
