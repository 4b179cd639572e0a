// Package botclient is the websocket client used by the bot binary: it
// dials a pir8 server, keeps the connection alive, and shuttles protocol
// messages in both directions.
package botclient

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"pir8/internal/protocol"
)

// Client handles WebSocket communication with the server.
type Client struct {
	conn     *websocket.Conn
	sendChan chan *protocol.Message
	recvChan chan *protocol.Message
	done     chan struct{}
	mu       sync.Mutex

	connected bool
}

// New creates a disconnected client.
func New() *Client {
	return &Client{
		sendChan: make(chan *protocol.Message, 64),
		recvChan: make(chan *protocol.Message, 64),
		done:     make(chan struct{}),
	}
}

// Connect establishes a connection to the server. The address may be
// "host:port" or a full ws:// or wss:// URL.
func (c *Client) Connect(serverAddr string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	url := serverAddr
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + url
	}
	if !strings.HasSuffix(url, "/ws") {
		url = strings.TrimSuffix(url, "/") + "/ws"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return err
	}

	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})

	go c.readPump()
	go c.writePump()
	return nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return
	}
	c.connected = false
	close(c.done)

	if c.conn != nil {
		c.conn.Close(websocket.StatusNormalClosure, "")
		c.conn = nil
	}
}

// IsConnected reports whether the client holds a live connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Send queues a message to be sent to the server.
func (c *Client) Send(msg *protocol.Message) {
	select {
	case c.sendChan <- msg:
	default:
		log.Println("Send channel full, dropping message")
	}
}

// SendPayload creates and sends a message with the given type and payload.
func (c *Client) SendPayload(msgType protocol.MessageType, payload interface{}) error {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	c.Send(msg)
	return nil
}

// Recv returns the channel of received messages. It is closed when the
// connection drops.
func (c *Client) Recv() <-chan *protocol.Message {
	return c.recvChan
}

// WaitFor reads messages until one of the wanted type arrives, or the
// timeout passes. Other message types received in the meantime are
// dropped.
func (c *Client) WaitFor(msgType protocol.MessageType, timeout time.Duration) (*protocol.Message, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case msg, ok := <-c.recvChan:
			if !ok {
				return nil, false
			}
			if msg.Type == msgType {
				return msg, true
			}
		case <-deadline.C:
			return nil, false
		}
	}
}

// readPump reads messages from the WebSocket into the receive channel.
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		close(c.recvChan)
	}()

	c.conn.SetReadLimit(65536)

	for {
		select {
		case <-c.done:
			return
		default:
		}

		msgType, data, err := c.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Failed to unmarshal message: %v", err)
			continue
		}

		select {
		case c.recvChan <- &msg:
		case <-c.done:
			return
		}
	}
}

// writePump writes messages to the WebSocket and keeps the connection
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return

		case msg := <-c.sendChan:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to marshal message: %v", err)
				cancel()
				continue
			}

			err = c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}
