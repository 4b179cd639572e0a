// Package server implements the pir8 game server: a websocket hub that
// owns the live game sessions and routes every message through the
// simulation core.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"pir8/internal/config"
	"pir8/internal/database"
	"pir8/internal/game"
	"pir8/internal/protocol"
)

// Server is the main game server.
type Server struct {
	db       *database.DB
	hub      *Hub
	upgrader websocket.Upgrader
	cfg      config.Config
	balance  game.Balance
	server   *http.Server

	limiters map[string]*rate.Limiter
	limitMu  sync.Mutex
}

// New creates a server with an open database and the balance resolved
// from configuration.
func New(cfg config.Config) (*Server, error) {
	balance, err := cfg.Balance()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Server{
		db:      db,
		cfg:     cfg,
		balance: balance,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		limiters: make(map[string]*rate.Limiter),
	}
	s.hub = NewHub(s)
	return s, nil
}

// Start starts the server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWebSocket)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// REST mirror of the game list, for clients that only poll.
	mux.HandleFunc("/api/games", s.handleListGames)

	s.server = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: mux,
	}

	log.Printf("pir8 server")
	log.Printf("  Address: http://localhost%s", s.cfg.Addr)
	log.Printf("  Database: %s", s.cfg.DBPath)
	log.Printf("  WebSocket: ws://localhost%s/ws", s.cfg.Addr)

	go s.hub.Run()

	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// limiter returns the rate limiter for one remote IP, creating it on
// first sight.
func (s *Server) limiter(ip string) *rate.Limiter {
	s.limitMu.Lock()
	defer s.limitMu.Unlock()
	l, ok := s.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)
		s.limiters[ip] = l
	}
	return l
}

// handleWebSocket upgrades HTTP connections to WebSocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	if !s.limiter(ip).Allow() {
		http.Error(w, "rate limit", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s.hub, conn, ip)
	s.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// handleListGames returns every stored game as JSON.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	games, err := s.db.ListGames()
	if err != nil {
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(games)
}

// Session is one live game: the authoritative state plus the lock that
// serializes intents against it. The engine itself is single-writer;
// the session lock is what enforces that across client goroutines.
type Session struct {
	mu    sync.Mutex
	state *game.State
}

// Hub maintains the set of active clients and the live game sessions.
type Hub struct {
	server *Server

	// Registered clients
	clients map[*Client]bool

	// Clients by player ID
	playerClients map[string]*Client

	// Clients in each game
	gameClients map[string]map[*Client]bool

	// Live games by id
	sessions map[string]*Session

	register   chan *Client
	unregister chan *Client
	broadcast  chan *ClientMessage

	mu sync.RWMutex
}

// ClientMessage wraps a message with its source client.
type ClientMessage struct {
	Client  *Client
	Message *protocol.Message
}

// NewHub creates a new Hub.
func NewHub(server *Server) *Hub {
	return &Hub{
		server:        server,
		clients:       make(map[*Client]bool),
		playerClients: make(map[string]*Client),
		gameClients:   make(map[string]map[*Client]bool),
		sessions:      make(map[string]*Session),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan *ClientMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.handleDisconnect(client)

		case msg := <-h.broadcast:
			// Handled in a goroutine so a slow database write does not
			// stall the hub; the session lock preserves intent order.
			go h.handleMessage(msg)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a message from a client.
func (h *Hub) Broadcast(client *Client, msg *protocol.Message) {
	h.broadcast <- &ClientMessage{Client: client, Message: msg}
}

// session returns the live session for a game, loading it from the
// database if this is the first access since startup.
func (h *Hub) session(gameID string) (*Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sess, ok := h.sessions[gameID]; ok {
		return sess, nil
	}
	state, err := h.server.db.LoadGame(gameID)
	if err != nil {
		return nil, err
	}
	sess := &Session{state: state}
	h.sessions[gameID] = sess
	return sess, nil
}

// addSession registers a freshly created game as live.
func (h *Hub) addSession(state *game.State) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	sess := &Session{state: state}
	h.sessions[state.ID] = sess
	return sess
}

// handleDisconnect handles a client disconnecting.
func (h *Hub) handleDisconnect(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	if client.PlayerID != "" {
		delete(h.playerClients, client.PlayerID)
	}
	if client.GameID != "" {
		if gameClients, ok := h.gameClients[client.GameID]; ok {
			delete(gameClients, client)
		}
	}

	close(client.send)
}

// handleMessage routes incoming messages.
func (h *Hub) handleMessage(cm *ClientMessage) {
	handlers := NewHandlers(h)
	handlers.Handle(cm.Client, cm.Message)
}

// notifyGamePlayers sends a message to all clients in a game.
func (h *Hub) notifyGamePlayers(gameID string, msgType protocol.MessageType, payload interface{}) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.gameClients[gameID]))
	for c := range h.gameClients[gameID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return
	}
	for _, client := range clients {
		client.Send(msg)
	}
}

// AddClientToGame adds a client to a game's client list.
func (h *Hub) AddClientToGame(client *Client, gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.gameClients[gameID] == nil {
		h.gameClients[gameID] = make(map[*Client]bool)
	}
	h.gameClients[gameID][client] = true
	client.GameID = gameID
}

// SetClientPlayer associates a client with a player ID.
func (h *Hub) SetClientPlayer(client *Client, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.PlayerID = playerID
	h.playerClients[playerID] = client
}

// Client represents a connected WebSocket client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *protocol.Message

	// limiter throttles this connection's inbound messages, keyed to
	// the remote IP so reconnecting does not reset the budget.
	limiter *rate.Limiter

	PlayerID string
	GameID   string
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 65536
)

// NewClient creates a new client.
func NewClient(hub *Hub, conn *websocket.Conn, ip string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan *protocol.Message, 256),
		limiter: hub.server.limiter(ip),
	}
}

// Send queues a message to be sent to the client.
func (c *Client) Send(msg *protocol.Message) {
	select {
	case c.send <- msg:
	default:
		// Channel full, client too slow
		c.hub.Unregister(c)
	}
}

// ReadPump pumps messages from the WebSocket to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Invalid message: %v", err)
			continue
		}

		if !c.limiter.Allow() {
			payload := protocol.ErrorPayload{
				Code:    protocol.ErrCodeRateLimited,
				Message: "too many messages",
			}
			if reject, err := protocol.NewMessage(protocol.TypeError, payload); err == nil {
				reject.ID = msg.ID
				c.Send(reject)
			}
			continue
		}

		c.hub.Broadcast(c, &msg)
	}
}

// WritePump pumps messages from the hub to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
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

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("Failed to marshal message: %v", err)
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
