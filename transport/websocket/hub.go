package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// Inbound actions clients may send.
const (
	actionCreateRoom   = "create_room"
	actionJoinRoom     = "join_room"
	actionMove         = "move"
	actionSeatResponse = "seat_response"
)

// inboundMessage is the envelope clients send over the socket.
type inboundMessage struct {
	Action string       `json:"action"`
	RoomID string       `json:"room_id,omitempty"`
	Move   *inboundMove `json:"move,omitempty"`
	Accept bool         `json:"accept,omitempty"`
}

// inboundMove carries the coordinates of a move action.
type inboundMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// Client represents a WebSocket client
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Hub maintains the set of active clients and fans room messages out to
// them. It implements service.Fanout.
type Hub struct {
	service service.RoomService

	// Connected clients by connection ID, and room membership for
	// Broadcast delivery.
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetService wires the room service the hub dispatches inbound actions to.
// Must be called before ServeWS; the hub and the service reference each
// other, so neither constructor can take the other.
func (h *Hub) SetService(svc service.RoomService) {
	h.service = svc
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		id:   uuid.New().String(),
	}

	client.hub.register <- client

	// Start client goroutines
	go client.writePump()
	go client.readPump()
}

// SendTo delivers a message to one connection. Unknown connections are
// ignored; the peer may have dropped between lookup and delivery.
func (h *Hub) SendTo(connID string, msg service.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal WebSocket message: %v", err)
		return
	}

	// Sends hold the read lock; send channels are only closed under the
	// write lock, so a send can never hit a closed channel.
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		// Slow consumer; drop the message rather than block the room.
		log.Printf("Dropping message for slow client %s", connID)
	}
}

// Broadcast delivers a message to every connection in a room.
func (h *Hub) Broadcast(roomID string, msg service.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	// Same locking discipline as SendTo: delivery happens under the read
	// lock so it cannot interleave with a close.
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[roomID] {
		select {
		case client.send <- data:
		default:
			log.Printf("Dropping broadcast for slow client %s", client.id)
		}
	}
}

// Subscribe adds a connection to a room's broadcast set.
func (h *Hub) Subscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][connID] = client
}

// Unsubscribe removes a connection from a room's broadcast set.
func (h *Hub) Unsubscribe(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[roomID]; ok {
		delete(members, connID)

		// Clean up empty rooms
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// registerClient adds a connected client
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("Client %s connected (total clients: %d)", client.id, total)
}

// unregisterClient removes a disconnected client and reports the disconnect
// to the room service, which handles room departure and notifications.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.id)

	// Drop the client from every broadcast set before closing its channel.
	// Sends hold the read lock, so once this section ends nothing can still
	// be writing to it.
	for roomID, members := range h.rooms {
		if _, ok := members[client.id]; ok {
			delete(members, client.id)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}

	close(client.send)
	remaining := len(h.clients)
	h.mu.Unlock()

	if h.service != nil {
		h.service.Disconnect(context.Background(), client.id)
	}

	log.Printf("Client %s disconnected (remaining clients: %d)", client.id, remaining)
}

// readPump pumps messages from the WebSocket connection into the service
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
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

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Malformed message from client %s: %v", c.id, err)
			continue
		}

		c.dispatch(&msg)
	}
}

// dispatch routes one inbound action into the room service.
func (c *Client) dispatch(msg *inboundMessage) {
	svc := c.hub.service
	if svc == nil {
		return
	}
	ctx := context.Background()

	switch msg.Action {
	case actionCreateRoom:
		svc.CreateRoom(ctx, c.id, msg.RoomID)

	case actionJoinRoom:
		svc.JoinRoom(ctx, c.id, msg.RoomID)

	case actionMove:
		if msg.Move == nil {
			return
		}
		svc.Move(ctx, c.id, msg.RoomID, engine.Move{
			From:      msg.Move.From,
			To:        msg.Move.To,
			Promotion: msg.Move.Promotion,
		})

	case actionSeatResponse:
		svc.SeatResponse(ctx, c.id, msg.RoomID, msg.Accept)

	default:
		log.Printf("Unknown action %q from client %s", msg.Action, c.id)
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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
