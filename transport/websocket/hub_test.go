package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/room"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/service"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.clients == nil {
		t.Error("Hub clients map is nil")
	}

	if hub.rooms == nil {
		t.Error("Hub rooms map is nil")
	}

	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:  hub,
		id:   "conn-1",
		send: make(chan []byte, 256),
	}
	hub.registerClient(client)

	hub.Subscribe("conn-1", "room-a")

	if hub.rooms["room-a"]["conn-1"] != client {
		t.Error("Client was not added to the room's broadcast set")
	}

	// Subscribing an unknown connection is a no-op.
	hub.Subscribe("ghost", "room-a")
	if len(hub.rooms["room-a"]) != 1 {
		t.Errorf("Expected 1 member, got %d", len(hub.rooms["room-a"]))
	}

	hub.Unsubscribe("conn-1", "room-a")

	if _, exists := hub.rooms["room-a"]; exists {
		t.Error("Empty room should have been cleaned up")
	}

	// Redundant unsubscribe is harmless.
	hub.Unsubscribe("conn-1", "room-a")
}

func TestHubSendTo(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:  hub,
		id:   "conn-1",
		send: make(chan []byte, 256),
	}
	hub.registerClient(client)

	hub.SendTo("conn-1", service.Message{Event: service.EventError, Data: service.ErrorPayload{Reason: "nope"}})

	select {
	case data := <-client.send:
		var msg service.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.Event != service.EventError {
			t.Errorf("Expected error event, got %s", msg.Event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	// Sending to an unknown connection must not panic.
	hub.SendTo("ghost", service.Message{Event: service.EventError})
}

func TestHubBroadcastIsRoomScoped(t *testing.T) {
	hub := NewHub()

	inRoom := &Client{hub: hub, id: "conn-1", send: make(chan []byte, 256)}
	outside := &Client{hub: hub, id: "conn-2", send: make(chan []byte, 256)}
	hub.registerClient(inRoom)
	hub.registerClient(outside)
	hub.Subscribe("conn-1", "room-a")

	hub.Broadcast("room-a", service.Message{Event: service.EventOccupancyChanged, Data: service.OccupancyPayload{Count: 1}})

	select {
	case data := <-inRoom.send:
		var msg service.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if msg.Event != service.EventOccupancyChanged {
			t.Errorf("Expected occupancy event, got %s", msg.Event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Room member received no broadcast")
	}

	select {
	case <-outside.send:
		t.Error("Broadcast leaked outside the room")
	default:
	}
}

func TestHubBroadcastAfterUnregister(t *testing.T) {
	hub := NewHub()

	leaver := &Client{hub: hub, id: "conn-a", send: make(chan []byte, 256)}
	stayer := &Client{hub: hub, id: "conn-b", send: make(chan []byte, 256)}
	hub.registerClient(leaver)
	hub.registerClient(stayer)
	hub.Subscribe("conn-a", "room-a")
	hub.Subscribe("conn-b", "room-a")

	// Unregistering closes the leaver's send channel; a broadcast landing
	// right after must neither panic nor target the closed channel.
	hub.unregisterClient(leaver)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Broadcast panicked after unregister: %v", r)
		}
	}()
	hub.Broadcast("room-a", service.Message{Event: service.EventOccupancyChanged, Data: service.OccupancyPayload{Count: 1}})

	select {
	case <-stayer.send:
	default:
		t.Error("Remaining member received no broadcast")
	}

	hub.mu.RLock()
	_, stillMember := hub.rooms["room-a"]["conn-a"]
	hub.mu.RUnlock()
	if stillMember {
		t.Error("Unregistered client still in the room's broadcast set")
	}
}

func TestHubConcurrentBroadcastAndUnregister(t *testing.T) {
	hub := NewHub()

	const n = 20
	clients := make([]*Client, n)
	for i := 0; i < n; i++ {
		clients[i] = &Client{hub: hub, id: fmt.Sprintf("conn-%d", i), send: make(chan []byte, 4)}
		hub.registerClient(clients[i])
		hub.Subscribe(clients[i].id, "room-a")
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(c *Client) {
			defer wg.Done()
			hub.unregisterClient(c)
		}(clients[i])
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Broadcast("room-a", service.Message{Event: service.EventBoardState})
				hub.SendTo(fmt.Sprintf("conn-%d", i), service.Message{Event: service.EventBoardState})
			}
		}(i)
	}
	wg.Wait()

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if len(hub.clients) != 0 {
		t.Errorf("Expected all clients unregistered, %d remain", len(hub.clients))
	}
	if len(hub.rooms) != 0 {
		t.Errorf("Expected no broadcast sets left, %d remain", len(hub.rooms))
	}
}

// newTestStack wires a hub, a registry backed by the real rules engine, and
// the room service, the same way main does.
func newTestStack() (*Hub, *room.Registry) {
	hub := NewHub()
	registry := room.NewRegistry(engine.NewChessEngine())
	hub.SetService(service.NewRoomService(registry, hub))
	return hub, registry
}

// readEvents reads one WebSocket frame and returns the event names it
// carries. The write pump coalesces queued messages into a single frame
// separated by newlines.
func readEvents(t *testing.T, conn *websocket.Conn) []string {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var events []string
	for _, part := range bytes.Split(data, []byte{'\n'}) {
		var msg service.Message
		if err := json.Unmarshal(part, &msg); err != nil {
			t.Fatalf("Failed to unmarshal message %q: %v", part, err)
		}
		events = append(events, msg.Event)
	}
	return events
}

func TestWebSocketCreateRoomFlow(t *testing.T) {
	hub, registry := newTestStack()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	create := inboundMessage{Action: actionCreateRoom, RoomID: "ws-room"}
	if err := conn.WriteJSON(create); err != nil {
		t.Fatalf("Failed to send create_room: %v", err)
	}

	// The creator receives its role, the board, and the occupancy update,
	// possibly coalesced across frames.
	var events []string
	for len(events) < 3 {
		events = append(events, readEvents(t, conn)...)
	}
	if events[0] != service.EventRoleAssigned {
		t.Errorf("Expected role_assigned first, got %v", events)
	}

	if _, err := registry.Get("ws-room"); err != nil {
		t.Errorf("Room was not created: %v", err)
	}
}

func TestWebSocketDisconnectCleansUp(t *testing.T) {
	hub, registry := newTestStack()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	if err := conn.WriteJSON(inboundMessage{Action: actionCreateRoom, RoomID: "gone-room"}); err != nil {
		t.Fatalf("Failed to send create_room: %v", err)
	}
	readEvents(t, conn)

	conn.Close()

	// Give the read pump time to report the disconnect.
	deadline := time.Now().Add(1 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := registry.Get("gone-room"); err == room.ErrRoomNotFound {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("Room should have been removed after its only member disconnected")
}

func TestWebSocketMalformedMessageIgnored(t *testing.T) {
	hub, _ := newTestStack()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("Failed to send garbage: %v", err)
	}

	// The connection survives and later actions still work.
	if err := conn.WriteJSON(inboundMessage{Action: actionCreateRoom, RoomID: "sturdy"}); err != nil {
		t.Fatalf("Failed to send create_room: %v", err)
	}
	events := readEvents(t, conn)
	if events[0] != service.EventRoleAssigned {
		t.Errorf("Expected role_assigned, got %v", events)
	}
}
