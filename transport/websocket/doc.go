// Package websocket provides the real-time transport for the chess room
// server, built on gorilla/websocket.
//
// The websocket package implements:
//   - A Hub tracking connected clients and per-room broadcast membership
//   - Per-client read and write pumps with ping/pong keepalive
//   - Decoding of inbound client actions and dispatch into the room service
//   - The service.Fanout delivery interface consumed by the session handler
//
// Inbound Protocol:
//
// Clients send JSON envelopes of the form
//
//	{"action": "create_room", "room_id": "abc1"}
//	{"action": "join_room", "room_id": "abc1"}
//	{"action": "move", "room_id": "abc1", "move": {"from": "e2", "to": "e4"}}
//	{"action": "seat_response", "room_id": "abc1", "accept": true}
//
// Outbound messages are service.Message envelopes. A connection that closes,
// for any reason, is reported to the service as a disconnect; the service
// owns the resulting room bookkeeping and notifications.
//
// Wiring:
//
// The hub implements service.Fanout and the service dispatches through the
// hub, so construction is two-phase: build the hub, build the service over
// it, then call SetService before serving connections.
package websocket
