// Package service implements the connection session handler for the chess
// room server.
//
// The service package implements:
//   - Translation of inbound connection events into room/registry operations
//   - The outbound message catalogue fanned out to room members
//   - An O(1) reverse index from connection to joined room
//   - Lobby reads consumed by the REST and MCP surfaces
//
// Core Types:
//
// RoomService is the interface the transports dispatch into. Fanout is the
// delivery capability the handler depends on; the websocket hub implements
// it, and tests substitute a recorder.
//
// Error Policy:
//
// Structural errors (room exists / room missing) are surfaced to the
// requesting connection only, as an error message with a human-readable
// reason. Policy violations — moving without a seat, moving out of turn,
// a seat response from a non-observer — are silently dropped: they are
// expected under races between client UI state and server state. An
// engine-rejected move degrades to an invalid_move notice to the requester.
// Engine faults are logged at the event boundary and treated as rejections;
// they never disturb other connections or rooms.
package service
