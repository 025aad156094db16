// Package api provides the HTTP surface of the chess room server.
//
// The api package implements:
//   - REST endpoints for the room lobby (create, list, inspect)
//   - The /ws endpoint upgrading connections into the WebSocket hub
//   - A static file server for the bundled web client
//
// Endpoints:
//
//	GET  /api/health      - liveness probe
//	POST /api/rooms       - create a room (auto-generated ID when omitted)
//	GET  /api/rooms       - list live rooms, newest first
//	GET  /api/rooms/{id}  - inspect one room
//	GET  /ws              - WebSocket upgrade
//
// The REST surface is read-mostly: gameplay happens over the WebSocket.
// Rooms created here start empty and are reclaimed by the registry's idle
// cleanup if nobody joins them.
package api
