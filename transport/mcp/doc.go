// Package mcp provides a Model Context Protocol interface for the chess
// room server.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for the room lobby
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_room: Create a new chess room
//   - list_rooms: List all live rooms with seat occupancy
//   - get_room: Inspect one room, including the current position
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// The client is a thin proxy: every tool call is translated into a REST
// call against the running server, so the MCP process carries no room
// state of its own. Gameplay itself is out of scope here; seats and moves
// go through the WebSocket transport.
package mcp
