package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/room"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Multiplayer Chess Rooms",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Multiplayer Chess Room Server - MCP Interface

This is a thin client that proxies all requests to the REST API server.

Rooms host one chess game each: the first two joiners take the white and
black seats, everyone after that observes. Gameplay happens over the
WebSocket endpoint; this interface manages the room lobby.

AVAILABLE TOOLS:
- create_room: Create a new room (ID auto-generated when omitted)
- list_rooms: List all live rooms with their occupancy
- get_room: Inspect one room, including its current position (FEN)`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_room",
		Description: "Create a new chess room with an optional custom ID",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room ID to use (optional, auto-generated when omitted)",
				},
			},
		},
	}, c.handleCreateRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live chess rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get details of a specific room, including the current position",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room ID to retrieve",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleGetRoom)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	body := map[string]string{}
	if roomID != "" {
		body["room_id"] = roomID
	}

	var info room.Info
	err := c.apiCall("POST", "/api/rooms", body, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created room: %s\nJoin it over the WebSocket to take a seat.\n", info.ID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int         `json:"count"`
		Rooms []room.Info `json:"rooms"`
	}

	err := c.apiCall("GET", "/api/rooms", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		result += fmt.Sprintf("- %s (%s, observers: %d, created: %s)\n",
			r.ID, formatSeats(&r), r.Observers, r.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	var info room.Info
	err := c.apiCall("GET", fmt.Sprintf("/api/rooms/%s", roomID), nil, &info)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatRoomInfo(&info)
	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatRoomInfo(info *room.Info) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Room: %s\n", info.ID))
	b.WriteString(fmt.Sprintf("Seats: %s\n", formatSeats(info)))
	b.WriteString(fmt.Sprintf("Observers: %d\n", info.Observers))
	b.WriteString(fmt.Sprintf("Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Position: %s\n", info.Position))
	return b.String()
}

func formatSeats(info *room.Info) string {
	seat := func(taken bool) string {
		if taken {
			return "taken"
		}
		return "free"
	}
	return fmt.Sprintf("white %s, black %s", seat(info.WhiteTaken), seat(info.BlackTaken))
}
