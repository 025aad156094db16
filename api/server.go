package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/room"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/service"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.RoomService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(roomService service.RoomService, hub *websocket.Hub) *Server {
	s := &Server{
		service: roomService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Room lobby
	api.HandleFunc("/rooms", s.handleCreateRoom).Methods("POST")
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Static files (if needed)
	s.router.PathPrefix("/").Handler(http.FileServer(http.Dir("./static/")))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Room Handlers

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID string `json:"room_id,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	info, err := s.service.CreateLobbyRoom(r.Context(), req.RoomID)
	if err != nil {
		if errors.Is(err, room.ErrRoomAlreadyExists) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms := s.service.ListRooms(r.Context())

	// Newest rooms first
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})

	limit := len(rooms)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(rooms) {
			limit = l
		}
	}
	rooms = rooms[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID := vars["id"]

	info, err := s.service.GetRoom(r.Context(), roomID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.ServeWS(w, r)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
