// Command chess-rooms starts the multiplayer chess room server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp-stdio" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, debug logging, and optional ngrok tunneling for
// easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/piyushvermaa/Multiplayer-Chess-Game/api"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/engine"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/room"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/game/service"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/transport/mcp"
	"github.com/piyushvermaa/Multiplayer-Chess-Game/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Multiplayer Chess Room Server"
)

// serverOptions carries the settings shared by both run modes.
type serverOptions struct {
	host        string
	port        int
	debug       bool
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Value: "localhost",
			Usage: "HTTP server host",
		},
		&cli.IntFlag{
			Name:  "port",
			Value: 8080,
			Usage: "HTTP server port",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:  "ngrok",
			Usage: "Enable ngrok tunnel",
		},
		&cli.StringFlag{
			Name:  "ngrok-auth",
			Usage: "Ngrok auth token (or use NGROK_AUTHTOKEN env var)",
		},
		&cli.StringFlag{
			Name:  "ngrok-domain",
			Usage: "Custom ngrok domain (optional)",
		},
	}

	cmd := &cli.Command{
		Name:    "chess-rooms",
		Usage:   AppName,
		Version: Version,
		Flags:   flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runHTTPServer(optionsFrom(cmd))
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run HTTP server with API, WebSocket, and MCP endpoint (default)",
				Flags: flags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runHTTPServer(optionsFrom(cmd))
				},
			},
			{
				Name:    "mcp-stdio",
				Aliases: []string{"mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Flags:   flags,
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCPWithInternalServer(optionsFrom(cmd))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// optionsFrom collects flag values and applies logging setup.
func optionsFrom(cmd *cli.Command) serverOptions {
	opts := serverOptions{
		host:        cmd.String("host"),
		port:        int(cmd.Int("port")),
		debug:       cmd.Bool("debug"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	}

	if opts.debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	return opts
}

// initializeServices wires the rules engine, room registry, WebSocket hub,
// and room service together. The hub and the service reference each other,
// so the service is injected after both exist.
func initializeServices() (service.RoomService, *websocket.Hub) {
	registry := room.NewRegistry(engine.NewChessEngine())

	hub := websocket.NewHub()
	roomService := service.NewRoomService(registry, hub)
	hub.SetService(roomService)
	go hub.Run()

	// Reclaim rooms created over REST/MCP that nobody ever joined.
	go roomCleanupRoutine(registry)

	return roomService, hub
}

// roomCleanupRoutine periodically removes empty rooms that have seen no
// activity within the retention window.
func roomCleanupRoutine(registry *room.Registry) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		removed := registry.CleanupIdle(1 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d idle rooms", removed)
		}
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an
// /mcp proxy endpoint. If ngrok is enabled (via flag or environment), it
// also provisions a public tunnel.
func runHTTPServer(opts serverOptions) error {
	roomService, hub := initializeServices()

	apiServer := api.NewServer(roomService, hub)

	addr := fmt.Sprintf("%s:%d", opts.host, opts.port)

	// Create MCP client for /mcp endpoint
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	if ngrokShouldRun(opts) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, opts, mainRouter)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// ngrokShouldRun checks the flag and the environment.
func ngrokShouldRun(opts serverOptions) bool {
	if opts.ngrok {
		return true
	}
	envEnabled := os.Getenv("NGROK_ENABLED")
	return envEnabled == "true" || envEnabled == "1"
}

// runNgrokTunnel provisions a public tunnel and serves the router through it.
func runNgrokTunnel(ctx context.Context, opts serverOptions, handler http.Handler) {
	authToken := opts.ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := opts.ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx,
		tunnel,
		ngrok.WithAuthtoken(authToken),
	)
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It tries to reuse
// an external API at http://localhost:8080; if unavailable, it starts a
// minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(opts serverOptions) error {
	var baseURL string

	externalURL := fmt.Sprintf("http://%s:%d", opts.host, opts.port)
	log.Printf("Checking for external API server at %s...", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalPort := listener.Addr().(*net.TCPAddr).Port
		internalAddr := fmt.Sprintf("127.0.0.1:%d", internalPort)

		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		roomService, hub := initializeServices()
		apiServer := api.NewServer(roomService, hub)

		httpServer := &http.Server{
			Handler: apiServer,
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Wait a moment for the server to be ready
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)

	log.Println("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
