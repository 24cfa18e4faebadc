package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/chat-relay/modules/api"
	"github.com/example/chat-relay/modules/broadcast"
	"github.com/example/chat-relay/modules/relay"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Chat Relay ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	relayModule := relay.NewModule()
	broadcastModule := broadcast.NewModule()
	apiModule := api.NewModule()

	// Inject the relay and the connection hub into the API module.
	// (Done manually because neither is exposed via ServiceContainer.)
	apiModule.SetRelay(relayModule)
	apiModule.SetHub(broadcastModule.GetHub())

	// Register modules with the framework.
	// - relay: core registries, routers and the serialized hub
	// - broadcast: event consumer writing frames to WebSocket clients
	// - api: Fiber HTTP/WebSocket transport, depends on relay
	if err := app.Register(relayModule); err != nil {
		log.Fatalf("Failed to register relay module: %v", err)
	}
	if err := app.Register(broadcastModule); err != nil {
		log.Fatalf("Failed to register broadcast module: %v", err)
	}
	if err := app.Register(apiModule); err != nil {
		log.Fatalf("Failed to register api module: %v", err)
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "1234"
	}

	log.Println("")
	log.Println("Chat relay started")
	log.Println("")
	log.Printf("WebSocket endpoint: ws://localhost:%s/ws", port)
	log.Println("  inbound events:  set-nickname, get-users, get-channels,")
	log.Println("                   create-channel, join-channel, send-message, private-message")
	log.Println("  outbound events: update-users, update-channels, chat-history,")
	log.Println("                   receive-message, receive-private-message, error")
	log.Println("")
	log.Printf("REST endpoints (http://localhost:%s):", port)
	log.Println("  GET /health")
	log.Println("  GET /api/v1/channels")
	log.Println("  GET /api/v1/channels/:name/history")
	log.Println("  GET /api/v1/users")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
