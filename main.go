package main

import (
	"context"
	"log"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/middleware/accesslog"
	"github.com/go-monolith/mono/middleware/requestid"

	"github.com/jstihl01/pokervitoria/config"
	"github.com/jstihl01/pokervitoria/modules/api"
	"github.com/jstihl01/pokervitoria/modules/broadcast"
	"github.com/jstihl01/pokervitoria/modules/gateway"
	"github.com/jstihl01/pokervitoria/modules/room"
)

func main() {
	log.Println("Starting pokervitoria room server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	logger := app.Logger()

	// Middleware must be registered before regular modules
	var modules []mono.Module
	if cfg.AccessLog {
		modules = append(modules, accessLogMiddleware()...)
	}

	roomModule := room.NewModule(cfg.DefaultRooms, logger)
	broadcastModule := broadcast.NewModule(roomModule.Membership(), cfg.ClientQueueSize, logger)
	gatewayModule := gateway.NewModule(
		roomModule.Membership(),
		broadcastModule.Hub(),
		broadcastModule.Publisher(),
		logger,
	)
	roomModule.AddNotifier(gatewayModule.Notifier())

	apiModule := api.NewModule(cfg.Addr(), cfg.CORSAllowedOrigins, cfg.IsDevelopment(), logger)
	apiModule.SetHub(broadcastModule.Hub())
	apiModule.SetGateway(gatewayModule.Gateway())

	modules = append(modules, roomModule, broadcastModule, gatewayModule, apiModule)
	for _, module := range modules {
		if err := app.Register(module); err != nil {
			log.Fatalf("Failed to register %s module: %v", module.Name(), err)
		}
	}

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
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

// accessLogMiddleware returns request ID propagation and JSON access logging
// for every request-reply service call.
func accessLogMiddleware() []mono.Module {
	requestIDMiddleware, err := requestid.New(
		requestid.WithHeaderName("X-Request-ID"),
	)
	if err != nil {
		log.Fatalf("Failed to create request ID middleware: %v", err)
	}

	accessLog, err := accesslog.New(
		accesslog.WithOutput(os.Stdout),
		accesslog.WithFormat(accesslog.FormatJSON),
	)
	if err != nil {
		log.Fatalf("Failed to create access log middleware: %v", err)
	}

	return []mono.Module{requestIDMiddleware, accessLog}
}

func printStartupInfo(cfg *config.Config) {
	log.Println("Application started successfully!")
	log.Printf("Environment: %s", cfg.Env)
	log.Println("")
	log.Println("REST endpoints:")
	log.Printf("  GET    http://localhost:%s/health", cfg.Port)
	log.Printf("  GET    http://localhost:%s/metrics", cfg.Port)
	log.Printf("  GET    http://localhost:%s/api/v1/rooms", cfg.Port)
	log.Printf("  POST   http://localhost:%s/api/v1/rooms", cfg.Port)
	log.Printf("  GET    http://localhost:%s/api/v1/rooms/:id", cfg.Port)
	log.Printf("  DELETE http://localhost:%s/api/v1/rooms/:id", cfg.Port)
	log.Printf("  GET    http://localhost:%s/api/v1/rooms/:id/players", cfg.Port)
	log.Printf("  POST   http://localhost:%s/api/v1/rooms/:id/players", cfg.Port)
	log.Println("")
	log.Printf("Realtime: ws://localhost:%s/ws", cfg.Port)
	log.Println("  send:    room:join {roomId, playerName}, room:leave")
	log.Println("  receive: room:joined, room:left, room:players, error")
	log.Println("")
	log.Println("Press Ctrl+C to trigger graceful shutdown")
}
