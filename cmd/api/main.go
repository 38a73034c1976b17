// @title           ChatPDF API
// @version         1.0
// @description     Upload PDF documents to a session and chat with them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/ChatPDF/internal/bootstrap"
	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/handlers"
	"github.com/akolanti/ChatPDF/internal/mcpServer"
	"github.com/akolanti/ChatPDF/internal/middleware"
	"github.com/akolanti/ChatPDF/internal/server"
	"github.com/akolanti/ChatPDF/internal/telemetry"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/joho/godotenv"
)

func main() {
	var configPath, listenAddr string
	flag.StringVar(&configPath, "config", "config.yaml", "optional yaml settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address, overrides settings")
	flag.Parse()

	_ = godotenv.Load()
	settings, err := config.Load(configPath)
	logger_i.Init(settings.IsProd)
	logger := logger_i.NewLogger("main")
	if err != nil {
		logger.Error("invalid settings", "error", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Init(ctx, settings.ServiceName, settings.OTLPEndpoint)
	if err != nil {
		logger.Error("tracing disabled", "error", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	app, err := bootstrap.Build(ctx, settings)
	if err != nil {
		logger.Error("One or more external services failed to initialize. Shutting down.", "error", err)
		_ = shutdownTracing(ctx)
		os.Exit(1)
	}

	middleware.SetAuthToken(settings.AuthToken)
	routes := server.Routes{
		Sessions: handlers.NewSessionHandler(app.Orchestrator),
		MCP:      mcpServer.NewHTTPHandler(mcpServer.NewServer(app.Orchestrator)),
	}

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.ShutDownHandler(server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices: func(ctx context.Context) {
			app.Close(ctx)
			if err := shutdownTracing(ctx); err != nil {
				logger.Error("flushing spans failed", "error", err)
			}
		},
	})
	go server.CreateServer(settings.ListenAddr, routes)

	<-stopExecution
	logger.Info("Server stopped")
}
