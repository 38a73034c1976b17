package server

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/akolanti/ChatPDF/internal/adapter/utils"
	"github.com/akolanti/ChatPDF/internal/config"
	"github.com/akolanti/ChatPDF/internal/handlers"
	"github.com/akolanti/ChatPDF/internal/middleware"
	"github.com/akolanti/ChatPDF/internal/telemetry"
	"github.com/akolanti/ChatPDF/pkg/logger_i"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	server  *http.Server
	_logger = logger_i.NewLogger("Server")
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	// CloseServices ends sessions and releases the backends; it runs after
	// the listener has drained.
	CloseServices func(ctx context.Context)
}

// Routes are the handlers mounted on the router. MCP is optional.
type Routes struct {
	Sessions *handlers.SessionHandler
	MCP      http.Handler
}

// NewHandler builds the full route tree, instrumented as "server_request".
func NewHandler(routes Routes) http.Handler {
	r := utils.NewRouter()
	h := routes.Sessions

	r.Get("/healthz", h.GetHealth)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", middleware.Wrap(h.CreateSession))
		r.Get("/{id}", middleware.Wrap(h.GetSession))
		r.Delete("/{id}", middleware.Wrap(h.DeleteSession))
		r.Post("/{id}/documents", middleware.Wrap(h.PostDocuments))
		r.Post("/{id}/chat", middleware.Wrap(h.Chat))
	})
	if routes.MCP != nil {
		r.Handle("/mcp", middleware.WrapHandler(routes.MCP))
	}
	return otelhttp.NewHandler(r, telemetry.SpanServerRequest)
}

func CreateServer(listenAddr string, routes Routes) {
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      NewHandler(routes),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err, "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		if server != nil {
			server.SetKeepAlivesEnabled(false)
			if err := server.Shutdown(ctx); err != nil {
				_logger.Error("Could not shutdown gracefully", "error", err)
			}
		}
		shutdownParams.CloseServices(ctx)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Warn("Force shut down")
	}
	close(shutdownParams.StopExecution)
}
