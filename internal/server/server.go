package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/kbchat/internal/adapter/utils"
	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/handlers"
	"github.com/akolanti/kbchat/internal/middleware"
	"github.com/akolanti/kbchat/pkg/logger_i"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	CloseServices    context.CancelFunc
}

// NewRouter mounts the chat API, the health probe and, when given, the MCP endpoint.
func NewRouter(chat *handlers.ChatHandler, mcpHandler http.Handler) http.Handler {
	_logger = logger_i.NewLogger("Server")
	r := utils.NewRouter(middleware.Instrument)

	r.Get("/health", handlers.HealthHandler)
	r.Post("/v1/chat", chat.Chat)
	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
	}
	return r
}

// CreateServer blocks serving handler on listenAddr until the server is shut down.
func CreateServer(listenAddr string, handler http.Handler) {
	if _logger == nil {
		_logger = logger_i.NewLogger("Server")
	}
	server = &http.Server{
		Addr:         listenAddr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
		crashOnce.Do(func() { close(crashed) })
	}
}

// crashed lets ShutDownHandler stop waiting for a signal when ListenAndServe fails.
var (
	crashed   = make(chan struct{})
	crashOnce sync.Once
)

// Crashed reports whether the listener failed instead of being shut down.
func Crashed() bool {
	select {
	case <-crashed:
		return true
	default:
		return false
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	select {
	case state := <-shutdownParams.GracefulShutdown:
		_logger.Info("Server is shutting down", "signal", state.String())
	case <-crashed:
		_logger.Warn("Server stopped unexpectedly, releasing services")
	}

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

		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Gracefully shut down")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
