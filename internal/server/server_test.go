package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct{}

func (stubService) Answer(context.Context, string, int) (commonModels.Answer, error) {
	return commonModels.Answer{Text: "ok"}, nil
}

func TestNewRouter_Routes(t *testing.T) {
	mcpHit := false
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mcpHit = true
		w.WriteHeader(http.StatusAccepted)
	})
	router := NewRouter(handlers.NewChatHandler(stubService{}, 4), mcp)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"chat", http.MethodPost, "/v1/chat", `{"message":"hi"}`, http.StatusOK},
		{"chat wrong method", http.MethodGet, "/v1/chat", "", http.StatusMethodNotAllowed},
		{"mcp", http.MethodPost, "/mcp", `{}`, http.StatusAccepted},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(config.TraceHeader))
		})
	}
	assert.True(t, mcpHit)
}

func TestNewRouter_WithoutMCP(t *testing.T) {
	router := NewRouter(handlers.NewChatHandler(stubService{}, 4), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateServer_ListenFailureStopsWithCrash(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	stop := make(chan bool, 1)
	closed := false
	go ShutDownHandler(ShutdownParams{
		GracefulShutdown: make(chan os.Signal, 1),
		StopExecution:    stop,
		CloseServices:    func() { closed = true },
	})

	CreateServer(occupied.Addr().String(), http.NotFoundHandler())

	select {
	case <-stop:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown handler did not release after the listener failed")
	}
	assert.True(t, Crashed())
	assert.True(t, closed)
}
