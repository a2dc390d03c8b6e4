// @title           Knowledge Base Chat API
// @version         1.0
// @description     Answers questions from a Bedrock knowledge base with cited sources
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/customHttpClient"
	"github.com/akolanti/kbchat/internal/handlers"
	"github.com/akolanti/kbchat/internal/mcpServer"
	"github.com/akolanti/kbchat/internal/rag"
	"github.com/akolanti/kbchat/internal/rag/knowledgeBase/bedrockKB"
	"github.com/akolanti/kbchat/internal/rag/llm"
	"github.com/akolanti/kbchat/internal/rag/llm/gemini"
	"github.com/akolanti/kbchat/internal/rag/llm/openaiLLM"
	"github.com/akolanti/kbchat/internal/server"
	"github.com/akolanti/kbchat/pkg/logger_i"
)

var listenAddr string

func main() {
	settings, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup aborted:", err)
		os.Exit(1)
	}

	logger_i.Init(settings.IsProd())
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", settings.ListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	// one pooled transport for every upstream; deadlines come from the sdk and the caller
	httpClient := customHttpClient.NewPooledClient(0)

	knowledgeBase, err := bedrockKB.NewRetriever(serviceContext, settings, httpClient)
	if err != nil {
		logger.Error("Knowledge base client failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}

	llmProvider, err := newLLMProvider(serviceContext, settings, httpClient)
	if err != nil {
		logger.Error("LLM provider failed to initialize. Shutting down.", "error", err)
		os.Exit(1)
	}

	ragService := rag.NewService(knowledgeBase, llmProvider)
	chatHandler := handlers.NewChatHandler(ragService, settings.DefaultTopK)
	mcpHandler := mcpServer.NewHandler(mcpServer.NewServer(ragService, settings))

	logger.Info("Starting service", "app", settings.AppName, "env", settings.Env,
		"region", settings.Region, "provider", settings.LLMProvider, "model", settings.ModelName())

	router := server.NewRouter(chatHandler, mcpHandler)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, router)

	<-stopExecution
	if server.Crashed() {
		logger.Error("Server stopped after a listener failure")
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func newLLMProvider(ctx context.Context, settings config.Settings, httpClient *http.Client) (llm.Provider, error) {
	switch settings.LLMProvider {
	case config.ProviderGemini:
		return gemini.GetGeminiClient(ctx, settings, httpClient, "")
	default:
		return openaiLLM.NewProvider(settings, httpClient), nil
	}
}
