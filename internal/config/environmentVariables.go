package config

import (
	"log/slog"
	"time"
)

type traceKey string

const (
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = traceKey("traceId")
	TraceHeader    = "X-Trace-Id"

	//top_k bounds, enforced on config load and on every request
	MinTopK = 1
	MaxTopK = 20

	//the chat UI slider only goes to 10
	UIMaxTopK = 10

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 130 * time.Second //must outlive FrontendRequestTimeout
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//request body cap for POST /v1/chat
	MaxRequestBodyBytes = 1 << 20

	//bedrock knowledge base, retry policy is owned by the sdk (standard mode)
	RetrievalMaxAttempts = 3

	//front end
	FrontendRequestTimeout = 120 * time.Second
	DefaultAPIURL          = "http://localhost:8000/v1/chat"
	SourcePreviewChars     = 800

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
	DialTimeout         = 10 * time.Second

	SystemInstruction = "You are an internal knowledge-base assistant. Use only the provided context. " +
		"If context is insufficient, say so and ask a focused follow-up. " +
		"Cite sources like [1], [2]."
)

// setting defaults
const (
	defaultAppName     = "Knowledge Base Chat"
	defaultEnv         = "dev"
	defaultRegion      = "ca-central-1"
	defaultProvider    = ProviderOpenAI
	defaultOpenAIModel = "gpt-4.1"
	defaultGeminiModel = "gemini-2.5-flash"
	defaultTopK        = 4
	defaultListenAddr  = ":8000"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)
