package mcpServer

import (
	"context"
	"net/http"

	"github.com/akolanti/kbchat/internal/adapter"
	"github.com/akolanti/kbchat/internal/api"
	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/rag"
	"github.com/akolanti/kbchat/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "kbchat"
	serverVersion = "1.0.0"
	ToolName      = "ask_knowledge_base"
)

type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the knowledge base"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of passages to retrieve, 1 to 20; omitted uses the server default"`
}

type AskOutput struct {
	Answer  string       `json:"answer" jsonschema:"answer citing sources as [n]"`
	Sources []api.Source `json:"sources" jsonschema:"retrieved passages; sources[n-1] is citation [n]"`
}

type askTool struct {
	service     rag.Service
	defaultTopK int
	logger      *logger_i.Logger
}

// NewServer exposes the chat pipeline to MCP clients as a single tool.
func NewServer(service rag.Service, settings config.Settings) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	tool := &askTool{
		service:     service,
		defaultTopK: settings.DefaultTopK,
		logger:      logger_i.NewLogger("mcp"),
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Answer a question from the internal knowledge base. The answer cites the returned sources as [1], [2], ...",
	}, tool.ask)
	return server
}

// NewHandler serves server over the streamable HTTP transport.
func NewHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

func (t *askTool) ask(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	log := t.logger.WithTrace(ctx)

	topK := in.TopK
	if topK == 0 {
		topK = t.defaultTopK
	}
	if err := rag.ValidateQuery(in.Question, topK); err != nil {
		log.Warn("rejected tool call", "error", err)
		return nil, AskOutput{}, err
	}

	answer, err := t.service.Answer(ctx, in.Question, topK)
	if err != nil {
		log.Error("tool call failed", "error", err)
		return nil, AskOutput{}, err
	}

	resp := adapter.ToChatResponse(answer)
	return nil, AskOutput{Answer: resp.Answer, Sources: resp.Sources}, nil
}
