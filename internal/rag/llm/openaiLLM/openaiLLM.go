package openaiLLM

import (
	"context"
	"net/http"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/rag/llm"
	"github.com/akolanti/kbchat/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	client    openai.Client
	modelName string
	logger    *logger_i.Logger
}

// NewProvider builds a chat-completions client. Extra request options are appended after the
// configured ones, tests use them to point at a local server.
func NewProvider(settings config.Settings, httpClient *http.Client, opts ...option.RequestOption) llm.Provider {
	base := []option.RequestOption{
		option.WithAPIKey(settings.OpenAIAPIKey),
		option.WithHTTPClient(httpClient),
	}
	if settings.OpenAIBaseURL != "" {
		base = append(base, option.WithBaseURL(settings.OpenAIBaseURL))
	}

	logger := logger_i.NewLogger("llm_openai")
	logger.Info("OpenAI client created", "model", settings.OpenAIModel)
	return &llmClient{
		client:    openai.NewClient(append(base, opts...)...),
		modelName: settings.OpenAIModel,
		logger:    logger,
	}
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction string, userPrompt string) (string, error) {
	log := c.logger.WithTrace(ctx)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		log.Error("chat completion failed", "error", err)
		return "", &commonModels.GenerationError{Provider: config.ProviderOpenAI, Model: c.modelName, Err: err}
	}

	if len(completion.Choices) == 0 {
		log.Warn("chat completion returned no choices")
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
