package gemini

import (
	"context"
	"net/http"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/rag/llm"
	"github.com/akolanti/kbchat/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

// GetGeminiClient builds the Gemini API provider. baseURL is empty outside tests.
func GetGeminiClient(ctx context.Context, settings config.Settings, httpClient *http.Client, baseURL string) (llm.Provider, error) {
	logger := logger_i.NewLogger("llm_gemini")

	clientConfig := &genai.ClientConfig{
		APIKey:     settings.GoogleAPIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	c, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		logger.Error("Error creating Gemini client", "error", err)
		return nil, &config.ConfigurationError{Setting: "GOOGLE_API_KEY", Reason: "could not create gemini client", Err: err}
	}
	logger.Info("Gemini client created", "model", settings.GeminiModel)

	return &llmClient{client: c, modelName: settings.GeminiModel, logger: logger}, nil
}

func (c *llmClient) Generate(ctx context.Context, systemInstruction string, userPrompt string) (string, error) {
	log := c.logger.WithTrace(ctx)

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(userPrompt), contentConfig)
	if err != nil {
		log.Error("Gemini generate content failed", "error", err)
		return "", &commonModels.GenerationError{Provider: config.ProviderGemini, Model: c.modelName, Err: err}
	}
	if result == nil {
		return "", nil
	}
	return result.Text(), nil
}
