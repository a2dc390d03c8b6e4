package rag

import (
	"context"
	"time"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/metrics"
	"github.com/akolanti/kbchat/internal/rag/knowledgeBase"
	"github.com/akolanti/kbchat/internal/rag/llm"
	"github.com/akolanti/kbchat/pkg/logger_i"
)

// Service is what the HTTP and MCP surfaces call; it hides the knowledge base and the model.
type Service interface {
	Answer(ctx context.Context, question string, topK int) (commonModels.Answer, error)
}

type service struct {
	knowledgeBase knowledgeBase.Retriever
	llmProvider   llm.Provider
	logger        *logger_i.Logger
}

func NewService(kb knowledgeBase.Retriever, provider llm.Provider) Service {
	return &service{
		knowledgeBase: kb,
		llmProvider:   provider,
		logger:        logger_i.NewLogger("RAG Service"),
	}
}

// Answer retrieves passages, numbers them into a context block and asks the model for a cited answer.
// Sources are exactly the retrieved passages, in retrieval order. Nothing partial is returned on error.
func (s *service) Answer(ctx context.Context, question string, topK int) (commonModels.Answer, error) {
	log := s.logger.WithTrace(ctx)

	start := time.Now()
	status := "error"
	defer func() { metrics.CaptureChatMetrics(status, time.Since(start)) }()

	passages, err := s.executeRetrievalStep(ctx, log, question, topK)
	if err != nil {
		return commonModels.Answer{}, err
	}

	userPrompt := BuildUserPrompt(BuildContextBlock(passages), question)

	text, err := s.executeGenerationStep(ctx, log, userPrompt)
	if err != nil {
		return commonModels.Answer{}, err
	}

	status = "ok"
	return commonModels.Answer{Text: text, Sources: passages}, nil
}

// ValidateQuery enforces the request rules shared by every surface.
func ValidateQuery(question string, topK int) error {
	if question == "" {
		return &commonModels.ValidationError{Field: "message", Reason: "must not be empty"}
	}
	if !config.ValidTopK(topK) {
		return &commonModels.ValidationError{Field: "top_k", Reason: "must be between 1 and 20"}
	}
	return nil
}
