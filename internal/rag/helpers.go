package rag

import (
	"context"
	"time"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/metrics"
	"github.com/akolanti/kbchat/pkg/logger_i"
)

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, question string, topK int) ([]commonModels.Passage, error) {
	log.Debug("Answer", "step", "retrieval", "topK", topK)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	passages, err := s.knowledgeBase.Retrieve(ctx, question, topK)
	if err != nil {
		log.Error("RETRIEVAL_FAILURE", "error", err)
		return nil, err
	}
	metrics.CaptureRetrievedPassages(len(passages))
	return passages, nil
}

func (s *service) executeGenerationStep(ctx context.Context, log *logger_i.Logger, userPrompt string) (string, error) {
	log.Debug("Answer", "step", "generation")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("generation", time.Since(start)) }()

	text, err := s.llmProvider.Generate(ctx, config.SystemInstruction, userPrompt)
	if err != nil {
		log.Error("LLM_GENERATION_FAILURE", "error", err)
		return "", err
	}
	return text, nil
}
