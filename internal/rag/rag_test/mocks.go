package rag_test

import (
	"context"
	"sync/atomic"

	"github.com/akolanti/kbchat/internal/domain/commonModels"
)

// MockRetriever implements knowledgeBase.Retriever
type MockRetriever struct {
	OnRetrieve func(ctx context.Context, query string, topK int) ([]commonModels.Passage, error)
	Calls      int32
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string, topK int) ([]commonModels.Passage, error) {
	atomic.AddInt32(&m.Calls, 1)
	if m.OnRetrieve != nil {
		return m.OnRetrieve(ctx, query, topK)
	}
	return []commonModels.Passage{{Text: "default context", Metadata: map[string]any{}, Location: map[string]any{}}}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, system string, user string) (string, error)
	Calls      int32
	LastSystem string
	LastPrompt string
}

func (m *MockLLM) Generate(ctx context.Context, system string, user string) (string, error) {
	atomic.AddInt32(&m.Calls, 1)
	m.LastSystem = system
	m.LastPrompt = user
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, system, user)
	}
	return "mocked llm response", nil
}

func passages(sources ...string) []commonModels.Passage {
	out := make([]commonModels.Passage, 0, len(sources))
	for _, s := range sources {
		out = append(out, commonModels.Passage{
			Text:     "text from " + s,
			Metadata: map[string]any{"source": s},
			Location: map[string]any{},
		})
	}
	return out
}
