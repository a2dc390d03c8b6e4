package knowledgeBase

import (
	"context"

	"github.com/akolanti/kbchat/internal/domain/commonModels"
)

// Retriever returns up to topK passages for query, in the order the knowledge base ranked them.
// Failures are *commonModels.RetrievalError.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]commonModels.Passage, error)
}
