package commonModels

import "fmt"

// ValidationError rejects a request before any upstream call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RetrievalError is returned when the knowledge base call fails or runs out of retries.
type RetrievalError struct {
	KnowledgeBaseID string
	Err             error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("knowledge base %s retrieval failed: %v", e.KnowledgeBaseID, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// GenerationError is returned when the completion call fails.
type GenerationError struct {
	Provider string
	Model    string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s completion with model %s failed: %v", e.Provider, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
