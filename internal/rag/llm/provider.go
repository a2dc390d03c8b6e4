package llm

import "context"

// Provider sends one system instruction and one user prompt to a hosted model and returns its text.
// Failures are *commonModels.GenerationError. No retries happen here beyond what the sdk does.
type Provider interface {
	Generate(ctx context.Context, systemInstruction string, userPrompt string) (string, error)
}
