package rag

import (
	"testing"

	"github.com/akolanti/kbchat/internal/domain/commonModels"
)

func TestBuildContextBlock(t *testing.T) {
	passages := []commonModels.Passage{
		{Text: "Employees get 20 days.", Metadata: map[string]any{"source": "handbook.pdf"}},
		{Text: "Carry-over is capped at 5 days.", Metadata: map[string]any{}},
		{Text: "", Metadata: map[string]any{"source": "faq.md"}},
	}

	got := BuildContextBlock(passages)
	want := "[1] handbook.pdf\nEmployees get 20 days.\n\n[2] \nCarry-over is capped at 5 days.\n\n[3] faq.md\n"
	if got != want {
		t.Errorf("BuildContextBlock() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildContextBlock_Empty(t *testing.T) {
	if got := BuildContextBlock(nil); got != "" {
		t.Errorf("BuildContextBlock(nil) = %q; want empty", got)
	}
}

func TestBuildUserPrompt(t *testing.T) {
	got := BuildUserPrompt("[1] a\nb", "What is the vacation policy?")
	want := "Context:\n[1] a\nb\n\nQuestion:\nWhat is the vacation policy?\n\nAnswer with citations."
	if got != want {
		t.Errorf("BuildUserPrompt() = %q; want %q", got, want)
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name     string
		question string
		topK     int
		field    string
	}{
		{"valid lower bound", "q", 1, ""},
		{"valid upper bound", "q", 20, ""},
		{"empty message", "", 4, "message"},
		{"top k zero", "q", 0, "top_k"},
		{"top k too large", "q", 21, "top_k"},
		{"negative top k", "q", -3, "top_k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.question, tt.topK)
			if tt.field == "" {
				if err != nil {
					t.Errorf("ValidateQuery() unexpected error %v", err)
				}
				return
			}
			vErr, ok := err.(*commonModels.ValidationError)
			if !ok {
				t.Fatalf("ValidateQuery() error = %v; want *ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("field = %s; want %s", vErr.Field, tt.field)
			}
		})
	}
}
