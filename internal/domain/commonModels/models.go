package commonModels

import "fmt"

// Passage is one knowledge-base result, normalized so that no field is ever nil except Score.
type Passage struct {
	Text     string         `json:"text"`
	Location map[string]any `json:"location"`
	Metadata map[string]any `json:"metadata"`
	Score    *float64       `json:"score"`
}

// SourceLabel is metadata["source"] rendered as text, or "" when absent.
func (p Passage) SourceLabel() string {
	v, ok := p.Metadata["source"]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Answer is the generated text together with the exact passages it was grounded on.
type Answer struct {
	Text    string
	Sources []Passage
}
