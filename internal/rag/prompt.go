package rag

import (
	"strconv"
	"strings"

	"github.com/akolanti/kbchat/internal/domain/commonModels"
)

// BuildContextBlock renders "[n] source\ntext" per passage, 1-based, separated by a blank line.
// The numbers are the citation indexes the model is told to use, so [n] always means sources[n-1].
func BuildContextBlock(passages []commonModels.Passage) string {
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("] ")
		b.WriteString(p.SourceLabel())
		b.WriteString("\n")
		b.WriteString(p.Text)
	}
	return b.String()
}

func BuildUserPrompt(contextBlock string, question string) string {
	return "Context:\n" + contextBlock + "\n\nQuestion:\n" + question + "\n\nAnswer with citations."
}
