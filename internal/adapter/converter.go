package adapter

import (
	"github.com/akolanti/kbchat/internal/api"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
)

func ToChatResponse(answer commonModels.Answer) api.ChatResponse {
	return api.ChatResponse{
		Answer:  answer.Text,
		Sources: ToSources(answer.Sources),
	}
}

// ToSources keeps order and never returns nil, so an empty result encodes as [].
func ToSources(passages []commonModels.Passage) []api.Source {
	sources := make([]api.Source, 0, len(passages))
	for _, p := range passages {
		sources = append(sources, api.Source{
			Text:     p.Text,
			Location: nonNil(p.Location),
			Metadata: nonNil(p.Metadata),
			Score:    p.Score,
		})
	}
	return sources
}

func ToErrorResponse(detail string) api.ErrorResponse {
	return api.ErrorResponse{Detail: detail}
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
