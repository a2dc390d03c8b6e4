package gemini_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/rag/llm/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settings = config.Settings{GoogleAPIKey: "g-test", GeminiModel: "gemini-2.5-flash"}

func TestGenerate_ReturnsCandidateText(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "gemini-2.5-flash:generateContent"), r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Twenty days [1]."}]}}]}`)
	}))
	defer srv.Close()

	p, err := gemini.GetGeminiClient(context.Background(), settings, srv.Client(), srv.URL)
	require.NoError(t, err)

	answer, err := p.Generate(context.Background(), "use only context", "the question")
	require.NoError(t, err)
	assert.Equal(t, "Twenty days [1].", answer)
	assert.Contains(t, body, "systemInstruction")
	assert.Contains(t, body, "contents")
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}))
	defer srv.Close()

	p, err := gemini.GetGeminiClient(context.Background(), settings, srv.Client(), srv.URL)
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "s", "u")
	require.Error(t, err)

	var genErr *commonModels.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, config.ProviderGemini, genErr.Provider)
}
