package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/akolanti/kbchat/internal/api"
	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
	"github.com/akolanti/kbchat/internal/rag"
	"github.com/akolanti/kbchat/pkg/logger_i"
)

type ChatHandler struct {
	service     rag.Service
	defaultTopK int
	logger      *logger_i.Logger
}

func NewChatHandler(service rag.Service, defaultTopK int) *ChatHandler {
	logger := logger_i.NewLogger("ChatHandler")
	logger.Info("Starting chat handler", "defaultTopK", defaultTopK)
	return &ChatHandler{
		service:     service,
		defaultTopK: defaultTopK,
		logger:      logger,
	}
}

type chatQuery struct {
	message string
	topK    int
}

// decodeChatRequest parses and validates the body; every failure is a *commonModels.ValidationError.
func (h *ChatHandler) decodeChatRequest(w http.ResponseWriter, r *http.Request) (chatQuery, error) {
	var requestData api.ChatRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes))
	if err := decoder.Decode(&requestData); err != nil {
		return chatQuery{}, &commonModels.ValidationError{Field: "body", Reason: describeDecodeError(err)}
	}
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); !errors.Is(err, io.EOF) {
		return chatQuery{}, &commonModels.ValidationError{Field: "body", Reason: "must contain a single JSON object"}
	}

	topK := h.defaultTopK
	if requestData.TopK != nil {
		topK = *requestData.TopK
	}
	if err := rag.ValidateQuery(requestData.Message, topK); err != nil {
		return chatQuery{}, err
	}
	return chatQuery{message: requestData.Message, topK: topK}, nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var sizeErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %s must be %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &sizeErr):
		return "request body too large"
	case errors.Is(err, io.EOF):
		return "request body is empty"
	default:
		return "malformed JSON"
	}
}
