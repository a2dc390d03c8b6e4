package handlers

import (
	"errors"
	"net/http"

	"github.com/akolanti/kbchat/internal/adapter"
	"github.com/akolanti/kbchat/internal/api"
	"github.com/akolanti/kbchat/internal/domain/commonModels"
)

// HealthHandler godoc
// @Summary      Liveness probe
// @Description  Static liveness response.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse  "Service is up"
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// Chat godoc
// @Summary      Answer a question with cited sources
// @Description  Retrieves passages from the knowledge base, asks the model for an answer citing them as [n] and returns the answer with the passages used.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest    true  "Question and optional top_k"
// @Success      200      {object}  api.ChatResponse   "Answer and sources"
// @Failure      422      {object}  api.ErrorResponse  "Malformed body, empty message or top_k outside 1..20"
// @Failure      500      {object}  api.ErrorResponse  "Knowledge base or model failure"
// @Router       /v1/chat [post]
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	log := h.logger.WithTrace(r.Context())

	query, err := h.decodeChatRequest(w, r)
	if err != nil {
		log.Warn("Bad Chat Request", "error", err)
		WriteErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	answer, err := h.service.Answer(r.Context(), query.message, query.topK)
	if err != nil {
		var retrievalErr *commonModels.RetrievalError
		var generationErr *commonModels.GenerationError
		switch {
		case errors.As(err, &retrievalErr):
			log.Error("chat failed at retrieval", "error", err)
		case errors.As(err, &generationErr):
			log.Error("chat failed at generation", "error", err)
		default:
			log.Error("chat failed", "error", err)
		}
		WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info("chat answered", "topK", query.topK, "sources", len(answer.Sources))
	writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(answer))
}
