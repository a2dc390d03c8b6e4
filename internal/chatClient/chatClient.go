package chatClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/akolanti/kbchat/internal/api"
	"github.com/akolanti/kbchat/internal/customHttpClient"
	"github.com/akolanti/kbchat/pkg/logger_i"
)

// Client posts questions to a running chat API.
type Client struct {
	apiURL string
	client *http.Client
	logger *logger_i.Logger
}

func New(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		client: customHttpClient.NewPooledClient(timeout),
		logger: logger_i.NewLogger("chat_client"),
	}
}

// APIError carries a non-2xx reply; Detail is the server's explanation when it sent one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("chat api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("chat api returned %d: %s", e.StatusCode, e.Detail)
}

func (c *Client) Ask(ctx context.Context, message string, topK int) (api.ChatResponse, error) {
	data, err := json.Marshal(api.ChatRequest{Message: message, TopK: &topK})
	if err != nil {
		return api.ChatResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(data))
	if err != nil {
		return api.ChatResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending chat request", "url", c.apiURL, "topK", topK)
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("chat request failed", "error", err)
		return api.ChatResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
		c.logger.Warn("chat api rejected request", "status", resp.StatusCode, "detail", apiErr.Detail)
		return api.ChatResponse{}, apiErr
	}

	var out api.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return api.ChatResponse{}, fmt.Errorf("decode chat response: %w", err)
	}
	return out, nil
}

// readDetail prefers the {"detail": ...} body and falls back to the raw text.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil {
		return ""
	}
	var errResp api.ErrorResponse
	if json.Unmarshal(raw, &errResp) == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return strings.TrimSpace(string(raw))
}
