package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"book-recommender/internal/domain"
	"book-recommender/internal/infra/httpclient"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ChatClient sends chat completions to an OpenAI-compatible endpoint and
// returns the assistant message.
type ChatClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
	logger  *slog.Logger
}

// NewChatClient constructs a client for the provided endpoint and model name.
func NewChatClient(baseURL, apiKey, model string, timeout time.Duration, logger *slog.Logger) *ChatClient {
	return &ChatClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		Client:  httpclient.NewPooledClient(timeout),
		logger:  logger,
	}
}

// Chat requests a single non-streaming completion. A non-success status or
// an empty completion maps to an UpstreamGenerationError carrying the
// upstream message.
func (c *ChatClient) Chat(ctx context.Context, messages []domain.Message, temperature float64) (*domain.LLMResponse, error) {
	reqBody := chatRequest{
		Model:       c.Model,
		Messages:    make([]chatMessage, 0, len(messages)),
		Temperature: temperature,
		Stream:      false,
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, &domain.UpstreamGenerationError{
			Message: fmt.Sprintf("failed to call generation endpoint: %v", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("generation_endpoint_error",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)))
		return nil, &domain.UpstreamGenerationError{
			Message: upstreamMessage(resp.StatusCode, body),
		}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, &domain.UpstreamGenerationError{Message: "invalid response format"}
	}

	if len(chatResp.Choices) == 0 {
		return nil, &domain.UpstreamGenerationError{Message: "invalid response format"}
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return nil, &domain.UpstreamGenerationError{Message: "invalid response format"}
	}

	return &domain.LLMResponse{Text: content}, nil
}

// Version returns the wrapped model name.
func (c *ChatClient) Version() string {
	return c.Model
}

// upstreamMessage prefers the structured error message when the body is the
// standard {"error": {"message": ...}} shape, otherwise falls back to the
// raw body.
func upstreamMessage(status int, body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fmt.Sprintf("generation endpoint returned %d: %s", status, string(body))
}

var _ domain.LLMClient = (*ChatClient)(nil)
