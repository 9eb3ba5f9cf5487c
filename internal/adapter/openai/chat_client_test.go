package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"book-recommender/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestChatClient_Chat_Success(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"  [{\"title\":\"Dune\"}]  "}}]}`))
	}))
	defer server.Close()

	client := NewChatClient(server.URL, "sk-test", "gpt-4o-mini", 5*time.Second, testLogger())
	resp, err := client.Chat(context.Background(), []domain.Message{
		{Role: "system", Content: "recommend books"},
		{Role: "user", Content: "15 mystery books"},
	}, 0.7)

	assert.NoError(t, err)
	assert.Equal(t, `[{"title":"Dune"}]`, resp.Text, "content is trimmed")

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.False(t, captured.Stream)
	assert.Equal(t, 0.7, captured.Temperature)
	assert.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
}

func TestChatClient_Chat_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
	}))
	defer server.Close()

	client := NewChatClient(server.URL, "", "gpt-4o-mini", 5*time.Second, testLogger())
	resp, err := client.Chat(context.Background(), []domain.Message{{Role: "user", Content: "hi"}}, 0)

	assert.Nil(t, resp)
	var upstream *domain.UpstreamGenerationError
	assert.ErrorAs(t, err, &upstream)
	assert.Equal(t, "rate limit exceeded", err.Error(), "structured upstream message is surfaced verbatim")
}

func TestChatClient_Chat_NonSuccessStatusRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewChatClient(server.URL, "", "gpt-4o-mini", 5*time.Second, testLogger())
	_, err := client.Chat(context.Background(), []domain.Message{{Role: "user", Content: "hi"}}, 0)

	var upstream *domain.UpstreamGenerationError
	assert.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestChatClient_Chat_EmptyContent(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"choices":[]}`,
		"blank content": `{"choices":[{"message":{"content":"   "}}]}`,
		"not json":      `<html>gateway timeout</html>`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			client := NewChatClient(server.URL, "", "gpt-4o-mini", 5*time.Second, testLogger())
			resp, err := client.Chat(context.Background(), []domain.Message{{Role: "user", Content: "hi"}}, 0)

			assert.Nil(t, resp)
			var upstream *domain.UpstreamGenerationError
			assert.ErrorAs(t, err, &upstream)
			assert.Equal(t, "invalid response format", err.Error())
		})
	}
}

func TestChatClient_Chat_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[]"}}]}`))
	}))
	defer server.Close()

	client := NewChatClient(server.URL, "", "local-model", 5*time.Second, testLogger())
	_, err := client.Chat(context.Background(), []domain.Message{{Role: "user", Content: "hi"}}, 0)
	assert.NoError(t, err)
}
