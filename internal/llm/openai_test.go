package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sant0-9/promptpilot/internal/config"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCustomProvider(srv.URL+"/v1/", "sk-test", "gpt-4o-mini").OpenAIProvider
}

func collect(t *testing.T, events <-chan StreamEvent) (string, bool, error) {
	t.Helper()
	var sb strings.Builder
	for ev := range events {
		if ev.Error != nil {
			return sb.String(), false, ev.Error
		}
		if ev.Done {
			return sb.String(), true, nil
		}
		sb.WriteString(ev.Chunk)
	}
	return sb.String(), false, nil
}

func TestStreamRequestShape(t *testing.T) {
	var got openAIRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: [DONE]\n\n")
	})

	events, err := p.Stream(context.Background(), NewRequest("", "sys", "user"))
	require.NoError(t, err)
	_, done, err := collect(t, events)
	require.NoError(t, err)
	assert.True(t, done)

	assert.True(t, got.Stream)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
}

func TestStreamFlushedChunks(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		f := w.(http.Flusher)
		io.WriteString(w, `data: {"choices":[{"delta":{"content":"Hel`)
		f.Flush()
		io.WriteString(w, "lo\"}}]}\n\n")
		f.Flush()
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\" there\"}}]}\n\ndata: [DONE]\n\n")
	})

	events, err := p.Stream(context.Background(), NewRequest("", "sys", "user"))
	require.NoError(t, err)
	text, done, err := collect(t, events)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "Hello there", text)
}

func TestStreamEndsWithoutSentinel(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\ndata: {\"cho")
	})

	events, err := p.Stream(context.Background(), NewRequest("", "sys", "user"))
	require.NoError(t, err)
	text, done, err := collect(t, events)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "partial", text)
}

func TestStreamAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"envelope", http.StatusUnauthorized, `{"error":{"message":"Incorrect API key provided"}}`, "Incorrect API key provided"},
		{"no envelope", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := p.Stream(context.Background(), NewRequest("", "sys", "user"))
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestStreamNotEventStream(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"choices":[{"message":{"content":"hi"}}]}`)
	})
	_, err := p.Stream(context.Background(), NewRequest("", "sys", "user"))
	assert.ErrorIs(t, err, ErrStreamingUnsupported)
}

func TestStreamCancel(t *testing.T) {
	release := make(chan struct{})
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := p.Stream(ctx, NewRequest("", "sys", "user"))
	require.NoError(t, err)

	ev := <-events
	assert.Equal(t, "a", ev.Chunk)
	cancel()

	// channel closes without an error event
	for ev := range events {
		assert.NoError(t, ev.Error)
	}
}

func TestComplete(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"\"\"\"Better\"\"\""}}],
			"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}
		}`)
	})

	resp, err := p.Complete(context.Background(), NewRequest("", "sys", "user"))
	require.NoError(t, err)
	assert.Equal(t, `"""Better"""`, resp.Content)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
}

func TestCompleteAPIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"Rate limit reached","type":"requests"}}`)
	})

	_, err := p.Complete(context.Background(), NewRequest("", "sys", "user"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "Rate limit reached", apiErr.Message)
}

func TestPing(t *testing.T) {
	tests := []struct {
		status  int
		wantErr bool
	}{
		{http.StatusOK, false},
		{http.StatusUnauthorized, true},
		{http.StatusInternalServerError, true},
	}
	for _, tt := range tests {
		p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/models", r.URL.Path)
			w.WriteHeader(tt.status)
		})
		err := p.Ping(context.Background())
		if (err != nil) != tt.wantErr {
			t.Errorf("Ping() status %d error = %v, wantErr %v", tt.status, err, tt.wantErr)
		}
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		key     string
		want    string
		wantErr bool
	}{
		{"openai", config.Config{Provider: "openai"}, "sk", "openai", false},
		{"default", config.Config{}, "sk", "openai", false},
		{"openai no key", config.Config{Provider: "openai"}, "", "", true},
		{"groq", config.Config{Provider: "groq"}, "gsk", "groq", false},
		{"groq no key", config.Config{Provider: "groq"}, "", "", true},
		{"openrouter", config.Config{Provider: "openrouter"}, "or", "openrouter", false},
		{"custom", config.Config{Provider: "custom", BaseURL: "http://localhost:1234/v1"}, "", "custom", false},
		{"custom no url", config.Config{Provider: "custom"}, "", "", true},
		{"unknown", config.Config{Provider: "ollama"}, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(&tt.cfg, tt.key, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}
