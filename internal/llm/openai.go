package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"

	// readChunk is the body read size handed to the Decoder
	readChunk = 4096
)

type OpenAIProvider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openAIDefaultModel
	}
	return newOpenAICompatible(apiKey, model, openAIBaseURL)
}

func newOpenAICompatible(apiKey, model, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: trimBase(baseURL),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// WithHTTPClient swaps the transport, mainly for tests
func (o *OpenAIProvider) WithHTTPClient(c *http.Client) *OpenAIProvider {
	o.httpClient = c
	return o
}

func (o *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the default model used when a request leaves it empty
func (o *OpenAIProvider) Model() string {
	return o.model
}

func (o *OpenAIProvider) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", o.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	o.authorize(req)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cannot connect to %s: %w", o.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("invalid API key")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return parseAPIError(resp.StatusCode, body)
	}

	return nil
}

func (o *OpenAIProvider) authorize(req *http.Request) {
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
}

func (o *OpenAIProvider) sdk() openai.Client {
	return openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(o.baseURL+"/"),
		option.WithHTTPClient(o.httpClient),
		option.WithMaxRetries(0),
	)
}

// Complete runs a non-streaming chat completion through the SDK
func (o *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(model),
		Messages: toSDKMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	client := o.sdk()
	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &APIError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, fmt.Errorf("%s request failed: %w", o.baseURL, err)
	}

	if len(completion.Choices) == 0 {
		return &CompletionResponse{Model: model}, nil
	}

	choice := completion.Choices[0]
	return &CompletionResponse{
		Content:      choice.Message.Content,
		Model:        model,
		FinishReason: string(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}

func toSDKMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// Stream posts a streaming chat request and decodes the event stream.
// HTTP and envelope errors are returned before any event is sent.
func (o *OpenAIProvider) Stream(ctx context.Context, req *CompletionRequest) (<-chan StreamEvent, error) {
	model := req.Model
	if model == "" {
		model = o.model
	}

	apiReq := openAIRequest{
		Model:       model,
		Messages:    toOpenAIMessages(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      true,
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST",
		o.baseURL+"/chat/completions",
		bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	o.authorize(httpReq)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", o.baseURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, parseAPIError(resp.StatusCode, body)
	}

	if !isEventStream(resp.Header.Get("Content-Type")) {
		resp.Body.Close()
		return nil, ErrStreamingUnsupported
	}

	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		defer resp.Body.Close()

		send := func(ev StreamEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		dec := NewDecoder()
		buf := make([]byte, readChunk)
		for {
			n, err := resp.Body.Read(buf)
			if n > 0 {
				for _, delta := range dec.Feed(buf[:n]) {
					if !send(StreamEvent{Chunk: delta}) {
						return
					}
				}
				if apiErr := dec.Err(); apiErr != nil {
					send(StreamEvent{Error: apiErr})
					return
				}
				if dec.Done() {
					send(StreamEvent{Done: true})
					return
				}
			}
			if errors.Is(err, io.EOF) {
				dec.Close()
				send(StreamEvent{Done: true})
				return
			}
			if err != nil {
				if ctx.Err() == nil {
					send(StreamEvent{Error: fmt.Errorf("read stream: %w", err)})
				}
				return
			}
		}
	}()

	return events, nil
}

// isEventStream accepts an empty content type, some compatible servers omit it
func isEventStream(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/event-stream"
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	Stream      bool            `json:"stream"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toOpenAIMessages(msgs []Message) []openAIMessage {
	result := make([]openAIMessage, len(msgs))
	for i, m := range msgs {
		result[i] = openAIMessage{Role: string(m.Role), Content: m.Content}
	}
	return result
}

func trimBase(u string) string {
	return strings.TrimRight(u, "/")
}
