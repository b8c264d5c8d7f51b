package llm

import "context"

// Provider is a chat completion backend
type Provider interface {
	Name() string

	// Model is the model sent when a request leaves it empty
	Model() string

	// Complete returns the whole response at once
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Stream emits content deltas in arrival order. Transport and status
	// errors are returned before the channel is handed out; afterwards the
	// channel ends with one Done or Error event, or closes when ctx ends.
	Stream(ctx context.Context, req *CompletionRequest) (<-chan StreamEvent, error)

	// Ping verifies the key against the provider
	Ping(ctx context.Context) error
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is one chat call. Zero MaxTokens and Temperature leave
// the provider defaults in place.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// StreamEvent carries either a content delta, the end of the stream, or
// the error that ended it
type StreamEvent struct {
	Chunk string
	Done  bool
	Error error
}

// NewRequest builds the two-message chat used for every improvement
func NewRequest(model, systemPrompt, userContent string) *CompletionRequest {
	return &CompletionRequest{
		Model: model,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: userContent},
		},
	}
}
