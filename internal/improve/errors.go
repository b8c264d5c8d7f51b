package improve

import "github.com/sant0-9/promptpilot/internal/entitlement"

type Kind int

const (
	KindConfig Kind = iota
	KindInput
	KindEntitlement
	KindUpstream
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInput:
		return "input"
	case KindEntitlement:
		return "entitlement"
	case KindUpstream:
		return "upstream"
	case KindProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// User-facing messages
const (
	MsgMissingAPIKey   = "OpenAI API key not found. Please add it in the extension settings."
	MsgNoText          = "No text to improve."
	MsgInProgress      = "request already in progress"
	MsgUpgrade         = "Upgrade to Pro to use this feature."
	MsgDailyLimit      = "Daily limit reached. Upgrade to Pro for unlimited improvements."
	MsgFetchFailed     = "Failed to fetch from OpenAI."
	MsgEmptyResponse   = "Received an empty response from OpenAI."
	MsgStreamingAbsent = "Streaming is not supported by the provider."
)

// Error is a failed improvement. Message is shown to the user as is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func gateMessage(reason string) string {
	switch reason {
	case entitlement.ReasonDailyLimitReached:
		return MsgDailyLimit
	default:
		return MsgUpgrade
	}
}
