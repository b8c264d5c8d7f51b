package llm

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrStreamingUnsupported is returned when a 2xx response is not an event stream
var ErrStreamingUnsupported = errors.New("streaming is not supported by the provider")

// APIError is a non-2xx response from the provider
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("provider error (status %d)", e.StatusCode)
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

type errorEnvelope struct {
	Error *errorBody `json:"error"`
}

// parseAPIError builds an APIError from a response body, using the
// envelope's error.message when the body carries one
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		apiErr.Message = env.Error.Message
	}
	return apiErr
}
