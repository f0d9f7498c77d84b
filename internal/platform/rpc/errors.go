package rpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hsm/patient-adapter/internal/platform/apperr"
)

// InternalErrorMessage is reported for failures that are not caller-visible.
const InternalErrorMessage = "Internal server error"

// DomainErrorBody is the err payload for NotFound, Conflict and Invalid.
type DomainErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// InternalErrorBody is the err payload for opaque failures.
type InternalErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// encodeError converts a handler error into the reply's err payload.
func encodeError(err error) json.RawMessage {
	var body interface{}
	switch {
	case errors.Is(err, ErrNoHandler):
		body = NoHandlerMessage
	default:
		if e, ok := apperr.As(err); ok {
			body = DomainErrorBody{StatusCode: e.StatusCode(), Message: e.Message}
		} else {
			body = InternalErrorBody{Status: "error", Message: InternalErrorMessage}
		}
	}
	raw, _ := json.Marshal(body)
	return raw
}

// RemoteError is a failure reported by the remote service.
type RemoteError struct {
	StatusCode int
	Message    string
	Raw        json.RawMessage
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote error %d: %s", e.StatusCode, e.Message)
	}
	return "remote error: " + e.Message
}

func decodeRemoteError(raw json.RawMessage) *RemoteError {
	re := &RemoteError{Raw: raw}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		re.Message = s
		return re
	}

	var fields struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(raw, &fields); err == nil {
		re.StatusCode = fields.StatusCode
		re.Message = fields.Message
		return re
	}
	re.Message = string(raw)
	return re
}
