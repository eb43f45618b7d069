package cbadv

import (
	"encoding/json"
	"fmt"
)

// ErrorDetails is the optional protobuf Any-style payload attached to some
// upstream error envelopes.
type ErrorDetails struct {
	TypeURL string          `json:"type_url"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// APIError is the error envelope the service returns in the response body
// when an operation is rejected. It carries the upstream fields verbatim so
// callers can branch on Code or Message.
type APIError struct {
	ErrorCode string        `json:"error"`
	Code      int           `json:"code"`
	Message   string        `json:"message"`
	Details   *ErrorDetails `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (code %d): %s", e.ErrorCode, e.Code, e.Message)
}

// TransportError reports a network-level failure: the request never
// produced a response body to decode. Not retried here; retry policy
// belongs to the caller.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that matched neither the expected
// success shape nor the service's error envelope. Body holds the raw bytes
// for inspection.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512]
	}
	return fmt.Sprintf("decoding response body: %v (body: %s)", e.Err, body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
