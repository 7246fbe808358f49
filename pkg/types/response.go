package types

// RequestIDHeader carries the per-request correlation id, echoed in error bodies.
const RequestIDHeader = "X-Request-Id"

// Envelope is the body of every successful response: {"data": ...}.
type Envelope[T any] struct {
	Data T `json:"data"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
