package types

// Response is what services hand back to handlers. Error is logged and
// rendered as a string; it never reaches the client as a Go value.
type Response struct {
	Code    int
	Message string
	Data    any
	Error   error
}

// ResponseAPI is the JSON envelope written for every non-callback route.
type ResponseAPI struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
