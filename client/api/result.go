package api

import (
	"encoding/json"
	"fmt"
)

// Result is the uniform outcome of a Call. Status is zero when no response
// was received. Body always holds a JSON value; bodies that fail to parse
// are replaced with {}.
type Result struct {
	Error   bool
	Message string
	Status  int
	Body    json.RawMessage
}

// Decode unmarshals the response body into dst.
func (r Result) Decode(dst any) error {
	if err := json.Unmarshal(r.Body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Err returns the result as an error, or nil on success.
func (r Result) Err() error {
	if !r.Error {
		return nil
	}
	return &Error{Status: r.Status, Message: r.Message}
}

// Error carries the normalised message of a failed call.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsNetwork reports whether the call never reached the server.
func (e *Error) IsNetwork() bool {
	return e.Status == 0
}
