package models

import (
	"encoding/json"
	"fmt"
)

// Role is the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
)

// Valid reports whether r is one of the roles the upstream provider accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleFunction:
		return true
	}
	return false
}

// UnmarshalJSON rejects roles outside the supported vocabulary so that an
// unknown role fails body decoding like any other malformed input.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role := Role(s)
	if !role.Valid() {
		return fmt.Errorf("unknown message role %q", s)
	}
	*r = role
	return nil
}

// Message is a single conversation turn. Optional upstream fields such as
// name or function_call are not part of the inbound shape and are never forwarded.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AnswerRequest is the body of POST /answer.
type AnswerRequest struct {
	APIKey      string    `json:"api_key"`
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Timeout     *int      `json:"timeout,omitempty"` // seconds
	Messages    []Message `json:"messages"`
}

// PingResponse is the body of GET /ping.
type PingResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an HTTP-level error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail provides error details
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}
