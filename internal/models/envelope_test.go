package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_MarshalSuccess(t *testing.T) {
	env := Succeeded(json.RawMessage(`{"id":"chatcmpl-1","object":"chat.completion"}`))

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"openai_answer":{"id":"chatcmpl-1","object":"chat.completion"},"error":null}`, string(data))
	assert.True(t, env.Success())
}

func TestEnvelope_MarshalFailure(t *testing.T) {
	env := Failed("messages must not be empty")

	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"openai_answer":null,"error":"messages must not be empty"}`, string(data))
	assert.False(t, env.Success())
}

func TestEnvelope_MarshalWithoutOutcome(t *testing.T) {
	_, err := json.Marshal(Envelope{})
	assert.Error(t, err)
}

func TestEnvelope_Unmarshal(t *testing.T) {
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"success":true,"openai_answer":{"id":"x"},"error":null}`), &env))
	success, ok := env.Outcome.(Success)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"x"}`, string(success.Result))

	require.NoError(t, json.Unmarshal([]byte(`{"success":false,"openai_answer":null,"error":"boom"}`), &env))
	assert.Equal(t, Failure{Message: "boom"}, env.Outcome)
}

func TestEnvelope_UnmarshalRejectsMixedOutcome(t *testing.T) {
	for _, body := range []string{
		`{"success":true,"openai_answer":{},"error":"boom"}`,
		`{"success":false,"openai_answer":null,"error":null}`,
		`{"success":false,"openai_answer":{"id":"x"},"error":"boom"}`,
	} {
		var env Envelope
		assert.Error(t, json.Unmarshal([]byte(body), &env), body)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant, RoleFunction} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("tool").Valid())
	assert.False(t, Role("").Valid())
}

func TestAnswerRequest_Decode(t *testing.T) {
	body := `{"api_key":"sk-x","model":"gpt-3.5-turbo","max_tokens":10,"temperature":0,
		"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"hello","name":"ignored"}]}`

	var req AnswerRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "sk-x", req.APIKey)
	assert.Nil(t, req.Timeout)
	assert.Equal(t, []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hello"},
	}, req.Messages)
}

func TestAnswerRequest_DecodeUnknownRole(t *testing.T) {
	var req AnswerRequest
	err := json.Unmarshal([]byte(`{"messages":[{"role":"tool","content":"x"}]}`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown message role "tool"`)
}
