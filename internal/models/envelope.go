package models

import (
	"encoding/json"
	"errors"
)

// Outcome is either Success or Failure.
type Outcome interface {
	isOutcome()
}

// Success carries the upstream response object as returned by the provider.
type Success struct {
	Result json.RawMessage
}

// Failure carries a human-readable error message.
type Failure struct {
	Message string
}

func (Success) isOutcome() {}
func (Failure) isOutcome() {}

// Envelope is the uniform response of POST /answer. On the wire it is
// {"success":bool,"openai_answer":object|null,"error":string|null}; exactly
// one of openai_answer and error is non-null.
type Envelope struct {
	Outcome Outcome
}

// Succeeded wraps an upstream result.
func Succeeded(result json.RawMessage) Envelope {
	return Envelope{Outcome: Success{Result: result}}
}

// Failed wraps an error message.
func Failed(message string) Envelope {
	return Envelope{Outcome: Failure{Message: message}}
}

// Success reports whether the envelope holds a result.
func (e Envelope) Success() bool {
	_, ok := e.Outcome.(Success)
	return ok
}

type envelopeWire struct {
	Success      bool            `json:"success"`
	OpenAIAnswer json.RawMessage `json:"openai_answer"`
	Error        *string         `json:"error"`
}

// MarshalJSON implements json.Marshaler.
func (e Envelope) MarshalJSON() ([]byte, error) {
	var w envelopeWire
	switch o := e.Outcome.(type) {
	case Success:
		w.Success = true
		w.OpenAIAnswer = o.Result
		if len(w.OpenAIAnswer) == 0 {
			w.OpenAIAnswer = json.RawMessage("null")
		}
	case Failure:
		msg := o.Message
		w.Error = &msg
	default:
		return nil, errors.New("envelope has no outcome")
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var w envelopeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Success {
		if w.Error != nil {
			return errors.New("envelope: success with error set")
		}
		e.Outcome = Success{Result: w.OpenAIAnswer}
		return nil
	}
	if w.Error == nil {
		return errors.New("envelope: failure without error")
	}
	if len(w.OpenAIAnswer) > 0 && string(w.OpenAIAnswer) != "null" {
		return errors.New("envelope: failure with openai_answer set")
	}
	e.Outcome = Failure{Message: *w.Error}
	return nil
}
