package client

import (
	"encoding/json"
	"fmt"
)

// Envelope is the uniform response wrapper of the backend.
type Envelope[T any] struct {
	IsSuccess bool   `json:"isSuccess"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Result    T      `json:"result"`
}

type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// apiError builds an APIError from r, taking code and message from the
// envelope when the body carries one.
func (r *response) apiError() *APIError {
	e := &APIError{Status: r.status}
	var env Envelope[json.RawMessage]
	if json.Unmarshal(r.body, &env) == nil {
		e.Code, e.Message = env.Code, env.Message
	}
	return e
}

// decode unwraps the envelope of a response and stores its result in out.
// out may be nil when the caller does not need the result.
func (r *response) decode(out any) error {
	if !r.ok() {
		return r.apiError()
	}
	if len(r.body) == 0 {
		return nil
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(r.body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if !env.IsSuccess {
		return &APIError{Status: r.status, Code: env.Code, Message: env.Message}
	}
	if out == nil || len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
