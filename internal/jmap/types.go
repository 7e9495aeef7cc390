package jmap

import (
	"encoding/json"
	"fmt"
)

// Capability URNs sent in every request's "using" list.
const (
	CapabilityCore = "urn:ietf:params:jmap:core"
	CapabilityMail = "urn:ietf:params:jmap:mail"
)

// errorResponseName tags a method response that reports a failure.
const errorResponseName = "error"

// Invocation is a single method call inside a batch. It is encoded on the
// wire as the triple [name, arguments, callID].
type Invocation struct {
	Name   string
	Args   any
	CallID string
}

// MarshalJSON encodes the invocation as a JSON array.
func (i Invocation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{i.Name, i.Args, i.CallID})
}

// ResultReference points an argument at the result of an earlier call in
// the same batch. The server resolves it, so ids never travel back to the
// client between the two calls.
type ResultReference struct {
	ResultOf string `json:"resultOf"`
	Name     string `json:"name"`
	Path     string `json:"path"`
}

// Request is the body POSTed to the API endpoint.
type Request struct {
	Using       []string     `json:"using"`
	MethodCalls []Invocation `json:"methodCalls"`
}

// newRequest builds a request using the core and mail capabilities.
func newRequest(calls ...Invocation) Request {
	return Request{
		Using:       []string{CapabilityCore, CapabilityMail},
		MethodCalls: calls,
	}
}

// ResponseInvocation is one [name, payload, callID] triple from
// methodResponses. Args is left raw so each caller decodes its own shape.
type ResponseInvocation struct {
	Name   string
	Args   json.RawMessage
	CallID string
}

// UnmarshalJSON decodes the wire triple.
func (r *ResponseInvocation) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("method response has %d elements, want 3", len(raw))
	}
	if err := json.Unmarshal(raw[0], &r.Name); err != nil {
		return fmt.Errorf("method response name: %w", err)
	}
	if err := json.Unmarshal(raw[2], &r.CallID); err != nil {
		return fmt.Errorf("method response call id: %w", err)
	}
	r.Args = raw[1]
	return nil
}

// IsError reports whether the server answered the call with an error.
func (r ResponseInvocation) IsError() bool {
	return r.Name == errorResponseName
}

// Response is the decoded body of an API call.
type Response struct {
	MethodResponses []ResponseInvocation `json:"methodResponses"`
}

// Lookup returns the response for callID.
func (r *Response) Lookup(callID string) (ResponseInvocation, bool) {
	for _, inv := range r.MethodResponses {
		if inv.CallID == callID {
			return inv, true
		}
	}
	return ResponseInvocation{}, false
}

// MethodError is the payload of an "error" method response.
type MethodError struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// SetError describes why a single object in a /set call was rejected.
type SetError struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// getResponse is the common shape of Foo/get results.
type getResponse[T any] struct {
	List     []T      `json:"list"`
	NotFound []string `json:"notFound"`
}

// setResponse is the subset of Foo/set results the client inspects.
type setResponse struct {
	Updated    map[string]json.RawMessage `json:"updated"`
	NotUpdated map[string]SetError        `json:"notUpdated"`
}
