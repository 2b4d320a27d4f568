// Package bridge defines the typed request/response vocabulary that connects
// page sessions and the HTTP surface to the background coordinator. Every
// request yields exactly one response; a handler that fails (or panics)
// still produces a failure response, never silence.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind tags one operation of the fixed message vocabulary.
type Kind string

const (
	KindGetProfile      Kind = "get-profile"
	KindUpdateProfile   Kind = "update-profile"
	KindGetSettings     Kind = "get-settings"
	KindUpdateSettings  Kind = "update-settings"
	KindFillForm        Kind = "fill-form"
	KindSaveApplication Kind = "save-application"
	KindCheckAutoApply  Kind = "check-auto-apply"
)

// ErrUnknownKind is returned for requests outside the vocabulary.
var ErrUnknownKind = errors.New("unknown message kind")

// Request is one message sent to a handler. ID correlates the eventual
// response when requests travel over an unordered channel such as the
// in-page binding.
type Request struct {
	ID      string          `json:"id"`
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response carries a success flag and either a payload or an error
// description back to the requester.
type Response struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Handler processes one request. Implementations may return a failure
// response or an error; Dispatch converts both into a correlated Response.
type Handler interface {
	Handle(ctx context.Context, req Request) (Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Dispatch invokes h and guarantees a correlated response even when the
// handler errors or panics.
func Dispatch(ctx context.Context, h Handler, req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Fail(req.ID, fmt.Errorf("handler panic: %v", r))
		}
	}()
	resp, err := h.Handle(ctx, req)
	if err != nil {
		return Fail(req.ID, err)
	}
	resp.ID = req.ID
	resp.Success = resp.Error == ""
	return resp
}

// OK builds a success response, marshaling data when non-nil.
func OK(id string, data interface{}) Response {
	resp := Response{ID: id, Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Fail(id, fmt.Errorf("marshal response: %w", err))
		}
		resp.Data = raw
	}
	return resp
}

// Fail builds a failure response from err.
func Fail(id string, err error) Response {
	return Response{ID: id, Success: false, Error: err.Error()}
}

// DecodePayload unmarshals a request payload into v.
func DecodePayload(req Request, v interface{}) error {
	if len(req.Payload) == 0 {
		return errors.New("missing payload")
	}
	if err := json.Unmarshal(req.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", req.Kind, err)
	}
	return nil
}
