package server

import (
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/morphonent/morphonent/internal/errors"
)

// Client message types.
const (
	MessageEvent    = "event"
	MessageDispatch = "dispatch"
)

// Server message types.
const (
	MessageHTML  = "html"
	MessageError = "error"
)

// ClientMessage is a JSON message sent by the browser.
type ClientMessage struct {
	Type string `json:"type" validate:"required,oneof=event dispatch"`

	// Target is the path id of the node an event fires on.
	Target string `json:"target,omitempty" validate:"required_if=Type event"`

	// Event is the host event type, e.g. "click".
	Event string `json:"event,omitempty" validate:"required_if=Type event"`

	// Value is the target's live value at the time of the event.
	Value *string `json:"value,omitempty"`

	// Name is the bus event to dispatch.
	Name string `json:"name,omitempty" validate:"required_if=Type dispatch"`

	// Payload is handed to bus handlers as decoded JSON.
	Payload any `json:"payload,omitempty"`
}

// ServerMessage is a JSON message sent to the browser.
type ServerMessage struct {
	Type string `json:"type"`

	// HTML is the inner markup of the app root.
	HTML string `json:"html,omitempty"`

	// Code and Error describe a rejected client message.
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeClientMessage parses and validates a client message.
func decodeClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.New("E061").Wrap(err)
	}
	if err := validate.Struct(&msg); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
			}
		}
		return nil, errors.New("E061").
			WithDetail("Invalid fields: " + strings.Join(fields, ", ")).
			Wrap(err)
	}
	return &msg, nil
}

// errorMessage converts err to an error message for the browser.
func errorMessage(err error) ServerMessage {
	msg := ServerMessage{Type: MessageError, Error: err.Error()}
	var me *errors.MorphError
	if stderrors.As(err, &me) {
		msg.Code = me.Code
		msg.Error = me.Message
		if me.Target != "" {
			msg.Error += " (" + me.Target + ")"
		}
	}
	return msg
}
