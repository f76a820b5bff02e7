package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

// MessageParams submits a single message.
//
// A nil Configuration means the caller sent an explicit null.
type MessageParams struct {
	Message       Message
	Configuration *MessageConfiguration
	Extra         Extensions
}

// NewMessageParams wraps msg with a default configuration.
func NewMessageParams(msg Message) MessageParams {
	cfg := NewMessageConfiguration()
	return MessageParams{Message: msg, Configuration: &cfg}
}

// MarshalJSON implements [json.Marshaler].
func (p MessageParams) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("message", p.Message)
	if p.Configuration == nil {
		w.raw("configuration", nullValue)
	} else {
		w.field("configuration", *p.Configuration)
	}
	w.extensions(p.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (p *MessageParams) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeMessageParams(data)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (d *Decoder) messageParams(o *object) (MessageParams, error) {
	var p MessageParams

	raw, ok := o.lookup("message")
	if !ok {
		return MessageParams{}, missing(o.fieldPath("message"))
	}
	mo, err := nestedObject(o.fieldPath("message"), raw)
	if err != nil {
		return MessageParams{}, err
	}
	if p.Message, err = d.message(mo); err != nil {
		return MessageParams{}, err
	}

	raw, ok = o.lookup("configuration")
	switch {
	case !ok:
		cfg := NewMessageConfiguration()
		p.Configuration = &cfg
	case isNull(raw):
		p.Configuration = nil
	default:
		co, err := nestedObject(o.fieldPath("configuration"), raw)
		if err != nil {
			return MessageParams{}, err
		}
		cfg, err := d.messageConfiguration(co)
		if err != nil {
			return MessageParams{}, err
		}
		p.Configuration = &cfg
	}

	p.Extra = o.extensions()
	return p, nil
}

// ExecuteParams submits a batch of messages for execution.
type ExecuteParams struct {
	ContextID *string
	TaskID    *string
	Messages  []Message
	Extra     Extensions
}

// MarshalJSON implements [json.Marshaler].
func (p ExecuteParams) MarshalJSON() ([]byte, error) {
	msgs := p.Messages
	if msgs == nil {
		msgs = []Message{}
	}
	w := newObjectWriter()
	if p.ContextID != nil {
		w.field("contextId", *p.ContextID)
	}
	if p.TaskID != nil {
		w.field("taskId", *p.TaskID)
	}
	w.field("messages", msgs)
	w.extensions(p.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (p *ExecuteParams) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeExecuteParams(data)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (d *Decoder) executeParams(o *object) (ExecuteParams, error) {
	var (
		p   ExecuteParams
		err error
	)
	if p.ContextID, err = o.optionalString("contextId"); err != nil {
		return ExecuteParams{}, err
	}
	if p.TaskID, err = o.optionalString("taskId"); err != nil {
		return ExecuteParams{}, err
	}
	elems, err := o.requiredArray("messages")
	if err != nil {
		return ExecuteParams{}, err
	}
	if p.Messages, err = d.messages(o.fieldPath("messages"), elems); err != nil {
		return ExecuteParams{}, err
	}
	p.Extra = o.extensions()
	return p, nil
}

// ParamsKind tags the variant held by Params.
type ParamsKind int

const (
	// ParamsOpaque is a params object that matched no known shape. It is kept
	// verbatim for a collaborator that may understand it.
	ParamsOpaque ParamsKind = iota
	// ParamsMessage is a single-message submission.
	ParamsMessage
	// ParamsExecute is a multi-message batch.
	ParamsExecute
)

func (k ParamsKind) String() string {
	switch k {
	case ParamsOpaque:
		return "opaque"
	case ParamsMessage:
		return "message"
	case ParamsExecute:
		return "execute"
	default:
		return fmt.Sprintf("ParamsKind(%d)", int(k))
	}
}

// Params is the resolved params member of a request. Exactly one of Message,
// Execute and Opaque is meaningful, as selected by Kind.
type Params struct {
	Kind    ParamsKind
	Message *MessageParams
	Execute *ExecuteParams
	Opaque  Extensions

	// Rejected records why the typed variants did not match when Kind is
	// ParamsOpaque, in resolution order. It is never serialized.
	Rejected []error
}

// MessageSendParams wraps p as the message variant.
func MessageSendParams(p MessageParams) Params {
	return Params{Kind: ParamsMessage, Message: &p}
}

// BatchParams wraps p as the execute variant.
func BatchParams(p ExecuteParams) Params {
	return Params{Kind: ParamsExecute, Execute: &p}
}

// MarshalJSON implements [json.Marshaler].
func (p Params) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case ParamsMessage:
		if p.Message == nil {
			return nil, fmt.Errorf("params: message variant without value")
		}
		return p.Message.MarshalJSON()
	case ParamsExecute:
		if p.Execute == nil {
			return nil, fmt.Errorf("params: execute variant without value")
		}
		return p.Execute.MarshalJSON()
	default:
		w := newObjectWriter()
		w.extensions(p.Opaque)
		return w.bytes()
	}
}

// UnmarshalJSON implements [json.Unmarshaler].
func (p *Params) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().ResolveParams(data)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// resolveParams tries MessageParams, then ExecuteParams, and otherwise keeps
// the object as an opaque map. The order is fixed so that ambiguous payloads
// always resolve the same way. Only a non-object value is an error.
func (d *Decoder) resolveParams(path string, raw jsontext.Value) (Params, error) {
	if raw.Kind() != '{' {
		return Params{}, mismatch(path, "object", kindName(raw))
	}

	o, err := nestedObject(path, raw)
	if err != nil {
		return Params{}, err
	}
	mp, errMessage := d.messageParams(o)
	if errMessage == nil {
		return Params{Kind: ParamsMessage, Message: &mp}, nil
	}

	o, err = nestedObject(path, raw)
	if err != nil {
		return Params{}, err
	}
	ep, errExecute := d.executeParams(o)
	if errExecute == nil {
		return Params{Kind: ParamsExecute, Execute: &ep}, nil
	}

	o, err = nestedObject(path, raw)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Kind:     ParamsOpaque,
		Opaque:   o.extensions(),
		Rejected: []error{errMessage, errExecute},
	}, nil
}
