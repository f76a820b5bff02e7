// Package a2a implements the wire schema of the Agent-to-Agent task protocol:
// parts, messages, tasks and the JSON-RPC envelopes that carry them. Every
// entity is an open record. Members without a typed field are kept in an
// Extensions bag and written back unchanged.
package a2a

import (
	"strings"

	"github.com/go-json-experiment/json/jsontext"
)

// Task states. Values are not enforced; other states pass through untouched.
const (
	StateSubmitted     = "submitted"
	StateWorking       = "working"
	StateInputRequired = "input-required"
	StateCompleted     = "completed"
	StateCanceled      = "canceled"
	StateFailed        = "failed"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Kinds.
const (
	KindText    = "text"
	KindData    = "data"
	KindFile    = "file"
	KindMessage = "message"
	KindTask    = "task"
)

// JSON-RPC methods understood by the reference agent.
const (
	MethodMessageSend = "message/send"
	MethodAgentTask   = "agent/task"
	MethodExecute     = "execute"
)

// JSONRPCVersion is the only protocol version this package emits.
const JSONRPCVersion = "2.0"

// Part is one unit of message content. Kind is free-form; a part may carry
// more than one content field.
type Part struct {
	Kind    string
	Text    *string
	Data    Object
	FileURL *string
	Extra   Extensions
}

// TextPart returns a text part.
func TextPart(text string) Part {
	return Part{Kind: KindText, Text: &text}
}

// DataPart returns a structured data part.
func DataPart(data Object) Part {
	return Part{Kind: KindData, Data: data}
}

// FilePart returns a part referencing a file by URL.
func FilePart(url string) Part {
	return Part{Kind: KindFile, FileURL: &url}
}

// MarshalJSON implements [json.Marshaler].
func (p Part) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("kind", p.Kind)
	if p.Text != nil {
		w.field("text", *p.Text)
	}
	if p.Data != nil {
		w.field("data", p.Data)
	}
	if p.FileURL != nil {
		w.field("fileUrl", *p.FileURL)
	}
	w.extensions(p.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (p *Part) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodePart(data)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (d *Decoder) part(o *object) (Part, error) {
	var (
		p   Part
		err error
	)
	if p.Kind, err = o.requiredString("kind"); err != nil {
		return Part{}, err
	}
	if p.Text, err = o.optionalString("text"); err != nil {
		return Part{}, err
	}
	if p.Data, err = o.optionalObject("data"); err != nil {
		return Part{}, err
	}
	if p.FileURL, err = o.optionalString("fileUrl"); err != nil {
		return Part{}, err
	}
	p.Extra = o.extensions()
	return p, nil
}

func (d *Decoder) parts(path string, elems []jsontext.Value) ([]Part, error) {
	parts := make([]Part, 0, len(elems))
	for i, raw := range elems {
		o, err := nestedObject(indexPath(path, i), raw)
		if err != nil {
			return nil, err
		}
		p, err := d.part(o)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}

// Message is an ordered list of parts plus role and identity metadata.
//
// Kind and MessageID are filled in when absent from the input; a nil pointer
// means the sender wrote an explicit null.
type Message struct {
	Kind      *string
	Role      string
	Parts     []Part
	MessageID *string
	TaskID    *string
	Metadata  Object
	Extra     Extensions
}

// ID returns the message id, or "" when it was sent as null.
func (m Message) ID() string {
	if m.MessageID == nil {
		return ""
	}
	return *m.MessageID
}

// Text joins the text of every part that carries text, separated by sep.
func (m Message) Text(sep string) string {
	var texts []string
	for _, p := range m.Parts {
		if p.Text != nil && *p.Text != "" {
			texts = append(texts, *p.Text)
		}
	}
	return strings.Join(texts, sep)
}

// MarshalJSON implements [json.Marshaler].
func (m Message) MarshalJSON() ([]byte, error) {
	parts := m.Parts
	if parts == nil {
		parts = []Part{}
	}
	w := newObjectWriter()
	w.nullable("kind", m.Kind)
	w.field("role", m.Role)
	w.field("parts", parts)
	w.nullable("messageId", m.MessageID)
	if m.TaskID != nil {
		w.field("taskId", *m.TaskID)
	}
	if m.Metadata != nil {
		w.field("metadata", m.Metadata)
	}
	w.extensions(m.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (m *Message) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeMessage(data)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (d *Decoder) message(o *object) (Message, error) {
	var (
		m   Message
		err error
	)
	if m.Kind, err = o.nullableDefaultString("kind", func() string { return KindMessage }); err != nil {
		return Message{}, err
	}
	if m.Role, err = o.requiredString("role"); err != nil {
		return Message{}, err
	}
	elems, err := o.requiredArray("parts")
	if err != nil {
		return Message{}, err
	}
	if m.Parts, err = d.parts(o.fieldPath("parts"), elems); err != nil {
		return Message{}, err
	}
	if m.MessageID, err = o.nullableDefaultString("messageId", d.gen.id); err != nil {
		return Message{}, err
	}
	if m.TaskID, err = o.optionalString("taskId"); err != nil {
		return Message{}, err
	}
	if m.Metadata, err = o.optionalObject("metadata"); err != nil {
		return Message{}, err
	}
	m.Extra = o.extensions()
	return m, nil
}

func (d *Decoder) messages(path string, elems []jsontext.Value) ([]Message, error) {
	msgs := make([]Message, 0, len(elems))
	for i, raw := range elems {
		o, err := nestedObject(indexPath(path, i), raw)
		if err != nil {
			return nil, err
		}
		m, err := d.message(o)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
