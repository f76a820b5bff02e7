package a2a

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a decode failure.
type ErrorKind string

const (
	// KindMalformedPayload means the input is not valid JSON or not an object.
	KindMalformedPayload ErrorKind = "malformed_payload"
	// KindMissingRequiredField means a required member is absent.
	KindMissingRequiredField ErrorKind = "missing_required_field"
	// KindTypeMismatch means a member has the wrong JSON shape.
	KindTypeMismatch ErrorKind = "type_mismatch"
)

// Sentinel errors, matched by errors.Is against any *ValidationError of the same kind.
var (
	ErrMalformedPayload     = errors.New("malformed payload")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeMismatch         = errors.New("type mismatch")
)

// ValidationError reports why a JSON document could not be turned into a typed entity.
type ValidationError struct {
	Kind     ErrorKind
	Path     string // dotted member path, e.g. params.message.parts[0].kind
	Expected string
	Actual   string
	Err      error
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindMalformedPayload:
		b.WriteString("malformed payload")
		if e.Path != "" {
			fmt.Fprintf(&b, " at %s", e.Path)
		}
	case KindMissingRequiredField:
		fmt.Fprintf(&b, "missing required field %s", e.Path)
	case KindTypeMismatch:
		fmt.Fprintf(&b, "field %s: expected %s, got %s", pathOrRoot(e.Path), e.Expected, e.Actual)
	default:
		fmt.Fprintf(&b, "invalid field %s", pathOrRoot(e.Path))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrMalformedPayload:
		return e.Kind == KindMalformedPayload
	case ErrMissingRequiredField:
		return e.Kind == KindMissingRequiredField
	case ErrTypeMismatch:
		return e.Kind == KindTypeMismatch
	}
	return false
}

func pathOrRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}

func malformed(path string, err error) *ValidationError {
	return &ValidationError{Kind: KindMalformedPayload, Path: path, Expected: "object", Err: err}
}

func missing(path string) *ValidationError {
	return &ValidationError{Kind: KindMissingRequiredField, Path: path}
}

func mismatch(path, expected, actual string) *ValidationError {
	return &ValidationError{Kind: KindTypeMismatch, Path: path, Expected: expected, Actual: actual}
}

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// RPCError is a JSON-RPC error object. Collaborators return it to control the
// error member of a response.
type RPCError struct {
	Code    int
	Message string
	Data    any
}

// NewRPCError creates an RPCError without data.
func NewRPCError(code int, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Object returns the error object carried in a ResponseEnvelope. Data that
// cannot be encoded is replaced by its fmt rendering.
func (e *RPCError) Object() Object {
	o := Object{}
	_ = o.Set("code", e.Code)
	_ = o.Set("message", e.Message)
	if e.Data != nil {
		if err := o.Set("data", e.Data); err != nil {
			_ = o.Set("data", fmt.Sprint(e.Data))
		}
	}
	return o
}

// ErrorFromValidation maps a decode failure onto a JSON-RPC error object.
// Errors that are not *ValidationError become internal errors.
func ErrorFromValidation(err error) *RPCError {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return &RPCError{Code: CodeInternalError, Message: "Internal error", Data: err.Error()}
	}

	data := map[string]any{
		"kind": string(verr.Kind),
		"path": verr.Path,
	}
	if verr.Expected != "" {
		data["expected"] = verr.Expected
	}
	if verr.Actual != "" {
		data["actual"] = verr.Actual
	}

	switch {
	case verr.Kind == KindMalformedPayload && verr.Path == "":
		return &RPCError{Code: CodeParseError, Message: "Invalid JSON payload", Data: data}
	case verr.Path == "params" || strings.HasPrefix(verr.Path, "params."):
		return &RPCError{Code: CodeInvalidParams, Message: "Invalid parameters", Data: data}
	default:
		return &RPCError{Code: CodeInvalidRequest, Message: "Request payload validation error", Data: data}
	}
}
