package a2a

import (
	"errors"
	"fmt"
)

// RequestEnvelope is a JSON-RPC request with its params resolved.
type RequestEnvelope struct {
	JSONRPC string
	ID      string // opaque correlation token chosen by the caller
	Method  string
	Params  Params
	Extra   Extensions
}

// NewRequest builds a JSON-RPC 2.0 request.
func NewRequest(id, method string, params Params) RequestEnvelope {
	return RequestEnvelope{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// MarshalJSON implements [json.Marshaler].
func (r RequestEnvelope) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("jsonrpc", r.JSONRPC)
	w.field("id", r.ID)
	w.field("method", r.Method)
	w.field("params", r.Params)
	w.extensions(r.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *RequestEnvelope) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeRequest(data)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (d *Decoder) request(o *object) (RequestEnvelope, error) {
	var (
		r   RequestEnvelope
		err error
	)
	if r.JSONRPC, err = o.requiredString("jsonrpc"); err != nil {
		return RequestEnvelope{}, err
	}
	if r.ID, err = o.requiredString("id"); err != nil {
		return RequestEnvelope{}, err
	}
	if r.Method, err = o.requiredString("method"); err != nil {
		return RequestEnvelope{}, err
	}
	raw, ok := o.lookup("params")
	if !ok {
		return RequestEnvelope{}, missing(o.fieldPath("params"))
	}
	if r.Params, err = d.resolveParams(o.fieldPath("params"), raw); err != nil {
		return RequestEnvelope{}, err
	}
	r.Extra = o.extensions()
	return r, nil
}

// ErrAmbiguousResponse is reported by ResponseEnvelope.Validate when result
// and error are both set or both absent.
var ErrAmbiguousResponse = errors.New("response must carry exactly one of result or error")

// ResponseEnvelope is a JSON-RPC response. Exactly one of Result and Error
// should be set; NewResultResponse and NewErrorResponse guarantee it, the
// decoder does not enforce it.
//
// JSONRPC records the version a peer sent. Marshal always writes "2.0".
type ResponseEnvelope struct {
	JSONRPC string
	ID      string
	Result  *TaskResult
	Error   Object
	Extra   Extensions
}

// NewResultResponse wraps a task result for the request with the given id.
func NewResultResponse(id string, result TaskResult) ResponseEnvelope {
	return ResponseEnvelope{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  &result,
	}
}

// NewErrorResponse wraps an error object for the request with the given id.
func NewErrorResponse(id string, err Object) ResponseEnvelope {
	if err == nil {
		err = Object{}
	}
	return ResponseEnvelope{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   err,
	}
}

// Respond builds the response to req from a collaborator outcome. A non-nil
// err wins over result; errors that are not *RPCError become internal errors.
func Respond(req RequestEnvelope, result TaskResult, err error) ResponseEnvelope {
	if err == nil {
		return NewResultResponse(req.ID, result)
	}
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		rpcErr = &RPCError{Code: CodeInternalError, Message: "Internal error", Data: err.Error()}
	}
	return NewErrorResponse(req.ID, rpcErr.Object())
}

// RPCError decodes the error member. It returns nil when the response carries
// no error. Data is kept as raw JSON.
func (r ResponseEnvelope) RPCError() (*RPCError, error) {
	if r.Error == nil {
		return nil, nil
	}
	var e RPCError
	if _, err := r.Error.Get("code", &e.Code); err != nil {
		return nil, err
	}
	if _, err := r.Error.Get("message", &e.Message); err != nil {
		return nil, err
	}
	if data, ok := r.Error["data"]; ok {
		e.Data = data
	}
	return &e, nil
}

// Validate reports whether exactly one of Result and Error is set.
func (r ResponseEnvelope) Validate() error {
	if (r.Result == nil) == (r.Error == nil) {
		return fmt.Errorf("response %q: %w", r.ID, ErrAmbiguousResponse)
	}
	return nil
}

// MarshalJSON implements [json.Marshaler]. jsonrpc and id are always written.
func (r ResponseEnvelope) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("jsonrpc", JSONRPCVersion)
	w.field("id", r.ID)
	if r.Result != nil {
		w.field("result", *r.Result)
	}
	if r.Error != nil {
		w.field("error", r.Error)
	}
	w.extensions(r.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (r *ResponseEnvelope) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeResponse(data)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (d *Decoder) response(o *object) (ResponseEnvelope, error) {
	var (
		r   ResponseEnvelope
		err error
	)
	if r.JSONRPC, err = o.defaultString("jsonrpc", JSONRPCVersion); err != nil {
		return ResponseEnvelope{}, err
	}
	if r.ID, err = o.requiredString("id"); err != nil {
		return ResponseEnvelope{}, err
	}
	if raw, ok := o.optional("result"); ok {
		ro, err := nestedObject(o.fieldPath("result"), raw)
		if err != nil {
			return ResponseEnvelope{}, err
		}
		t, err := d.taskResult(ro)
		if err != nil {
			return ResponseEnvelope{}, err
		}
		r.Result = &t
	}
	if r.Error, err = o.optionalObject("error"); err != nil {
		return ResponseEnvelope{}, err
	}
	r.Extra = o.extensions()
	return r, nil
}
