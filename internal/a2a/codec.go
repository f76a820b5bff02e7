package a2a

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Object is a free-form JSON object. Member values stay encoded until they
// are read, so numbers of any size and precision are written back exactly as
// they arrived.
type Object map[string]jsontext.Value

// Get decodes the member name into v. It reports false when the member is
// absent.
func (o Object) Get(name string, v any) (bool, error) {
	raw, ok := o[name]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("decode member %q: %w", name, err)
	}
	return true, nil
}

// Set encodes v and stores it under name.
func (o *Object) Set(name string, v any) error {
	raw, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		return fmt.Errorf("encode member %q: %w", name, err)
	}
	if *o == nil {
		*o = Object{}
	}
	(*o)[name] = raw
	return nil
}

// Extensions holds the members of a JSON object that have no typed field,
// plus optional members that were sent as an explicit null. They are kept
// verbatim and written back after the known fields.
type Extensions = Object

// kindName names the JSON kind of raw for error messages.
func kindName(raw jsontext.Value) string {
	switch raw.Kind() {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case '0':
		return "number"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "invalid"
	}
}

var nullValue = jsontext.Value("null")

func isNull(raw jsontext.Value) bool {
	return raw.Kind() == 'n'
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

func indexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}

// object is a decoded JSON object whose members are consumed field by field.
// Members never looked up end up in the extension bag.
type object struct {
	path    string
	members map[string]jsontext.Value
	known   map[string]struct{}
}

// parseRoot turns a whole document into an object. Anything that is not a
// JSON object is a malformed payload.
func parseRoot(data []byte) (*object, error) {
	raw := jsontext.Value(bytes.TrimSpace(data))
	if raw.Kind() != '{' {
		return nil, malformed("", fmt.Errorf("expected a JSON object, got %s", kindName(raw)))
	}
	return newObject("", raw)
}

// nestedObject turns a member value into an object. A non-object value is a
// type mismatch at path.
func nestedObject(path string, raw jsontext.Value) (*object, error) {
	if raw.Kind() != '{' {
		return nil, mismatch(path, "object", kindName(raw))
	}
	return newObject(path, raw)
}

func newObject(path string, raw jsontext.Value) (*object, error) {
	var members map[string]jsontext.Value
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, malformed(path, err)
	}
	return &object{path: path, members: members, known: make(map[string]struct{})}, nil
}

func (o *object) fieldPath(name string) string {
	return joinPath(o.path, name)
}

// lookup returns the member and marks name as a known field.
func (o *object) lookup(name string) (jsontext.Value, bool) {
	o.known[name] = struct{}{}
	raw, ok := o.members[name]
	return raw, ok
}

func (o *object) decodeString(name string, raw jsontext.Value) (string, error) {
	if raw.Kind() != '"' {
		return "", mismatch(o.fieldPath(name), "string", kindName(raw))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", malformed(o.fieldPath(name), err)
	}
	return s, nil
}

// requiredString decodes a member that must be present and a string.
func (o *object) requiredString(name string) (string, error) {
	raw, ok := o.lookup(name)
	if !ok {
		return "", missing(o.fieldPath(name))
	}
	return o.decodeString(name, raw)
}

// defaultString decodes a non-nullable string member that falls back to def when absent.
func (o *object) defaultString(name, def string) (string, error) {
	raw, ok := o.lookup(name)
	if !ok {
		return def, nil
	}
	return o.decodeString(name, raw)
}

// optional looks up a member that may be absent or null. A null member is not
// marked known, so it stays in the extension bag and is written back as null.
func (o *object) optional(name string) (jsontext.Value, bool) {
	raw, ok := o.members[name]
	if !ok || isNull(raw) {
		return nil, false
	}
	o.known[name] = struct{}{}
	return raw, true
}

// nullableDefaultString decodes a string member that falls back to def when
// absent. An explicit null is kept as a nil pointer.
func (o *object) nullableDefaultString(name string, def func() string) (*string, error) {
	raw, ok := o.lookup(name)
	if !ok {
		s := def()
		return &s, nil
	}
	if isNull(raw) {
		return nil, nil
	}
	s, err := o.decodeString(name, raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// optionalString decodes a string member that may be absent or null.
func (o *object) optionalString(name string) (*string, error) {
	raw, ok := o.optional(name)
	if !ok {
		return nil, nil
	}
	s, err := o.decodeString(name, raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// defaultBool decodes a non-nullable boolean member that falls back to def when absent.
func (o *object) defaultBool(name string, def bool) (bool, error) {
	raw, ok := o.lookup(name)
	if !ok {
		return def, nil
	}
	switch raw.Kind() {
	case 't':
		return true, nil
	case 'f':
		return false, nil
	default:
		return false, mismatch(o.fieldPath(name), "boolean", kindName(raw))
	}
}

// optionalObject decodes an object member that may be absent or null.
func (o *object) optionalObject(name string) (Object, error) {
	raw, ok := o.optional(name)
	if !ok {
		return nil, nil
	}
	if raw.Kind() != '{' {
		return nil, mismatch(o.fieldPath(name), "object", kindName(raw))
	}
	m := Object{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, malformed(o.fieldPath(name), err)
	}
	return m, nil
}

// array returns the elements of an array member. present is false when the
// member is absent; null is a type mismatch.
func (o *object) array(name string) (elems []jsontext.Value, present bool, err error) {
	raw, ok := o.lookup(name)
	if !ok {
		return nil, false, nil
	}
	if raw.Kind() != '[' {
		return nil, true, mismatch(o.fieldPath(name), "array", kindName(raw))
	}
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, true, malformed(o.fieldPath(name), err)
	}
	return elems, true, nil
}

// requiredArray is array for members that must be present.
func (o *object) requiredArray(name string) ([]jsontext.Value, error) {
	elems, present, err := o.array(name)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, missing(o.fieldPath(name))
	}
	if elems == nil {
		elems = []jsontext.Value{}
	}
	return elems, nil
}

// stringList decodes an array of strings.
func (o *object) stringList(name string, elems []jsontext.Value) ([]string, error) {
	out := make([]string, 0, len(elems))
	for i, raw := range elems {
		if raw.Kind() != '"' {
			return nil, mismatch(indexPath(o.fieldPath(name), i), "string", kindName(raw))
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, malformed(indexPath(o.fieldPath(name), i), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// extensions returns every member that was never looked up.
func (o *object) extensions() Extensions {
	var ext Extensions
	for name, raw := range o.members {
		if _, ok := o.known[name]; ok {
			continue
		}
		if ext == nil {
			ext = make(Extensions)
		}
		ext[name] = raw
	}
	return ext
}

// objectWriter emits a JSON object: known fields in call order followed by the
// extension members in sorted order.
type objectWriter struct {
	buf     bytes.Buffer
	enc     *jsontext.Encoder
	written map[string]struct{}
	err     error
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{written: make(map[string]struct{})}
	w.enc = jsontext.NewEncoder(&w.buf)
	w.err = w.enc.WriteToken(jsontext.BeginObject)
	return w
}

// field writes name with the JSON encoding of v.
func (w *objectWriter) field(name string, v any) {
	if w.err != nil {
		return
	}
	raw, err := json.Marshal(v, json.Deterministic(true))
	if err != nil {
		w.err = fmt.Errorf("encode %s: %w", name, err)
		return
	}
	w.raw(name, raw)
}

// nullable writes name with *s, or null when s is nil.
func (w *objectWriter) nullable(name string, s *string) {
	if s == nil {
		w.raw(name, nullValue)
		return
	}
	w.field(name, *s)
}

// raw writes name with an already encoded value.
func (w *objectWriter) raw(name string, v jsontext.Value) {
	if w.err != nil {
		return
	}
	if _, dup := w.written[name]; dup {
		return
	}
	w.written[name] = struct{}{}
	if err := w.enc.WriteToken(jsontext.String(name)); err != nil {
		w.err = err
		return
	}
	if err := w.enc.WriteValue(v); err != nil {
		w.err = fmt.Errorf("encode %s: %w", name, err)
	}
}

// extensions writes the extension members that do not shadow a known field.
func (w *objectWriter) extensions(ext Extensions) {
	for _, name := range slices.Sorted(maps.Keys(ext)) {
		w.raw(name, ext[name])
	}
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if err := w.enc.WriteToken(jsontext.EndObject); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(w.buf.Bytes()), nil
}
