package a2a

import (
	"bytes"
	"time"

	"github.com/go-json-experiment/json/jsontext"
)

// Decoder validates JSON documents into typed entities, filling defaults
// from its Generator. A Decoder holds no mutable state and is safe for
// concurrent use.
type Decoder struct {
	gen Generator
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithGenerator replaces both the identifier and the clock source.
func WithGenerator(g Generator) Option {
	return func(d *Decoder) {
		d.gen = g
	}
}

// WithIDFunc sets the function used for default messageId and artifactId values.
func WithIDFunc(f func() string) Option {
	return func(d *Decoder) {
		d.gen.NewID = f
	}
}

// WithClock sets the clock used for default status timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) {
		d.gen.Now = now
	}
}

// NewDecoder returns a Decoder using DefaultGenerator unless overridden.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{gen: DefaultGenerator}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var stdDecoder = NewDecoder()

func defaultDecoder() *Decoder {
	return stdDecoder
}

// Generator returns the identifier and clock source of d.
func (d *Decoder) Generator() Generator {
	return d.gen
}

func decodeRoot[T any](data []byte, fn func(*object) (T, error)) (T, error) {
	o, err := parseRoot(data)
	if err != nil {
		var zero T
		return zero, err
	}
	return fn(o)
}

// DecodePart validates a Part.
func (d *Decoder) DecodePart(data []byte) (Part, error) {
	return decodeRoot(data, d.part)
}

// DecodeMessage validates a Message, generating messageId when absent.
func (d *Decoder) DecodeMessage(data []byte) (Message, error) {
	return decodeRoot(data, d.message)
}

// DecodePushNotificationConfig validates a PushNotificationConfig.
func (d *Decoder) DecodePushNotificationConfig(data []byte) (PushNotificationConfig, error) {
	return decodeRoot(data, d.pushNotificationConfig)
}

// DecodeMessageConfiguration validates a MessageConfiguration, applying defaults.
func (d *Decoder) DecodeMessageConfiguration(data []byte) (MessageConfiguration, error) {
	return decodeRoot(data, d.messageConfiguration)
}

// DecodeMessageParams validates a MessageParams.
func (d *Decoder) DecodeMessageParams(data []byte) (MessageParams, error) {
	return decodeRoot(data, d.messageParams)
}

// DecodeExecuteParams validates an ExecuteParams.
func (d *Decoder) DecodeExecuteParams(data []byte) (ExecuteParams, error) {
	return decodeRoot(data, d.executeParams)
}

// DecodeRequest validates a request envelope and resolves its params.
func (d *Decoder) DecodeRequest(data []byte) (RequestEnvelope, error) {
	return decodeRoot(data, d.request)
}

// DecodeTaskStatus validates a TaskStatus, stamping it when timestamp is absent.
func (d *Decoder) DecodeTaskStatus(data []byte) (TaskStatus, error) {
	return decodeRoot(data, d.taskStatus)
}

// DecodeArtifact validates an Artifact, generating artifactId when absent.
func (d *Decoder) DecodeArtifact(data []byte) (Artifact, error) {
	return decodeRoot(data, d.artifact)
}

// DecodeTaskResult validates a TaskResult.
func (d *Decoder) DecodeTaskResult(data []byte) (TaskResult, error) {
	return decodeRoot(data, d.taskResult)
}

// DecodeResponse validates a response envelope.
func (d *Decoder) DecodeResponse(data []byte) (ResponseEnvelope, error) {
	return decodeRoot(data, d.response)
}

// ResolveParams resolves a standalone params document. A document that is
// not a JSON object is a malformed payload.
func (d *Decoder) ResolveParams(data []byte) (Params, error) {
	raw := jsontext.Value(bytes.TrimSpace(data))
	if raw.Kind() != '{' {
		return Params{}, malformed("", nil)
	}
	return d.resolveParams("", raw)
}

// ParseRequest decodes a request envelope with the default generator.
func ParseRequest(data []byte) (RequestEnvelope, error) {
	return stdDecoder.DecodeRequest(data)
}

// ParseResponse decodes a response envelope with the default generator.
func ParseResponse(data []byte) (ResponseEnvelope, error) {
	return stdDecoder.DecodeResponse(data)
}

// ResolveParams resolves a params document with the default generator.
func ResolveParams(data []byte) (Params, error) {
	return stdDecoder.ResolveParams(data)
}
