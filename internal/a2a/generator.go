package a2a

import (
	"time"

	"github.com/google/uuid"
)

// timestampLayout matches an ISO-8601 local time without offset. Microseconds
// are written only when non-zero.
const (
	timestampLayout      = "2006-01-02T15:04:05"
	timestampLayoutMicro = "2006-01-02T15:04:05.000000"
)

// Generator is the source of default identifiers and timestamps. Both
// functions must be safe for concurrent use.
type Generator struct {
	NewID func() string
	Now   func() time.Time
}

// DefaultGenerator draws random UUIDs and reads the wall clock.
var DefaultGenerator = Generator{
	NewID: uuid.NewString,
	Now:   time.Now,
}

func (g Generator) id() string {
	if g.NewID == nil {
		return uuid.NewString()
	}
	return g.NewID()
}

// ID returns a fresh identifier.
func (g Generator) ID() string {
	return g.id()
}

func (g Generator) timestamp() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return FormatTimestamp(now())
}

// FormatTimestamp renders t in UTC as an ISO-8601 string without a zone suffix.
func FormatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(timestampLayout)
	}
	return t.Format(timestampLayoutMicro)
}

// NewMessage builds a message with a generated messageId.
func (g Generator) NewMessage(role string, parts ...Part) Message {
	if parts == nil {
		parts = []Part{}
	}
	kind, id := KindMessage, g.id()
	return Message{
		Kind:      &kind,
		Role:      role,
		Parts:     parts,
		MessageID: &id,
	}
}

// NewArtifact builds an artifact with a generated artifactId.
func (g Generator) NewArtifact(name string, parts ...Part) Artifact {
	if parts == nil {
		parts = []Part{}
	}
	return Artifact{
		ArtifactID: g.id(),
		Name:       name,
		Parts:      parts,
	}
}

// NewTaskStatus builds a status stamped with the current time. msg may be nil.
func (g Generator) NewTaskStatus(state string, msg *Message) TaskStatus {
	return TaskStatus{
		State:     state,
		Timestamp: g.timestamp(),
		Message:   msg,
	}
}

// NewTaskResult builds a task with empty artifacts and history.
func (g Generator) NewTaskResult(id, contextID string, status TaskStatus) TaskResult {
	return TaskResult{
		ID:        id,
		ContextID: contextID,
		Status:    status,
		Artifacts: []Artifact{},
		History:   []Message{},
		Kind:      KindTask,
	}
}

// NewMessage builds a message using DefaultGenerator.
func NewMessage(role string, parts ...Part) Message {
	return DefaultGenerator.NewMessage(role, parts...)
}

// NewArtifact builds an artifact using DefaultGenerator.
func NewArtifact(name string, parts ...Part) Artifact {
	return DefaultGenerator.NewArtifact(name, parts...)
}

// NewTaskStatus builds a status using DefaultGenerator.
func NewTaskStatus(state string, msg *Message) TaskStatus {
	return DefaultGenerator.NewTaskStatus(state, msg)
}

// NewTaskResult builds a task using DefaultGenerator.
func NewTaskResult(id, contextID string, status TaskStatus) TaskResult {
	return DefaultGenerator.NewTaskResult(id, contextID, status)
}
