package a2a

// TaskStatus is the lifecycle state of a task. Timestamp is fixed when the
// status is created and never recomputed.
type TaskStatus struct {
	State     string
	Timestamp string
	Message   *Message
	Extra     Extensions
}

// MarshalJSON implements [json.Marshaler].
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	w := newObjectWriter()
	w.field("state", s.State)
	w.field("timestamp", s.Timestamp)
	if s.Message != nil {
		w.field("message", *s.Message)
	}
	w.extensions(s.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeTaskStatus(data)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (d *Decoder) taskStatus(o *object) (TaskStatus, error) {
	var (
		s   TaskStatus
		err error
	)
	if s.State, err = o.requiredString("state"); err != nil {
		return TaskStatus{}, err
	}
	raw, ok := o.lookup("timestamp")
	if ok {
		if s.Timestamp, err = o.decodeString("timestamp", raw); err != nil {
			return TaskStatus{}, err
		}
	} else {
		s.Timestamp = d.gen.timestamp()
	}
	if raw, ok := o.optional("message"); ok {
		mo, err := nestedObject(o.fieldPath("message"), raw)
		if err != nil {
			return TaskStatus{}, err
		}
		m, err := d.message(mo)
		if err != nil {
			return TaskStatus{}, err
		}
		s.Message = &m
	}
	s.Extra = o.extensions()
	return s, nil
}

// Artifact is a named bundle of output parts.
type Artifact struct {
	ArtifactID string
	Name       string
	Parts      []Part
	Extra      Extensions
}

// MarshalJSON implements [json.Marshaler].
func (a Artifact) MarshalJSON() ([]byte, error) {
	parts := a.Parts
	if parts == nil {
		parts = []Part{}
	}
	w := newObjectWriter()
	w.field("artifactId", a.ArtifactID)
	w.field("name", a.Name)
	w.field("parts", parts)
	w.extensions(a.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (a *Artifact) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeArtifact(data)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (d *Decoder) artifact(o *object) (Artifact, error) {
	var (
		a   Artifact
		err error
	)
	raw, ok := o.lookup("artifactId")
	if ok {
		if a.ArtifactID, err = o.decodeString("artifactId", raw); err != nil {
			return Artifact{}, err
		}
	} else {
		a.ArtifactID = d.gen.id()
	}
	if a.Name, err = o.requiredString("name"); err != nil {
		return Artifact{}, err
	}
	elems, err := o.requiredArray("parts")
	if err != nil {
		return Artifact{}, err
	}
	if a.Parts, err = d.parts(o.fieldPath("parts"), elems); err != nil {
		return Artifact{}, err
	}
	a.Extra = o.extensions()
	return a, nil
}

// TaskResult is the full state of a task. Artifacts and History only grow
// through AppendArtifact and AppendHistory or by replacing the whole value.
type TaskResult struct {
	ID        string
	ContextID string
	Status    TaskStatus
	Artifacts []Artifact
	History   []Message
	Kind      string
	Extra     Extensions
}

// AppendArtifact adds a to the task's artifacts.
func (t *TaskResult) AppendArtifact(a ...Artifact) {
	t.Artifacts = append(t.Artifacts, a...)
}

// AppendHistory adds m to the task's message history.
func (t *TaskResult) AppendHistory(m ...Message) {
	t.History = append(t.History, m...)
}

// MarshalJSON implements [json.Marshaler].
func (t TaskResult) MarshalJSON() ([]byte, error) {
	artifacts := t.Artifacts
	if artifacts == nil {
		artifacts = []Artifact{}
	}
	history := t.History
	if history == nil {
		history = []Message{}
	}
	w := newObjectWriter()
	w.field("id", t.ID)
	w.field("contextId", t.ContextID)
	w.field("status", t.Status)
	w.field("artifacts", artifacts)
	w.field("history", history)
	w.field("kind", t.Kind)
	w.extensions(t.Extra)
	return w.bytes()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (t *TaskResult) UnmarshalJSON(data []byte) error {
	v, err := defaultDecoder().DecodeTaskResult(data)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (d *Decoder) taskResult(o *object) (TaskResult, error) {
	var (
		t   TaskResult
		err error
	)
	if t.ID, err = o.requiredString("id"); err != nil {
		return TaskResult{}, err
	}
	if t.ContextID, err = o.requiredString("contextId"); err != nil {
		return TaskResult{}, err
	}

	raw, ok := o.lookup("status")
	if !ok {
		return TaskResult{}, missing(o.fieldPath("status"))
	}
	so, err := nestedObject(o.fieldPath("status"), raw)
	if err != nil {
		return TaskResult{}, err
	}
	if t.Status, err = d.taskStatus(so); err != nil {
		return TaskResult{}, err
	}

	elems, _, err := o.array("artifacts")
	if err != nil {
		return TaskResult{}, err
	}
	t.Artifacts = make([]Artifact, 0, len(elems))
	for i, raw := range elems {
		ao, err := nestedObject(indexPath(o.fieldPath("artifacts"), i), raw)
		if err != nil {
			return TaskResult{}, err
		}
		a, err := d.artifact(ao)
		if err != nil {
			return TaskResult{}, err
		}
		t.Artifacts = append(t.Artifacts, a)
	}

	elems, _, err = o.array("history")
	if err != nil {
		return TaskResult{}, err
	}
	if t.History, err = d.messages(o.fieldPath("history"), elems); err != nil {
		return TaskResult{}, err
	}

	if t.Kind, err = o.defaultString("kind", KindTask); err != nil {
		return TaskResult{}, err
	}
	t.Extra = o.extensions()
	return t, nil
}
