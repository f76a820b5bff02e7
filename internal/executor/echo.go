// Package executor holds the reference collaborators wired into the server:
// an executor that echoes the submitted text and a notifier that only
// records where an update would have been delivered.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
)

// ArtifactName names the artifact carrying the echoed text.
const ArtifactName = "echo"

// Echo answers every supported request with a completed task whose status
// message and single artifact repeat the text parts of the input.
type Echo struct {
	gen    a2a.Generator
	logger *slog.Logger
}

// NewEcho creates an Echo executor. A nil logger discards output.
func NewEcho(gen a2a.Generator, logger *slog.Logger) *Echo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Echo{gen: gen, logger: logger}
}

// Execute implements a2a.Executor.
func (e *Echo) Execute(ctx context.Context, req a2a.RequestEnvelope) (a2a.TaskResult, error) {
	if err := ctx.Err(); err != nil {
		return a2a.TaskResult{}, err
	}

	switch req.Method {
	case a2a.MethodMessageSend, a2a.MethodAgentTask, a2a.MethodExecute:
	default:
		return a2a.TaskResult{}, a2a.NewRPCError(a2a.CodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}

	var (
		msgs      []a2a.Message
		taskID    = req.ID
		contextID string
	)
	switch req.Params.Kind {
	case a2a.ParamsMessage:
		p := req.Params.Message
		msgs = []a2a.Message{p.Message}
		if p.Message.TaskID != nil {
			taskID = *p.Message.TaskID
		}
		if p.Configuration != nil && !p.Configuration.Accepts("text/plain") {
			e.logger.WarnContext(ctx, "text output not accepted", "request_id", req.ID, "modes", p.Configuration.AcceptedOutputModes)
			return e.failed(taskID, e.gen.ID(), msgs, "This agent only produces text/plain output."), nil
		}
	case a2a.ParamsExecute:
		p := req.Params.Execute
		msgs = p.Messages
		if p.TaskID != nil {
			taskID = *p.TaskID
		}
		if p.ContextID != nil {
			contextID = *p.ContextID
		}
	default:
		rejected := make([]string, 0, len(req.Params.Rejected))
		for _, err := range req.Params.Rejected {
			rejected = append(rejected, err.Error())
		}
		return a2a.TaskResult{}, &a2a.RPCError{
			Code:    a2a.CodeInvalidParams,
			Message: "Invalid parameters",
			Data:    map[string]any{"rejected": rejected},
		}
	}
	if contextID == "" {
		contextID = e.gen.ID()
	}

	text := extractText(msgs)
	e.logger.DebugContext(ctx, "extracted text", "request_id", req.ID, "task_id", taskID, "length", len(text))
	if text == "" {
		return e.failed(taskID, contextID, msgs, "Please provide some text to echo."), nil
	}
	return e.completed(taskID, contextID, msgs, text), nil
}

func (e *Echo) completed(taskID, contextID string, history []a2a.Message, text string) a2a.TaskResult {
	reply := e.gen.NewMessage(a2a.RoleAgent, a2a.TextPart(text))
	reply.TaskID = &taskID

	result := e.gen.NewTaskResult(taskID, contextID, e.gen.NewTaskStatus(a2a.StateCompleted, &reply))
	result.AppendArtifact(e.gen.NewArtifact(ArtifactName, a2a.TextPart(text)))
	result.AppendHistory(history...)
	return result
}

func (e *Echo) failed(taskID, contextID string, history []a2a.Message, reason string) a2a.TaskResult {
	reply := e.gen.NewMessage(a2a.RoleAgent, a2a.TextPart(reason))
	reply.TaskID = &taskID

	result := e.gen.NewTaskResult(taskID, contextID, e.gen.NewTaskStatus(a2a.StateFailed, &reply))
	result.AppendHistory(history...)
	return result
}

// extractText collects the text of every message. Besides plain text parts,
// a data part may carry a conversation transcript as {"items":[...]} or a
// bare list under "history"; the most recent text item of it is used.
func extractText(msgs []a2a.Message) string {
	var texts []string
	for _, m := range msgs {
		for _, p := range m.Parts {
			switch {
			case p.Text != nil:
				if s := strings.TrimSpace(*p.Text); s != "" {
					texts = append(texts, s)
				}
			case p.Kind == a2a.KindData && p.Data != nil:
				if s := lastTranscriptText(p.Data); s != "" {
					texts = append(texts, s)
				}
			}
		}
	}
	return strings.Join(texts, " ")
}

func lastTranscriptText(data a2a.Object) string {
	var items []any
	for _, key := range []string{"items", "history"} {
		if ok, err := data.Get(key, &items); ok && err == nil {
			break
		}
		items = nil
	}
	for i := len(items) - 1; i >= 0; i-- {
		item, ok := items[i].(map[string]any)
		if !ok || item["kind"] != a2a.KindText {
			continue
		}
		text, _ := item["text"].(string)
		text = strings.TrimSpace(strings.NewReplacer("<p>", "", "</p>", "").Replace(text))
		if text != "" {
			return text
		}
	}
	return ""
}
