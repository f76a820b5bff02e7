package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
)

func testGenerator() a2a.Generator {
	n := 0
	return a2a.Generator{
		NewID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
		Now: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func parse(t *testing.T, body string) a2a.RequestEnvelope {
	t.Helper()
	req, err := a2a.ParseRequest([]byte(body))
	require.NoError(t, err)
	return req
}

func TestEcho_Execute(t *testing.T) {
	t.Run("echoes message text into status and artifact", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-1","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"hello"},{"kind":"text","text":" world "}],"messageId":"m-1"}}}`)

		result, err := e.Execute(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, "req-1", result.ID)
		assert.Equal(t, "gen-1", result.ContextID)
		assert.Equal(t, a2a.StateCompleted, result.Status.State)
		assert.Equal(t, "2025-06-01T12:00:00", result.Status.Timestamp)
		require.NotNil(t, result.Status.Message)
		assert.Equal(t, a2a.RoleAgent, result.Status.Message.Role)
		assert.Equal(t, "hello world", result.Status.Message.Text(""))
		require.Len(t, result.Artifacts, 1)
		assert.Equal(t, ArtifactName, result.Artifacts[0].Name)
		require.Len(t, result.History, 1)
		assert.Equal(t, "m-1", result.History[0].ID())
		assert.Equal(t, a2a.KindTask, result.Kind)
	})

	t.Run("uses the message task id when present", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-2","method":"agent/task","params":{"message":{"role":"user","parts":[{"kind":"text","text":"x"}],"taskId":"task-9"}}}`)

		result, err := e.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "task-9", result.ID)
		assert.Equal(t, "task-9", *result.Status.Message.TaskID)
	})

	t.Run("honors execute context and task ids", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-3","method":"execute","params":{"contextId":"ctx-1","taskId":"task-1","messages":[{"role":"user","parts":[{"kind":"text","text":"a"}]},{"role":"user","parts":[{"kind":"text","text":"b"}]}]}}`)

		result, err := e.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "task-1", result.ID)
		assert.Equal(t, "ctx-1", result.ContextID)
		require.NotNil(t, result.Artifacts[0].Parts[0].Text)
		assert.Equal(t, "a b", *result.Artifacts[0].Parts[0].Text)
		assert.Len(t, result.History, 2)
	})

	t.Run("reads the latest transcript entry from a data part", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-4","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"data","data":{"items":[{"kind":"text","text":"<p>older</p>"},{"kind":"text","text":"<p>newest</p>"},{"kind":"file"}]}}]}}}`)

		result, err := e.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "newest", result.Status.Message.Text(""))
	})

	t.Run("fails the task when there is nothing to echo", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-5","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"file","fileUrl":"https://x/y.png"}]}}}`)

		result, err := e.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, a2a.StateFailed, result.Status.State)
		assert.Empty(t, result.Artifacts)
	})

	t.Run("fails the task when text output is not accepted", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-6","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"x"}]},"configuration":{"acceptedOutputModes":["image/png"]}}}`)

		result, err := e.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, a2a.StateFailed, result.Status.State)
	})

	t.Run("rejects opaque params", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-7","method":"message/send","params":{"query":"x"}}`)

		_, err := e.Execute(context.Background(), req)
		var rpcErr *a2a.RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, a2a.CodeInvalidParams, rpcErr.Code)
		assert.Len(t, rpcErr.Data.(map[string]any)["rejected"], 2)
	})

	t.Run("rejects unknown methods", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		req := parse(t, `{"jsonrpc":"2.0","id":"req-8","method":"tasks/cancel","params":{}}`)

		_, err := e.Execute(context.Background(), req)
		var rpcErr *a2a.RPCError
		require.ErrorAs(t, err, &rpcErr)
		assert.Equal(t, a2a.CodeMethodNotFound, rpcErr.Code)
		assert.Equal(t, "Method not found: tasks/cancel", rpcErr.Message)
	})

	t.Run("stops on a cancelled context", func(t *testing.T) {
		e := NewEcho(testGenerator(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.Execute(ctx, a2a.RequestEnvelope{Method: a2a.MethodExecute})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestLogNotifier_Notify(t *testing.T) {
	t.Run("logs the target without the token", func(t *testing.T) {
		var buf bytes.Buffer
		n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
		token := "s3cret"
		target := a2a.PushNotificationConfig{URL: "https://cb.example/hook", Token: &token}
		result := a2a.TaskResult{ID: "task-1", ContextID: "ctx-1", Status: a2a.TaskStatus{State: a2a.StateCompleted}}

		require.NoError(t, n.Notify(context.Background(), target, result))
		assert.Contains(t, buf.String(), "url=https://cb.example/hook")
		assert.Contains(t, buf.String(), "has_token=true")
		assert.Contains(t, buf.String(), "task_id=task-1")
		assert.NotContains(t, buf.String(), token)
	})

	t.Run("returns the context error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewLogNotifier(nil).Notify(ctx, a2a.PushNotificationConfig{}, a2a.TaskResult{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
