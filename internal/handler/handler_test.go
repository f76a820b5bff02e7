package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
	"github.com/BerylCAtieno/a2a-wire/internal/executor"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingNotifier struct {
	mu      sync.Mutex
	targets []a2a.PushNotificationConfig
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, target a2a.PushNotificationConfig, _ a2a.TaskResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.targets = append(n.targets, target)
	return n.err
}

func newRouter(h *Handler) *gin.Engine {
	r := gin.New()
	h.Register(r, "/a2a")
	return r
}

func post(t *testing.T, r http.Handler, body string) a2a.ResponseEnvelope {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/a2a", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp, err := a2a.ParseResponse(w.Body.Bytes())
	require.NoError(t, err, w.Body.String())
	require.NoError(t, resp.Validate())
	return resp
}

func rpcError(t *testing.T, resp a2a.ResponseEnvelope) *a2a.RPCError {
	t.Helper()
	rpcErr, err := resp.RPCError()
	require.NoError(t, err)
	require.NotNil(t, rpcErr)
	return rpcErr
}

func TestHandleRPC(t *testing.T) {
	echo := executor.NewEcho(a2a.DefaultGenerator, nil)

	t.Run("returns the task result with the request id", func(t *testing.T) {
		r := newRouter(New(echo))
		resp := post(t, r, `{"jsonrpc":"2.0","id":"req-1","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"ping"}]}}}`)

		assert.Equal(t, "req-1", resp.ID)
		assert.Equal(t, "2.0", resp.JSONRPC)
		require.NotNil(t, resp.Result)
		assert.Equal(t, a2a.StateCompleted, resp.Result.Status.State)
		assert.Equal(t, "ping", resp.Result.Status.Message.Text(""))
	})

	t.Run("maps malformed json to a parse error", func(t *testing.T) {
		r := newRouter(New(echo))
		resp := post(t, r, `{"jsonrpc":"2.0","id":`)

		assert.Equal(t, "", resp.ID)
		assert.Equal(t, a2a.CodeParseError, rpcError(t, resp).Code)
	})

	t.Run("keeps the id when params are invalid", func(t *testing.T) {
		r := newRouter(New(echo))
		resp := post(t, r, `{"jsonrpc":"2.0","id":"req-2","method":"message/send","params":[1]}`)

		assert.Equal(t, "req-2", resp.ID)
		rpcErr := rpcError(t, resp)
		assert.Equal(t, a2a.CodeInvalidParams, rpcErr.Code)
		raw, ok := rpcErr.Data.(jsontext.Value)
		require.True(t, ok)
		var data map[string]any
		require.NoError(t, json.Unmarshal(raw, &data))
		assert.Equal(t, "params", data["path"])
		assert.Equal(t, "type_mismatch", data["kind"])
	})

	t.Run("rejects other protocol versions", func(t *testing.T) {
		r := newRouter(New(echo))
		resp := post(t, r, `{"jsonrpc":"1.0","id":"req-3","method":"message/send","params":{}}`)

		assert.Equal(t, "req-3", resp.ID)
		rpcErr := rpcError(t, resp)
		assert.Equal(t, a2a.CodeInvalidRequest, rpcErr.Code)
		assert.Equal(t, "Invalid JSON-RPC version", rpcErr.Message)
	})

	t.Run("surfaces executor rpc errors", func(t *testing.T) {
		r := newRouter(New(echo))
		resp := post(t, r, `{"jsonrpc":"2.0","id":"req-4","method":"tasks/get","params":{}}`)

		assert.Equal(t, a2a.CodeMethodNotFound, rpcError(t, resp).Code)
	})

	t.Run("hides plain executor errors behind an internal error", func(t *testing.T) {
		failing := a2a.ExecutorFunc(func(context.Context, a2a.RequestEnvelope) (a2a.TaskResult, error) {
			return a2a.TaskResult{}, errors.New("database on fire")
		})
		r := newRouter(New(failing))
		resp := post(t, r, `{"jsonrpc":"2.0","id":"req-5","method":"execute","params":{"messages":[]}}`)

		assert.Equal(t, "req-5", resp.ID)
		assert.Equal(t, a2a.CodeInternalError, rpcError(t, resp).Code)
	})

	t.Run("notifies the push target", func(t *testing.T) {
		n := &recordingNotifier{err: errors.New("unreachable")}
		r := newRouter(New(echo, WithNotifier(n)))
		resp := post(t, r, `{"jsonrpc":"2.0","id":"req-6","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"x"}]},"configuration":{"pushNotificationConfig":{"url":"https://cb.example/hook"}}}}`)

		require.NotNil(t, resp.Result)
		require.Len(t, n.targets, 1)
		assert.Equal(t, "https://cb.example/hook", n.targets[0].URL)
	})

	t.Run("skips the notifier without a push target", func(t *testing.T) {
		n := &recordingNotifier{}
		r := newRouter(New(echo, WithNotifier(n)))
		post(t, r, `{"jsonrpc":"2.0","id":"req-7","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"x"}]}}}`)

		assert.Empty(t, n.targets)
	})

	t.Run("accepts a bare message without the JSON-RPC wrapper", func(t *testing.T) {
		r := newRouter(New(echo))
		resp := post(t, r, `{"message":{"role":"user","parts":[{"kind":"text","text":"unwrapped"}]}}`)

		assert.Equal(t, DirectMessageID, resp.ID)
		require.NotNil(t, resp.Result)
		assert.Equal(t, a2a.StateCompleted, resp.Result.Status.State)
		assert.Equal(t, "unwrapped", resp.Result.Status.Message.Text(""))
	})

	t.Run("does not treat a broken envelope as a bare message", func(t *testing.T) {
		r := newRouter(New(echo))
		resp := post(t, r, `{"id":"req-9","message":{"role":"user","parts":[]}}`)

		assert.Equal(t, "req-9", resp.ID)
		assert.Equal(t, a2a.CodeInvalidRequest, rpcError(t, resp).Code)
	})

	t.Run("uses the configured decoder", func(t *testing.T) {
		d := a2a.NewDecoder(a2a.WithIDFunc(func() string { return "fixed" }))
		var seen string
		capture := a2a.ExecutorFunc(func(_ context.Context, req a2a.RequestEnvelope) (a2a.TaskResult, error) {
			seen = req.Params.Message.Message.ID()
			return a2a.NewTaskResult("t", "c", a2a.NewTaskStatus(a2a.StateCompleted, nil)), nil
		})
		r := newRouter(New(capture, WithDecoder(d)))
		post(t, r, `{"jsonrpc":"2.0","id":"req-8","method":"message/send","params":{"message":{"role":"user","parts":[]}}}`)

		assert.Equal(t, "fixed", seen)
	})
}

func TestServeAgentCard(t *testing.T) {
	t.Run("serves the card file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agent.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":"echo agent"}`), 0o644))
		r := newRouter(New(nil, WithAgentCard(path)))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"name":"echo agent"}`, w.Body.String())
	})

	t.Run("answers 404 without a card", func(t *testing.T) {
		r := newRouter(New(nil))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("answers 500 for an invalid card", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agent.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name":`), 0o644))
		r := newRouter(New(nil, WithAgentCard(path)))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHealth(t *testing.T) {
	r := newRouter(New(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(RequestLogging(logger))
	New(executor.NewEcho(a2a.DefaultGenerator, nil)).Register(r, "/a2a")

	resp := post(t, r, `{"jsonrpc":"2.0","id":"log-1","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"still readable"}]}}}`)

	assert.Equal(t, "still readable", resp.Result.Status.Message.Text(""))
	assert.Contains(t, buf.String(), "request body")
	assert.Contains(t, buf.String(), "path=/a2a")
	assert.Contains(t, buf.String(), "status=200")
}

func TestSalvageID(t *testing.T) {
	assert.Equal(t, "abc", salvageID([]byte(`{"id":"abc","params":1}`)))
	assert.Equal(t, "", salvageID([]byte(`{"id":7}`)))
	assert.Equal(t, "", salvageID([]byte(`not json`)))
}
