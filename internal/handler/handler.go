// Package handler binds the A2A JSON-RPC schema to HTTP with gin.
package handler

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
)

// MaxBodyBytes bounds the size of a JSON-RPC request body.
const MaxBodyBytes = 4 << 20

// DirectMessageID is the request id given to a bare message body posted
// without a JSON-RPC wrapper.
const DirectMessageID = "direct-message"

// Handler serves JSON-RPC requests by decoding them with the wire schema and
// passing them to an Executor.
type Handler struct {
	decoder  *a2a.Decoder
	executor a2a.Executor
	notifier a2a.Notifier
	cardPath string
	logger   *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithNotifier hands completed results to n when the request names a push target.
func WithNotifier(n a2a.Notifier) Option {
	return func(h *Handler) {
		h.notifier = n
	}
}

// WithAgentCard serves the JSON file at path from the well-known endpoint.
func WithAgentCard(path string) Option {
	return func(h *Handler) {
		h.cardPath = path
	}
}

// WithDecoder replaces the default decoder.
func WithDecoder(d *a2a.Decoder) Option {
	return func(h *Handler) {
		h.decoder = d
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// New creates a Handler around exec.
func New(exec a2a.Executor, opts ...Option) *Handler {
	h := &Handler{
		decoder:  a2a.NewDecoder(),
		executor: exec,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the agent endpoints on r.
func (h *Handler) Register(r gin.IRouter, rpcPath string) {
	r.GET("/.well-known/agent.json", h.ServeAgentCard)
	r.POST(rpcPath, h.HandleRPC)
	r.GET("/health", h.Health)
}

// RequestLogging logs one line per request. Bodies are only logged at debug level.
func RequestLogging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if logger.Enabled(ctx, slog.LevelDebug) && c.Request.Body != nil {
			body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBodyBytes+1))
			if err == nil {
				logger.DebugContext(ctx, "request body", "path", c.Request.URL.Path, "body", string(body))
			}
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()

		logger.InfoContext(ctx, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// HandleRPC processes one JSON-RPC request. Every JSON-RPC outcome, errors
// included, is answered with HTTP 200.
func (h *Handler) HandleRPC(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxBodyBytes+1))
	if err != nil {
		h.logger.WarnContext(ctx, "failed to read request body", "error", err)
		h.writeError(c, "", &a2a.RPCError{Code: a2a.CodeParseError, Message: "Failed to read request body"})
		return
	}
	if len(body) > MaxBodyBytes {
		h.writeError(c, "", &a2a.RPCError{Code: a2a.CodeInvalidRequest, Message: "Request body too large"})
		return
	}

	req, err := h.decoder.DecodeRequest(body)
	if err != nil {
		direct, ok := h.directMessage(body)
		if !ok {
			id := salvageID(body)
			h.logger.WarnContext(ctx, "invalid JSON-RPC request", "id", id, "error", err)
			h.writeError(c, id, a2a.ErrorFromValidation(err))
			return
		}
		h.logger.InfoContext(ctx, "accepted message without JSON-RPC wrapper")
		req = direct
	}

	log := h.logger.With("method", req.Method, "id", req.ID, "params", req.Params.Kind.String())
	if req.JSONRPC != a2a.JSONRPCVersion {
		log.WarnContext(ctx, "invalid JSON-RPC version", "jsonrpc", req.JSONRPC)
		h.writeError(c, req.ID, &a2a.RPCError{Code: a2a.CodeInvalidRequest, Message: "Invalid JSON-RPC version"})
		return
	}
	log.InfoContext(ctx, "A2A request received")

	result, err := h.executor.Execute(ctx, req)
	resp := a2a.Respond(req, result, err)
	if err != nil {
		var rpcErr *a2a.RPCError
		if errors.As(err, &rpcErr) {
			log.WarnContext(ctx, "request rejected", "code", rpcErr.Code, "error", rpcErr.Message)
		} else {
			log.ErrorContext(ctx, "execution error", "error", err)
		}
		h.write(c, resp)
		return
	}

	if target, ok := req.PushTarget(); ok && h.notifier != nil {
		if err := h.notifier.Notify(ctx, target, result); err != nil {
			log.WarnContext(ctx, "push notification failed", "url", target.URL, "error", err)
		}
	}

	h.write(c, resp)
	log.InfoContext(ctx, "A2A request completed", "task_id", result.ID, "state", result.Status.State)
}

// ServeAgentCard serves the configured agent card file.
func (h *Handler) ServeAgentCard(c *gin.Context) {
	if h.cardPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agent card not available"})
		return
	}
	data, err := os.ReadFile(h.cardPath)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "error loading agent card", "path", h.cardPath, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}
	if !jsontext.Value(data).IsValid() {
		h.logger.ErrorContext(c.Request.Context(), "agent card is not valid JSON", "path", h.cardPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// Health answers liveness probes.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *Handler) writeError(c *gin.Context, id string, rpcErr *a2a.RPCError) {
	h.write(c, a2a.NewErrorResponse(id, rpcErr.Object()))
}

func (h *Handler) write(c *gin.Context, resp a2a.ResponseEnvelope) {
	data, err := json.Marshal(resp)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to encode response", "id", resp.ID, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// directMessage accepts a body that is a bare MessageParams object, with no
// JSON-RPC members at all, as a message/send request.
func (h *Handler) directMessage(body []byte) (a2a.RequestEnvelope, bool) {
	var members map[string]jsontext.Value
	if err := json.Unmarshal(body, &members); err != nil {
		return a2a.RequestEnvelope{}, false
	}
	for _, name := range []string{"jsonrpc", "id", "method", "params"} {
		if _, ok := members[name]; ok {
			return a2a.RequestEnvelope{}, false
		}
	}
	params, err := h.decoder.DecodeMessageParams(body)
	if err != nil {
		return a2a.RequestEnvelope{}, false
	}
	return a2a.NewRequest(DirectMessageID, a2a.MethodMessageSend, a2a.MessageSendParams(params)), true
}

// salvageID recovers a string id from a request that failed validation so the
// error response can still be correlated.
func salvageID(body []byte) string {
	var members map[string]jsontext.Value
	if err := json.Unmarshal(body, &members); err != nil {
		return ""
	}
	var id string
	if raw, ok := members["id"]; ok && raw.Kind() == '"' {
		if err := json.Unmarshal(raw, &id); err != nil {
			return ""
		}
	}
	return id
}
