package main

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/BerylCAtieno/a2a-wire/internal/config"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.DiscardHandler)

	t.Run("mounts the rpc path", func(t *testing.T) {
		cfg := &config.Config{Port: "8080", LogLevel: "info", RPCPath: "/rpc", AllowedOrigins: []string{"*"}}
		r := newRouter(cfg, logger)

		w := httptest.NewRecorder()
		body := `{"jsonrpc":"2.0","id":"1","method":"message/send","params":{"message":{"role":"user","parts":[{"kind":"text","text":"hi"}]}}}`
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"1"`)
	})

	t.Run("allows configured origins only", func(t *testing.T) {
		cfg := &config.Config{Port: "8080", LogLevel: "info", RPCPath: "/a2a", AllowedOrigins: []string{"https://ok.example"}}
		r := newRouter(cfg, logger)

		allowed := httptest.NewRequest(http.MethodGet, "/health", nil)
		allowed.Header.Set("Origin", "https://ok.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, allowed)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://ok.example", w.Header().Get("Access-Control-Allow-Origin"))

		denied := httptest.NewRequest(http.MethodGet, "/health", nil)
		denied.Header.Set("Origin", "https://evil.example")
		w = httptest.NewRecorder()
		r.ServeHTTP(w, denied)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
