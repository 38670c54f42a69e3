package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"text-ingest/config"
	"text-ingest/pkg/model"
	"text-ingest/pkg/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]*model.ProcessedTextRecord
	putErr  error
	pingErr error
}

func (m *memoryStore) PutRecord(ctx context.Context, record *model.ProcessedTextRecord) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records == nil {
		m.records = map[string]*model.ProcessedTextRecord{}
	}
	m.records[record.ID] = record
	return nil
}

func (m *memoryStore) Ping(ctx context.Context) error { return m.pingErr }

func (m *memoryStore) Close() error { return nil }

type testEnv struct {
	store   *memoryStore
	handler http.Handler
	logs    *observer.ObservedLogs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	store := &memoryStore{}
	ingester := service.NewIngestService(store, logger)
	srv := NewServer(config.NewDefaultServerConfig(), ingester, store, logger)
	return &testEnv{store: store, handler: srv.Handler(), logs: logs}
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func postText(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestProcessSuccess(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, postText("hello world\n\nfoo", "text/plain"))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "File processed successfully", body["message"])
	assert.EqualValues(t, 3, body["wordCount"])
	assert.EqualValues(t, 2, body["lineCount"])

	id, _ := body["processingId"].(string)
	require.Len(t, id, 26)
	stored := env.store.records[id]
	require.NotNil(t, stored)
	assert.Equal(t, "hello world\n\nfoo", stored.TextContent)
	assert.False(t, stored.ProcessedAt.IsZero())

	assert.Equal(t, 1, env.logs.FilterMessage("响应").FilterField(zap.Int("status", 200)).Len())
}

func TestProcessValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		message     string
	}{
		{"empty body", "", "text/plain", "No file uploaded."},
		{"json content type", `{"a":1}`, "application/json", "Invalid file type."},
		{"whitespace only", " \t\t  ", "text/plain", "contains no meaningful text"},
		{"too large", strings.Repeat("a", 1048577), "text/plain", "1048577"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec, body := env.do(t, postText(tt.body, tt.contentType))

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, body["message"], tt.message)
			assert.Len(t, body, 1)
			assert.Empty(t, env.store.records)

			failures := env.logs.FilterMessage("请求校验失败").All()
			require.Len(t, failures, 1)
			fields := failures[0].ContextMap()
			assert.NotEmpty(t, fields["request_id"])
			assert.NotEmpty(t, fields["reason"])
			assert.LessOrEqual(t, len(fields["body"].(string)), 203)
		})
	}
}

func TestProcessBase64Body(t *testing.T) {
	env := newTestEnv(t)
	req := postText(base64.StdEncoding.EncodeToString([]byte("one\r\ntwo three")), "text/plain")
	req.Header.Set("Content-Transfer-Encoding", "base64")

	rec, body := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 3, body["wordCount"])
	assert.EqualValues(t, 2, body["lineCount"])
}

func TestProcessBodyOverHardLimit(t *testing.T) {
	env := newTestEnv(t)
	cfg := config.NewDefaultServerConfig()
	cfg.MaxBodyBytes = 2 << 20
	srv := NewServer(cfg, service.NewIngestService(env.store, zap.NewNop()), env.store, zap.NewNop())
	env.handler = srv.Handler()

	size := 3 << 20
	rec, body := env.do(t, postText(strings.Repeat("a", size), "text/plain"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "3145728")
}

func TestProcessOversizedBodyChecksContentTypeFirst(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, postText(strings.Repeat("a", 9<<20), "application/json"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type. Only text/plain files are accepted.", body["message"])
	assert.Empty(t, env.store.records)
}

func TestProcessStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.putErr = errors.New("requested resource not found")

	req := postText("hello", "text/plain")
	req.Header.Set("X-Request-ID", "req-123")
	rec, body := env.do(t, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.Contains(t, body["error"], "requested resource not found")
	assert.Equal(t, "req-123", body["requestId"])
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	failures := env.logs.FilterMessage("请求处理失败").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "req-123", failures[0].ContextMap()["request_id"])
	assert.Equal(t, "hello", failures[0].ContextMap()["body"])
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, httptest.NewRequest(http.MethodOptions, "/process", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Headers"))

	rec, _ = env.do(t, postText("x", "text/plain"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDGenerated(t *testing.T) {
	env := newTestEnv(t)
	rec, _ := env.do(t, postText("x", "text/plain"))
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	env.store.pingErr = errors.New("down")
	rec, body = env.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "down", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, postText("a b c", "text/plain"))
	env.do(t, postText("", "text/plain"))

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	out, _ := io.ReadAll(rec.Body)
	text := string(out)
	assert.Contains(t, text, `text_ingest_requests_total{reason="",status="200"} 1`)
	assert.Contains(t, text, `text_ingest_requests_total{reason="missing_payload",status="400"} 1`)
	assert.Contains(t, text, "text_ingest_words_total 3")
	assert.Contains(t, text, "text_ingest_request_bytes_total 5")
}

func TestMetricsCountChunkedBodyBytes(t *testing.T) {
	env := newTestEnv(t)
	req := postText("hello world", "text/plain")
	req.Body = io.NopCloser(strings.NewReader("hello world"))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rec, _ := env.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "text_ingest_request_bytes_total 11")
}

func TestServerStartAndShutdown(t *testing.T) {
	cfg := config.NewDefaultServerConfig()
	cfg.Addr = "127.0.0.1:0"
	store := &memoryStore{}
	srv := NewServer(cfg, service.NewIngestService(store, zap.NewNop()), store, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-done)
}
