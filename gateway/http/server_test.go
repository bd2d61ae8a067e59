package http

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/agentkit/check"
	"github.com/c360/agentkit/metric"
)

func readyRegistry(t *testing.T, opts ...check.Option) *check.Registry {
	t.Helper()
	reg := check.NewRegistry(opts...)
	require.NoError(t, reg.Init(nil))
	return reg
}

func registerHandler(t *testing.T, reg *check.Registry, key string, handler check.Handler) {
	t.Helper()
	item, err := check.NewItem(check.ItemConfig{Key: key, Handler: handler})
	require.NoError(t, err)
	reg.RegisterItem(item)
}

func newTestServer(t *testing.T, cfg Config, reg *check.Registry) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(cfg, reg, nil, nil, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthReady(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "ready", body["state"])
}

func TestHealthNotReady(t *testing.T) {
	srv := newTestServer(t, Config{}, check.NewRegistry())

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestItemsAdvertiseBuiltin(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Get(srv.URL + "/v1/items")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	items := body["items"].([]any)
	require.NotEmpty(t, items)
	first := items[0].(map[string]any)
	assert.Equal(t, check.BuiltinVersionKey, first["key"])
}

func TestRunBuiltinVersion(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"key":"runtime.version"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "runtime.version", body["key"])
	assert.Contains(t, body["value"], "go")
}

func TestRunPassesParams(t *testing.T) {
	reg := readyRegistry(t)
	registerHandler(t, reg, "echo.params", func(req *check.Request) (any, error) {
		return req.Params(), nil
	})
	srv := newTestServer(t, Config{}, reg)

	resp, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"key":"echo.params","params":["a","b"]}`))
	require.NoError(t, err)

	body := decodeBody(t, resp)
	assert.Equal(t, []any{"a", "b"}, body["value"])
}

func TestRunUnknownKey(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"key":"no.such.item"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRunBeforeReady(t *testing.T) {
	srv := newTestServer(t, Config{}, check.NewRegistry())

	resp, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"key":"runtime.version"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRunHandlerErrorIsSanitized(t *testing.T) {
	reg := readyRegistry(t)
	registerHandler(t, reg, "always.fails", func(_ *check.Request) (any, error) {
		return nil, stderrors.New("secret internal detail")
	})
	srv := newTestServer(t, Config{}, reg)

	resp, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"key":"always.fails"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "internal error", body["error"])
}

func TestRunRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunRejectsMissingKey(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"params":["x"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Get(srv.URL + "/v1/run")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRunRateLimit(t *testing.T) {
	srv := newTestServer(t, Config{RateLimit: 1, RateBurst: 1}, readyRegistry(t))

	first, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"key":"runtime.version"}`))
	require.NoError(t, err)
	first.Body.Close()
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second, err := http.Post(srv.URL+"/v1/run", "application/json",
		strings.NewReader(`{"key":"runtime.version"}`))
	require.NoError(t, err)
	second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestRequestIDAssignedAndPropagated(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "trace-me")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-me", resp.Header.Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := metric.NewMetricsRegistry()
	reg := check.NewRegistry(check.WithMetrics(metrics.CoreMetrics()))
	require.NoError(t, reg.Init(nil))

	srv := httptest.NewServer(NewServer(Config{}, reg, metrics, nil, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsAbsentWithoutRegistry(t *testing.T) {
	srv := newTestServer(t, Config{}, readyRegistry(t))

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
