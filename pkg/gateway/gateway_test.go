package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rchudinov/chainserve/pkg/security/jwt"
	"github.com/rchudinov/chainserve/pkg/serving"
)

func echoEntry(t *testing.T, gw *Gateway) {
	t.Helper()
	err := gw.Registry().RegisterHTTP("run", "echo", func(ctx context.Context, inputs map[string]any) (any, error) {
		return map[string]any{"text": inputs["text"]}, nil
	})
	require.NoError(t, err)
}

func postJSON(t *testing.T, gw *Gateway, path string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := gw.App().Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) serving.Output {
	t.Helper()
	defer resp.Body.Close()
	var out serving.Output
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	gw := New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDryRunNotReady(t *testing.T) {
	gw := New(WithChecker(failingChecker{}))
	req := httptest.NewRequest(http.MethodGet, "/dry_run", nil)
	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

type failingChecker struct{}

func (failingChecker) Name() string                    { return "failing" }
func (failingChecker) Check(ctx context.Context) error { return errors.New("nope") }

func TestRunRoundTrip(t *testing.T) {
	gw := New()
	echoEntry(t, gw)

	resp := postJSON(t, gw, "/run", map[string]any{"text": "hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeEnvelope(t, resp)
	assert.Empty(t, out.Error)
	assert.Equal(t, map[string]any{"text": "hello"}, out.Result)
}

func TestRunErrorEnvelope(t *testing.T) {
	gw := New()
	err := gw.Registry().RegisterHTTP("run", "", func(ctx context.Context, inputs map[string]any) (any, error) {
		return nil, errors.New("chain failed")
	})
	require.NoError(t, err)

	resp := postJSON(t, gw, "/run", map[string]any{"text": "hello"})
	// failures ride inside the envelope, not the transport status
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeEnvelope(t, resp)
	assert.Equal(t, "chain failed", out.Error)
}

func TestRunBadBody(t *testing.T) {
	gw := New()
	echoEntry(t, gw)

	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunAppliesEnvs(t *testing.T) {
	gw := New()
	const key = "CHAINSERVE_GATEWAY_TEST_ENV"
	err := gw.Registry().RegisterHTTP("run", "", func(ctx context.Context, inputs map[string]any) (any, error) {
		return os.Getenv(key), nil
	})
	require.NoError(t, err)

	resp := postJSON(t, gw, "/run", map[string]any{
		"text": "x",
		"envs": map[string]string{key: "set-by-request"},
	})
	out := decodeEnvelope(t, resp)
	assert.Equal(t, "set-by-request", out.Result)
}

func TestAuthGuardsServingRoutes(t *testing.T) {
	const secret, issuer = "test-secret", "chainserve"
	gw := New(WithAuth(secret, issuer))
	echoEntry(t, gw)

	// no token
	resp := postJSON(t, gw, "/run", map[string]any{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// probes stay open
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	open, err := gw.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, open.StatusCode)
	open.Body.Close()

	// valid token
	token, err := jwt.NewGenerator(secret, issuer, time.Minute).Generate("tester")
	require.NoError(t, err)
	data, _ := json.Marshal(map[string]any{"text": "hi"})
	authed := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(data))
	authed.Header.Set("Content-Type", "application/json")
	authed.Header.Set("Authorization", "Bearer "+token)
	ok, err := gw.App().Test(authed)
	require.NoError(t, err)
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)
}

func TestOpenAPIListsRoutes(t *testing.T) {
	gw := New()
	echoEntry(t, gw)

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/run")
	assert.Contains(t, paths, "/healthz")
}

func TestRedocPage(t *testing.T) {
	gw := New()
	req := httptest.NewRequest(http.MethodGet, "/redoc", nil)
	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "redoc")
}

func TestMetricsEndpoint(t *testing.T) {
	gw := New()
	echoEntry(t, gw)
	postJSON(t, gw, "/run", map[string]any{"text": "hi"}).Body.Close()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := gw.App().Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "chainserve_requests_total")
}
