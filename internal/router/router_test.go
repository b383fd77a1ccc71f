package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field-tech-api/internal/handler"
	"field-tech-api/internal/middleware"
	"field-tech-api/internal/model"
	"field-tech-api/internal/token"
)

const testSecret = "router-test-secret-0123456789abcdef"

type testServer struct {
	*httptest.Server
	codec *token.Codec
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	uploads := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploads, "photos", "11111111111"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "photos", "11111111111", "a.jpg"), []byte("jpeg-bytes"), 0o644))

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>app</html>"), 0o644))

	codec := token.NewCodec(testSecret, time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(Config{
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		RequestTimeout:   5 * time.Second,
		UploadRoot:       uploads,
		StaticRoot:       static,
	}, middleware.NewGuard(codec), Handlers{
		Health: handler.NewHealthHandler(nil),
		Docs:   handler.NewDocsHandler(""),
	}, logger)

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	return &testServer{Server: server, codec: codec}
}

func (s *testServer) do(t *testing.T, method string, path string, role string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, s.URL+path, nil)
	require.NoError(t, err)
	if role != "" {
		raw, _, err := s.codec.Issue(9, "maria", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+raw)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body model.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Success)
	require.NotEmpty(t, body.Error)
	return body.Code
}

func TestRouter_Ops(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_FallbackEnvelopes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
		code   string
	}{
		{name: "wrong method on ops route", method: http.MethodPost, path: "/health", status: http.StatusMethodNotAllowed, code: "METHOD_NOT_ALLOWED"},
		{name: "wrong method on api route", method: http.MethodPatch, path: "/api/clients", status: http.StatusMethodNotAllowed, code: "METHOD_NOT_ALLOWED"},
		{name: "unknown api route", method: http.MethodGet, path: "/api/nope", status: http.StatusNotFound, code: "NOT_FOUND"},
		{name: "upload directory listing", method: http.MethodGet, path: "/uploads/photos/", status: http.StatusNotFound, code: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(t, tt.method, tt.path, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestRouter_Authorization(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		status int
		code   string
	}{
		{name: "profile needs token", method: http.MethodGet, path: "/api/user", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "me needs token", method: http.MethodGet, path: "/api/auth/me", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "carrier needs token", method: http.MethodPost, path: "/api/carrier/status", status: http.StatusUnauthorized, code: "UNAUTHORIZED"},
		{name: "technician cannot delete clients", method: http.MethodDelete, path: "/api/clients?cpf=11111111111", role: model.RoleTecnico, status: http.StatusForbidden, code: "FORBIDDEN"},
		{name: "technician cannot read audit", method: http.MethodGet, path: "/api/audit", role: model.RoleTecnico, status: http.StatusForbidden, code: "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(t, tt.method, tt.path, tt.role)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, errorCode(t, resp))
		})
	}
}

func TestRouter_ServesFiles(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/uploads/photos/11111111111/a.jpg", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	resp = s.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "app")

	resp = s.do(t, http.MethodPost, "/index.html", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	for _, missing := range []string{"/missing.js", "/uploads/photos/11111111111/nope.jpg"} {
		resp = s.do(t, http.MethodGet, missing, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, missing)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"), missing)
		assert.Equal(t, "NOT_FOUND", errorCode(t, resp), missing)
	}
}
