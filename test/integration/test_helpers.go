//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"field-tech-api/internal/app"
	"field-tech-api/internal/config"
	"field-tech-api/internal/database"
	"field-tech-api/internal/model"
	"field-tech-api/internal/repository"
)

const (
	adminPassword = "Admin123!"
	techPassword  = "Tecnico123!"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Details string          `json:"details"`
	Meta    *model.Meta     `json:"meta"`
}

type testEnv struct {
	server *httptest.Server
	db     *database.DB
	admin  string
}

// newTestEnv wires the full application against TEST_DATABASE_URL with
// emptied tables and returns an admin token.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.New(ctx, database.PoolConfig{URL: url, MaxConns: 4, MinConns: 0}, logger)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE users, clients, serial_history, client_photos, audit_logs, plans, installers RESTART IDENTITY`)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `INSERT INTO plans (name) VALUES ('100 Mega'), ('300 Mega')`)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `INSERT INTO installers (name) VALUES ('joao'), ('maria')`)
	require.NoError(t, err)

	specPath, err := filepath.Abs(filepath.Join("..", "..", "docs", "openapi.yaml"))
	require.NoError(t, err)

	cfg := &config.Config{
		AppEnv:                 "test",
		RequestTimeout:         10 * time.Second,
		JWTSecret:              "integration-secret-0123456789abcdef",
		JWTTTL:                 time.Hour,
		CORSOrigins:            []string{"*"},
		RateLimitRPM:           10000,
		AuthRateLimitRPM:       10000,
		DefaultPlanID:          1,
		MonthlyGoal:            30,
		UploadRoot:             t.TempDir(),
		MaxPhotoSize:           2 << 20,
		MaxProfilePhotoSize:    1 << 20,
		DocsSpecPath:           specPath,
		BootstrapAdminPassword: adminPassword,
		Carrier:                config.CarrierConfig{Timeout: time.Second},
	}

	routes, err := app.Routes(ctx, cfg, db, logger)
	require.NoError(t, err)

	server := httptest.NewServer(routes)
	t.Cleanup(server.Close)

	env := &testEnv{server: server, db: db}
	env.admin = env.login(t, "admin", adminPassword)
	return env
}

// createTechnician inserts a tecnico account and returns its token.
func (e *testEnv) createTechnician(t *testing.T, username string, city *string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(techPassword), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = repository.NewUserRepository(e.db.Pool).Create(context.Background(), model.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     username,
		Role:         model.RoleTecnico,
		City:         city,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	return e.login(t, username, techPassword)
}

func (e *testEnv) login(t *testing.T, username string, password string) string {
	t.Helper()

	resp, body := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body.Data))

	var result model.LoginResult
	require.NoError(t, json.Unmarshal(body.Data, &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

// do sends payload as JSON (when not nil) and decodes the envelope.
func (e *testEnv) do(t *testing.T, method string, path string, payload any, token string) (*http.Response, apiEnvelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var body apiEnvelope
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp, body
}
