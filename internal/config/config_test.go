package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebase-go/pkg/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH_SKIP", "true")

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Categorize.BaseURL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "homebase", cfg.Notify.Exchange)
	assert.InDelta(t, 0.3, cfg.Categorize.MinConfidence, 1e-9)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	contents := "HTTP_PORT=9090\nDB_NAME=from_file\nAUTH_SKIP=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(contents), 0o600))

	t.Setenv("DB_NAME", "from_env")
	// Registered with t.Setenv so the values set by the loader are restored.
	t.Setenv("HTTP_PORT", "")
	os.Unsetenv("HTTP_PORT")
	t.Setenv("AUTH_SKIP", "")
	os.Unsetenv("AUTH_SKIP")

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "from_env", cfg.DB.Name)
	assert.True(t, cfg.Supabase.SkipAuth)
}

func TestLoadDotEnvFromParentDirectory(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "cmd", "homebase")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("AUTH_SKIP=true\nHTTP_SHUTDOWN_TIMEOUT=3s\n"), 0o600))
	t.Chdir(nested)

	t.Setenv("AUTH_SKIP", "")
	os.Unsetenv("AUTH_SKIP")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "")
	os.Unsetenv("HTTP_SHUTDOWN_TIMEOUT")

	cfg, err := Load(logger.Nop())
	require.NoError(t, err)
	assert.True(t, cfg.Supabase.SkipAuth)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestValidate(t *testing.T) {
	valid := Config{
		HTTPPort:        "8080",
		ShutdownTimeout: 10 * time.Second,
		Supabase:        SupabaseConfig{JWTSecret: "secret"},
	}
	require.NoError(t, valid.Validate())

	badPort := valid
	badPort.HTTPPort = "99999"
	assert.ErrorContains(t, badPort.Validate(), "HTTP_PORT")

	noAuth := valid
	noAuth.Supabase = SupabaseConfig{}
	assert.ErrorContains(t, noAuth.Validate(), "auth not configured")

	remoteAuth := valid
	remoteAuth.Supabase = SupabaseConfig{URL: "https://example.supabase.co", PublishableKey: "key"}
	assert.NoError(t, remoteAuth.Validate())

	mockUser := valid
	mockUser.Supabase = SupabaseConfig{SkipAuth: true, MockUserID: "00000000-0000-0000-0000-000000000001"}
	assert.NoError(t, mockUser.Validate())

	mockUser.Supabase.MockUserID = "dev-user"
	assert.ErrorContains(t, mockUser.Validate(), "AUTH_MOCK_USER_ID to be a UUID")

	noDrain := valid
	noDrain.ShutdownTimeout = 0
	assert.ErrorContains(t, noDrain.Validate(), "HTTP_SHUTDOWN_TIMEOUT")

	badConfidence := valid
	badConfidence.Categorize.MinConfidence = 1.5
	assert.ErrorContains(t, badConfidence.Validate(), "SUGGESTION_MIN_CONFIDENCE")
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.GetDSN())

	cfg.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.GetDSN())
}
