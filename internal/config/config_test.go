package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahinestrog/gamingboost/internal/session"
)

var boostVars = []string{
	"BOOST_API_BASE_URL", "BOOST_API_TIMEOUT", "BOOST_SESSION_BACKEND", "BOOST_SESSION_PATH",
	"BOOST_REDIS_ADDR", "BOOST_REDIS_KEY", "BOOST_LOG_LEVEL", "BOOST_HTTP_ADDR",
	"BOOST_CORS_ORIGINS", "BOOST_CURRENCY", "BOOST_DEEPLINK_CACHE", "BOOST_DEEPLINK_WINDOW",
}

// unsetAll clears every BOOST_* variable for the test and restores them after.
func unsetAll(t *testing.T) {
	t.Helper()
	for _, k := range boostVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetAll(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.2.2:8000/", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, session.BackendSQLite, cfg.SessionBackend)
	assert.Equal(t, "./data/session.db", cfg.SessionPath)
	assert.Equal(t, "gamingboost:auth_token", cfg.RedisKey)
	assert.Equal(t, ":8090", cfg.HTTPAddr)
	assert.Equal(t, "MXN", cfg.Currency)
	assert.Equal(t, 64, cfg.DeepLinkCache)
	assert.Equal(t, 2*time.Second, cfg.DeepLinkWindow)
	assert.Equal(t, []string{"*"}, cfg.Origins())
}

func TestLoad_Env(t *testing.T) {
	unsetAll(t)
	t.Setenv("BOOST_API_BASE_URL", "https://api.example.com/")
	t.Setenv("BOOST_API_TIMEOUT", "5s")
	t.Setenv("BOOST_SESSION_BACKEND", "redis")
	t.Setenv("BOOST_REDIS_ADDR", "localhost:6379")
	t.Setenv("BOOST_CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())

	opts := cfg.Session()
	assert.Equal(t, session.BackendRedis, opts.Backend)
	assert.Equal(t, "localhost:6379", opts.RedisAddr)
}

func TestLoad_EnvFile(t *testing.T) {
	unsetAll(t)
	t.Setenv("BOOST_HTTP_ADDR", ":9999")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOOST_CURRENCY=USD\nBOOST_HTTP_ADDR=:1111\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, ":9999", cfg.HTTPAddr, "process env wins over the file")
}

func TestLoad_MissingEnvFileIsFine(t *testing.T) {
	unsetAll(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"backend":     {"BOOST_SESSION_BACKEND": "etcd"},
		"redis addr":  {"BOOST_SESSION_BACKEND": "redis"},
		"log level":   {"BOOST_LOG_LEVEL": "loud"},
		"timeout":     {"BOOST_API_TIMEOUT": "0s"},
		"bad timeout": {"BOOST_API_TIMEOUT": "soon"},
	} {
		t.Run(name, func(t *testing.T) {
			unsetAll(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
