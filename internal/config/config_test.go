package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBaseURL, EnvRPCURL, EnvPrivateKey, EnvMoltenAPIKey} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url = "http://localhost:3000/"
timeout = "5s"
requests_per_second = 2.5

[cache]
backend = "redis"
ttl = "2m"
redis_url = "redis://localhost:6379/0"

[history]
backend = "none"
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL, "trailing slash stripped")
	assert.Equal(t, Default().RPCURL, cfg.RPCURL, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL.Duration)
	assert.Equal(t, BackendNone, cfg.History.Backend)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "https://staging.clawn.ch/")
	t.Setenv(EnvRPCURL, "https://sepolia.base.org")
	t.Setenv(EnvPrivateKey, " 0xabc \n")
	t.Setenv(EnvMoltenAPIKey, "molten-key")

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`base_url = "https://file.example"`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.clawn.ch", cfg.BaseURL)
	assert.Equal(t, "https://sepolia.base.org", cfg.RPCURL)
	assert.Equal(t, "0xabc", cfg.PrivateKey)
	assert.Equal(t, "molten-key", cfg.MoltenAPIKey)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"bad toml", `base_url = `},
		{"bad duration", `timeout = "soon"`},
		{"bad scheme", `base_url = "ftp://clawn.ch"`},
		{"unknown cache", "[cache]\nbackend = \"memcached\""},
		{"redis without url", "[cache]\nbackend = \"redis\""},
		{"mongo without uri", "[history]\nbackend = \"mongo\""},
		{"negative rate", `requests_per_second = -1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0600))
			cfg, err := Load(path)
			if err == nil {
				err = cfg.Validate()
			}
			require.Error(t, err)
			assert.True(t, clawerr.Is(err, clawerr.ErrCodeInvalidConfig), err.Error())
		})
	}
}

func TestLoad_DefersValidation(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "base_url = \"ftp://nope\"\n[cache]\nbackend = \"redis\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ftp://nope", cfg.BaseURL)
	require.Error(t, cfg.Validate())

	cfg.BaseURL = "https://clawn.ch"
	cfg.Cache.Backend = BackendNone
	assert.NoError(t, cfg.Validate())
}

func TestSave_RoundTripWithoutSecrets(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.BaseURL = "http://localhost:3000"
	cfg.History.Backend = BackendMongo
	cfg.History.MongoURI = "mongodb://localhost:27017"
	cfg.PrivateKey = "0xsecret"
	cfg.MoltenAPIKey = "molten-secret"

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "secret"))
	assert.Contains(t, string(data), `timeout = "30s"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	cfg.PrivateKey, cfg.MoltenAPIKey = "", ""
	assert.Equal(t, cfg, loaded)
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "clawctl", "config.toml"), p)
}
