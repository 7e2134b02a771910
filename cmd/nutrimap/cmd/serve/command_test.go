package serve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/nutrimap/cmd/application"
	"github.com/carebridge/nutrimap/internal/server"
	"github.com/carebridge/nutrimap/pkg/errors"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestApplyEnv(t *testing.T) {
	cfg := server.DefaultConfig()
	require.NoError(t, applyEnv(&cfg, env(nil)))
	assert.Equal(t, server.DefaultConfig().Addr(), cfg.Addr())

	require.NoError(t, applyEnv(&cfg, env(map[string]string{"HTTP_HOST": "0.0.0.0", "HTTP_PORT": "9090"})))
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())

	err := applyEnv(&cfg, env(map[string]string{"HTTP_PORT": "http"}))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestFlagsBindConfig(t *testing.T) {
	cmd := NewCommand(&application.Mock{})
	require.NoError(t, cmd.ParseFlags([]string{
		"--port", "70000",
		"--cache-ttl", "90s",
		"--cors-origins", "https://a.example,https://b.example",
	}))

	v, err := cmd.Flags().GetDuration("cache-ttl")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, v)

	origins, err := cmd.Flags().GetStringSlice("cors-origins")
	require.NoError(t, err)
	assert.Len(t, origins, 2)
}

func TestRejectsInvalidConfig(t *testing.T) {
	t.Setenv("HTTP_HOST", "")
	t.Setenv("HTTP_PORT", "")
	for _, args := range [][]string{
		{"--port", "70000"},
		{"--cache-ttl", "0s"},
		{"--rate-limit", "-1"},
	} {
		cmd := NewCommand(&application.Mock{})
		cmd.SetArgs(args)
		err := cmd.Execute()
		require.Error(t, err, args)
		assert.True(t, errors.IsValidationError(err), args)
	}
}
