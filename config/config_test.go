package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/lichess"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Load(nil))

	assert.Equal(t, engine.DefaultThinkTime, cfg.ThinkTime)
	assert.Equal(t, engine.DefaultStartDepth, cfg.StartDepth)
	assert.Equal(t, 0, cfg.MaxDepth)
	assert.True(t, cfg.Workers >= 1)
	assert.True(t, cfg.UseTablebase)
	assert.Equal(t, 7, cfg.TablebasePieces)
	assert.Equal(t, 2, cfg.AILevel)
	assert.Equal(t, "white", cfg.AIColor)
	assert.Equal(t, lichess.DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFlags(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load([]string{"--think-time=50ms", "--max-depth=5", "--use-tablebase=false", "--workers", "3", "--debug"})
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.ThinkTime)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, 3, cfg.Workers)
	assert.False(t, cfg.UseTablebase)
	assert.True(t, cfg.Debug)

	ec := cfg.EngineConfig()
	assert.Equal(t, 50*time.Millisecond, ec.ThinkTime)
	assert.Equal(t, 5, ec.MaxDepth)
	assert.Equal(t, 3, ec.Workers)
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv("LICHESS_API_KEY", "lip_plain")
	cfg := &Config{}
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, "lip_plain", cfg.APIKey)

	t.Setenv("LICHESSBOT_API_KEY", "lip_prefixed")
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, "lip_prefixed", cfg.APIKey)

	require.NoError(t, cfg.Load([]string{"--api-key=lip_flag"}))
	assert.Equal(t, "lip_flag", cfg.APIKey)
}

func TestPrefixedEnvironment(t *testing.T) {
	t.Setenv("LICHESSBOT_THINK_TIME", "1s")
	t.Setenv("LICHESSBOT_AI_LEVEL", "5")
	cfg := &Config{}
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, time.Second, cfg.ThinkTime)
	assert.Equal(t, 5, cfg.AILevel)
	assert.Equal(t, 5, cfg.AIChallenge().Level)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.yaml")
	err := os.WriteFile(path, []byte("bot_name: Tomyyy\nthink_time: 300ms\nstart_depth: 3\nlog_format: console\n"), 0o600)
	require.NoError(t, err)

	cfg := &Config{}
	require.NoError(t, cfg.Load([]string{"--config", path, "--start-depth=4"}))

	assert.Equal(t, "Tomyyy", cfg.BotName)
	assert.Equal(t, 300*time.Millisecond, cfg.ThinkTime)
	// flags win over the file
	assert.Equal(t, 4, cfg.StartDepth)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestMissingConfigFile(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestInvalid(t *testing.T) {
	for _, args := range [][]string{
		{"--ai-level=9"},
		{"--think-time=0s"},
		{"--start-depth=0"},
		{"--max-depth=-1"},
		{"--log-format=xml"},
		{"--no-such-flag"},
	} {
		cfg := &Config{}
		assert.Error(t, cfg.Load(args), "args %v", args)
	}
}

func TestPositionalArgs(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Load([]string{"abc12", "--debug", "xyz34"}))
	assert.Equal(t, []string{"abc12", "xyz34"}, cfg.Args)
	assert.True(t, cfg.Debug)
}
