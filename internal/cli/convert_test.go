package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stencilgen/stencilgen/convert"
)

func TestResolveDefaults(t *testing.T) {
	opts := defaultConvertOpts()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.register(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := opts.resolve(fs)
	require.NoError(t, err)
	assert.Equal(t, convert.DefaultConfig(), cfg)
}

func TestResolveNoLedgeFlag(t *testing.T) {
	opts := defaultConvertOpts()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.register(fs)
	require.NoError(t, fs.Parse([]string{"-n"}))

	cfg, err := opts.resolve(fs)
	require.NoError(t, err)
	assert.False(t, cfg.LedgeEnabled)
}

func TestResolveFlagsBeatConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stencil.toml")
	require.NoError(t, os.WriteFile(path, []byte("thickness = 0.15\ngap = 0.5\n"), 0o644))

	opts := defaultConvertOpts()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.register(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "--thickness", "0.3"}))

	cfg, err := opts.resolve(fs)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Thickness, "explicit flag wins over the config file")
	assert.Equal(t, 0.5, cfg.Gap, "file value survives when the flag is untouched")
	assert.True(t, cfg.LedgeEnabled, "untouched defaults survive both layers")
}

func TestResolveBadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("thickness = {"), 0o644))

	opts := defaultConvertOpts()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.register(fs)
	require.NoError(t, fs.Parse([]string{"--config", path}))

	_, err := opts.resolve(fs)
	require.Error(t, err)
}
