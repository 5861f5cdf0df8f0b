package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, capture.DefaultZoomRange, cfg.ZoomRange())
	require.Equal(t, capture.PositionBack, cfg.Position())
	require.Equal(t, config.AudioOptional, cfg.AudioPolicy)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
minimum_zoom: 1.5
maximum_zoom: 5.0
initial_position: front
audio_policy: required
log_level: debug
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, capture.ZoomRange{Min: 1.5, Max: 5.0}, cfg.ZoomRange())
	require.Equal(t, capture.PositionFront, cfg.Position())
	require.Equal(t, config.AudioRequired, cfg.AudioPolicy)
	require.Equal(t, "debug", cfg.LogLevel)
	// Fields absent from the file keep their defaults.
	require.Equal(t, "h264", cfg.PreferredCodec)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("minimum_zoom: -1\n"), 0o644))
	_, err := config.Load(path)
	require.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CAPTURE_MAXIMUM_ZOOM", "6")
	t.Setenv("CAPTURE_INITIAL_POSITION", "front")
	t.Setenv("CAPTURE_AUDIO_POLICY", "required")

	cfg := config.Default()
	cfg.ApplyEnv()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 6.0, cfg.MaximumZoom)
	require.Equal(t, capture.PositionFront, cfg.Position())
	require.Equal(t, config.AudioRequired, cfg.AudioPolicy)
}

func TestValidate(t *testing.T) {
	cases := []func(*config.Config){
		func(c *config.Config) { c.MinimumZoom = 0 },
		func(c *config.Config) { c.MaximumZoom = c.MinimumZoom - 0.5 },
		func(c *config.Config) { c.InitialPosition = "sideways" },
		func(c *config.Config) { c.AudioPolicy = "loud" },
	}
	for i, mutate := range cases {
		cfg := config.Default()
		mutate(&cfg)
		require.Errorf(t, cfg.Validate(), "case %d", i)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.env")
	require.NoError(t, os.WriteFile(path, []byte("CAPTURE_PREFERRED_CODEC=hevc\n"), 0o644))
	require.NoError(t, config.LoadEnv(path))
	t.Cleanup(func() { os.Unsetenv("CAPTURE_PREFERRED_CODEC") })

	cfg := config.Default()
	cfg.ApplyEnv()
	require.Equal(t, "hevc", cfg.PreferredCodec)
}
