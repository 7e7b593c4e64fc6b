package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/merchant-admin/internal/config"
)

func TestInit_Console(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))

	require.NoError(t, Init(config.EnvProduction, nil))
	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}

func TestInit_File(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init("local", &config.LoggerConfig{
		FileEnable: true,
		Filename:   path,
		MaxSize:    1,
	}))

	zap.L().Info("hello from test")
	_ = zap.L().Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello from test")
}
