package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitAndSetLevel(t *testing.T) {
	out := filepath.Join(t.TempDir(), "workbench.log")
	require.NoError(t, Init(Config{Level: "debug", Format: "json", OutputPath: out}))
	defer func() {
		mu.Lock()
		globalLogger = nil
		mu.Unlock()
	}()

	assert.Equal(t, zapcore.DebugLevel, Level())
	Named("test").Debug("hello", zap.String("k", "v"))
	assert.NoError(t, Sync())

	SetLevel("warn")
	assert.Equal(t, zapcore.WarnLevel, Level())

	SetLevel("not-a-level")
	assert.Equal(t, zapcore.WarnLevel, Level())
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "loud", OutputPath: filepath.Join(t.TempDir(), "x.log")})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.Equal(t, zapcore.InfoLevel, Level())
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
