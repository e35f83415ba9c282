package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Additional-Code/gridlock/internal/config"
)

func TestBuild_LevelFromConfig(t *testing.T) {
	logger, err := Build(config.Observability{ServiceName: "gridlock", LogLevel: "warn", LogEncoding: "json"})
	require.NoError(t, err)

	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestBuild_UnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := Build(config.Observability{LogLevel: "chatty", LogEncoding: "console"})
	require.NoError(t, err)

	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}
