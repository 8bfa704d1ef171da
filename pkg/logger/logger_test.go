package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestNewLoggerLevels(t *testing.T) {
	ctx := context.Background()

	prodLogger := New(EnvProd)
	assert.False(t, prodLogger.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prodLogger.Enabled(ctx, slog.LevelInfo))

	devLogger := New(EnvDev)
	assert.True(t, devLogger.Enabled(ctx, slog.LevelDebug))

	localLogger := New(EnvLocal)
	assert.True(t, localLogger.Enabled(ctx, slog.LevelDebug))

	unknown := New("staging")
	assert.True(t, unknown.Enabled(ctx, slog.LevelDebug))
}

func TestPrettyHandlerWritesAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	log := slog.New(newPrettyHandler(&buf, slog.LevelInfo)).With(slog.String("component", "test"))

	log.Debug("hidden")
	log.Info("user created", slog.String("username", "alice"), Err(errors.New("boom")))

	out := buf.String()
	require.NotEmpty(t, out)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "user created")
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "username=alice")
}
