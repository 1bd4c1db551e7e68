package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	zap "go.uber.org/zap"
)

func TestPackageHelpersUseGlobalLogger(t *testing.T) {
	l, logs := TestLogger()
	Set(l)
	t.Cleanup(func() { Set(zap.NewNop()) })

	Debug("probing candidate", "index", 2)
	Info("click verified")
	Warn("artifact write failed", "path", "/tmp/x.png")
	Error("capture failed")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, "probing candidate", entries[0].Message)
	assert.Equal(t, int64(2), entries[0].ContextMap()["index"])
	assert.Equal(t, "/tmp/x.png", entries[2].ContextMap()["path"])
}

func TestWithSessionAndStep(t *testing.T) {
	ctx, logs := TestContext()
	ctx = WithSession(ctx, "abc")
	ctx = WithStep(ctx, 3, "click")

	L(ctx).Info("step started")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc", fields["session"])
	assert.Equal(t, int64(3), fields["step"])
	assert.Equal(t, "click", fields["action"])
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	l, logs := TestLogger()
	Set(l)
	t.Cleanup(func() { Set(zap.NewNop()) })

	FromContext(context.Background()).Info("global")
	assert.Equal(t, 1, logs.Len())
}

func TestInitWithFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridpilot.log")

	Init(false, Options{Level: "info", File: path, MaxSizeMB: 1})
	t.Cleanup(func() { Set(zap.NewNop()) })

	Info("written to file", "k", "v")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
