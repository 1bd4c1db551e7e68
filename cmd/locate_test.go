package cmd

import (
	"bytes"
	"image"
	"path/filepath"
	"strings"
	"testing"

	config "github.com/inference-gateway/gridpilot/config"
	grid "github.com/inference-gateway/gridpilot/internal/grid"
	cobra "github.com/spf13/cobra"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func gridFlags(columns, rows int) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Flags().Int("columns", columns, "")
	cmd.Flags().Int("rows", rows, "")
	return cmd
}

func TestOverlayFromFlags(t *testing.T) {
	cfg := config.DefaultConfig()

	overlay, err := overlayFromFlags(gridFlags(0, 0), cfg)
	require.NoError(t, err)
	assert.Equal(t, grid.Spec{Columns: 32, Rows: 18}, overlay.Spec())

	overlay, err = overlayFromFlags(gridFlags(16, 0), cfg)
	require.NoError(t, err)
	assert.Equal(t, grid.Spec{Columns: 16, Rows: 18}, overlay.Spec())

	_, err = overlayFromFlags(gridFlags(-1, 9), cfg)
	assert.Error(t, err)
}

func TestRenderGrid(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "screen.png")
	out := filepath.Join(dir, "overlay.png")
	require.NoError(t, grid.SaveImage(in, image.NewRGBA(image.Rect(0, 0, 640, 360))))

	cmd := gridFlags(8, 4)
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, renderGrid(cmd, config.DefaultConfig(), in, out))

	rendered, err := grid.LoadImage(out)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 640, 360), rendered.Bounds())
	assert.True(t, strings.Contains(buf.String(), "8x4 grid, cells 80x90 px, 32 cells"), buf.String())
}

func TestRenderGrid_MissingImage(t *testing.T) {
	dir := t.TempDir()
	err := renderGrid(gridFlags(0, 0), config.DefaultConfig(), filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"))
	assert.Error(t, err)
}
