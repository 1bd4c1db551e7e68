package macos

import (
	"testing"

	display "github.com/inference-gateway/gridpilot/internal/display"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestRobotgoCombo(t *testing.T) {
	tests := []struct {
		combo string
		key   string
		mods  []string
	}{
		{"cmd+v", "v", []string{"cmd"}},
		{"super+shift+Return", "enter", []string{"cmd", "shift"}},
		{"option+escape", "esc", []string{"alt"}},
		{"f5", "f5", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.combo, func(t *testing.T) {
			kc, err := display.ParseKeyCombo(tt.combo)
			require.NoError(t, err)

			key, mods := robotgoCombo(kc)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.mods, mods)
		})
	}
}

func TestRobotgoButton(t *testing.T) {
	name, err := robotgoButton(display.MouseButtonMiddle)
	require.NoError(t, err)
	assert.Equal(t, "center", name)

	_, err = robotgoButton(display.MouseButton(9))
	assert.Error(t, err)
}

func TestStubProviderUnavailable(t *testing.T) {
	p := NewProvider()
	assert.Equal(t, "macos", p.GetDisplayInfo().Name)
}
