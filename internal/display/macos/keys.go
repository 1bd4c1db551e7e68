package macos

import (
	"fmt"

	display "github.com/inference-gateway/gridpilot/internal/display"
)

var robotgoModifiers = map[string]string{
	"cmd":   "cmd",
	"super": "cmd",
	"ctrl":  "ctrl",
	"alt":   "alt",
	"shift": "shift",
}

var robotgoKeys = map[string]string{
	"return": "enter",
	"del":    "delete",
	"escape": "esc",
}

// robotgoCombo maps a parsed combo onto RobotGo key and modifier names
func robotgoCombo(kc display.KeyCombo) (string, []string) {
	key := kc.Key
	if mapped, ok := robotgoKeys[key]; ok {
		key = mapped
	}

	mods := make([]string, 0, len(kc.Modifiers))
	for _, m := range kc.Modifiers {
		mods = append(mods, robotgoModifiers[m])
	}
	return key, mods
}

func robotgoButton(button display.MouseButton) (string, error) {
	switch button {
	case display.MouseButtonLeft:
		return "left", nil
	case display.MouseButtonRight:
		return "right", nil
	case display.MouseButtonMiddle:
		return "center", nil
	default:
		return "", fmt.Errorf("invalid mouse button %s", button)
	}
}
