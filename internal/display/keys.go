package display

import (
	"fmt"
	"strings"
)

// KeyCombo is a parsed key combination such as "ctrl+shift+s"
type KeyCombo struct {
	Modifiers []string
	Key       string
}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"option":  "alt",
	"shift":   "shift",
	"super":   "super",
	"win":     "super",
	"meta":    "super",
	"cmd":     "cmd",
	"command": "cmd",
}

// ParseKeyCombo splits combo on '+' (or '-') into canonical lowercase modifiers
// and the final key. A lone "+" or "-" is treated as the key itself.
func ParseKeyCombo(combo string) (KeyCombo, error) {
	combo = strings.TrimSpace(combo)
	if combo == "" {
		return KeyCombo{}, fmt.Errorf("empty key combination")
	}
	if combo == "+" || combo == "-" {
		return KeyCombo{Key: combo}, nil
	}

	parts := strings.FieldsFunc(combo, func(r rune) bool { return r == '+' || r == '-' })
	if len(parts) == 0 {
		return KeyCombo{}, fmt.Errorf("invalid key combination: %s", combo)
	}

	kc := KeyCombo{Key: strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))}
	for _, p := range parts[:len(parts)-1] {
		name := strings.ToLower(strings.TrimSpace(p))
		mod, ok := modifierAliases[name]
		if !ok {
			return KeyCombo{}, fmt.Errorf("unknown modifier %q in %s", p, combo)
		}
		kc.Modifiers = append(kc.Modifiers, mod)
	}
	if kc.Key == "" {
		return KeyCombo{}, fmt.Errorf("invalid key combination: %s", combo)
	}
	return kc, nil
}

// String renders the combo in canonical form
func (k KeyCombo) String() string {
	return strings.Join(append(append([]string{}, k.Modifiers...), k.Key), "+")
}
