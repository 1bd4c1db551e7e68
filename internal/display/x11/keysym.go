package x11

import "strings"

var (
	shiftChars = map[rune]string{
		'!': "exclam", '@': "at", '#': "numbersign", '$': "dollar",
		'%': "percent", '^': "asciicircum", '&': "ampersand", '*': "asterisk",
		'(': "parenleft", ')': "parenright", '_': "underscore", '+': "plus",
		'{': "braceleft", '}': "braceright", '|': "bar", ':': "colon",
		'"': "quotedbl", '<': "less", '>': "greater", '?': "question",
		'~': "asciitilde",
	}

	punctuationChars = map[rune]string{
		'.': "period", ',': "comma", ';': "semicolon", '\'': "apostrophe",
		'/': "slash", '\\': "backslash", '-': "minus", '=': "equal",
		'[': "bracketleft", ']': "bracketright", '`': "grave",
		' ': "space", '\n': "Return", '\t': "Tab",
	}

	modifierKeysym = map[string]string{
		"ctrl":  "Control_L",
		"alt":   "Alt_L",
		"shift": "Shift_L",
		"super": "Super_L",
		"cmd":   "Super_L",
	}

	namedKeysym = map[string]string{
		"enter":     "Return",
		"return":    "Return",
		"esc":       "Escape",
		"escape":    "Escape",
		"tab":       "Tab",
		"space":     "space",
		"backspace": "BackSpace",
		"delete":    "Delete",
		"del":       "Delete",
		"insert":    "Insert",
		"home":      "Home",
		"end":       "End",
		"pageup":    "Prior",
		"pagedown":  "Next",
		"up":        "Up",
		"down":      "Down",
		"left":      "Left",
		"right":     "Right",
	}
)

// runeKeysym maps a character to its keysym name and whether shift is held
func runeKeysym(r rune) (string, bool) {
	if r >= 'A' && r <= 'Z' {
		return strings.ToLower(string(r)), true
	}
	if name, ok := shiftChars[r]; ok {
		return name, true
	}
	if name, ok := punctuationChars[r]; ok {
		return name, false
	}
	return string(r), false
}

// keyKeysym maps a lowercase key name from a combo to its keysym name
func keyKeysym(key string) string {
	if name, ok := namedKeysym[key]; ok {
		return name
	}
	if len(key) >= 2 && len(key) <= 3 && key[0] == 'f' && key[1] >= '1' && key[1] <= '9' {
		return strings.ToUpper(key)
	}
	if r := []rune(key); len(r) == 1 {
		name, _ := runeKeysym(r[0])
		return name
	}
	return key
}
