//go:build (darwin || linux) && cgo && !test

package clipboard

import (
	"fmt"
	"sync"

	xclipboard "golang.design/x/clipboard"
)

var initOnce = sync.OnceValue(xclipboard.Init)

// Init initializes the system clipboard; later calls return the first result
func Init() error {
	if err := initOnce(); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	return nil
}

// ReadText returns the current text contents of the clipboard
func ReadText() (string, error) {
	if err := Init(); err != nil {
		return "", err
	}
	return string(xclipboard.Read(xclipboard.FmtText)), nil
}

// WriteText replaces the clipboard contents with text
func WriteText(text string) error {
	if err := Init(); err != nil {
		return err
	}
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}
