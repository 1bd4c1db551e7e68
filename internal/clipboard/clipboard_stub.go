//go:build !((darwin || linux) && cgo) || test

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard not supported in this build configuration")

// Init reports that no clipboard is available
func Init() error {
	return errUnsupported
}

// ReadText always fails in this build
func ReadText() (string, error) {
	return "", errUnsupported
}

// WriteText always fails in this build
func WriteText(string) error {
	return errUnsupported
}
