//go:build windows

package cmd

import (
	"errors"
	"os"
)

var errNoTTY = errors.New("the interactive picker needs a unix terminal")

func openTTY() (*os.File, error) {
	return nil, errNoTTY
}

func checkTTY() error {
	return errNoTTY
}
