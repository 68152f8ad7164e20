// Package stats maintains the session ledger and derived statistics.
package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const terminalWidthBackup = 80

const (
	colorGold  = "\x1b[33m"
	colorReset = "\x1b[0m"
)

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
