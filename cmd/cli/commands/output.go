package commands

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/mattn/go-isatty"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// outputMu keeps output from background commands from interleaving
var outputMu sync.Mutex

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// colorize wraps s in color when stdout is a terminal
func colorize(color, s string) string {
	if !colorEnabled {
		return s
	}
	return color + s + colorReset
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatOptionalBool(v *bool) string {
	if v == nil {
		return "any"
	}
	if *v {
		return "yes"
	}
	return "no"
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
