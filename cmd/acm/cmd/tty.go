package cmd

import (
	"os"

	"github.com/spf13/pflag"
)

// isStdoutTTY returns true if stdout is connected to a terminal.
func isStdoutTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// isStdinPipe returns true if stdin is a pipe or file (not a terminal).
func isStdinPipe() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}

// colorFlags are the --color / --no-color pair shared by printing commands.
type colorFlags struct {
	mode    string
	noColor bool
}

func (f *colorFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.mode, "color", "auto", "Color output: auto, always, never")
	fs.BoolVar(&f.noColor, "no-color", false, "Suppress color output")
}

func (f *colorFlags) palette() palette {
	return palette{on: resolveColor(f.mode, f.noColor)}
}

// resolveColor determines whether to use color output based on flags and TTY status.
// colorFlag is the --color value: "auto", "always", or "never".
func resolveColor(colorFlag string, noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		return isStdoutTTY()
	}
}
