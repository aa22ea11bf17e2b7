package terminal

import (
	"os"

	"github.com/mattn/go-isatty"
)

// StdoutIsTerminal reports whether stdout is a terminal.
func StdoutIsTerminal() bool {
	return isTerminal(os.Stdout)
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
