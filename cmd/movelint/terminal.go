package main

import (
	"os"

	"golang.org/x/term"
)

// isTerminal reports whether f is attached to an interactive terminal.
// Grounded on the teacher's cmd/surge/main.go isTerminal helper verbatim.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
