package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoBoard is returned by Run without a board.
	ErrNoBoard = errors.New("tui: board is nil")
)
