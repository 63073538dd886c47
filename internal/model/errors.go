package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLayout = errors.New("invalid layout")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrGameOver      = errors.New("game is over")
	ErrGameFull      = errors.New("game is full")
	ErrNotAPlayer    = errors.New("player not in game")
)

// LayoutError describes a custom grid that cannot be turned into a game.
type LayoutError struct {
	Square *Position // offending square, nil when the grid as a whole is at fault
	Owners []string
	Reason string
}

func (e *LayoutError) Error() string {
	msg := ErrInvalidLayout.Error() + ": " + e.Reason
	if e.Square != nil {
		msg += fmt.Sprintf(" at %s", e.Square.Notation())
	}
	if len(e.Owners) > 0 {
		msg += " (" + strings.Join(e.Owners, ", ") + ")"
	}
	return msg
}

func (e *LayoutError) Unwrap() error { return ErrInvalidLayout }
