package gameerrors

import (
	"errors"
	"fmt"
)

// Command sentinel errors. Used by the game, session, and api packages so the
// HTTP layer can map rejections to status codes without importing game internals.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrCardNotFound       = errors.New("card not found")
	ErrUnknownCard        = errors.New("unknown card name")
	ErrDecisionNotFound   = errors.New("pending decision not found")
	ErrInsufficientElixir = errors.New("not enough elixir")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrGameOver           = errors.New("game is over")
)

// Invalid wraps a reason into ErrInvalidOperation so callers can both
// errors.Is-match the category and show the specific reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidOperation}, args...)...)
}

// NotFoundCard wraps ErrCardNotFound with the card identity that was searched.
func NotFoundCard(name string, level int, zone string) error {
	return fmt.Errorf("%w: %s level %d in %s", ErrCardNotFound, name, level, zone)
}
