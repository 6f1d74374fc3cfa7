package scene

import (
	"errors"
	"fmt"
)

// ErrMalformedScene indicates truncated input, a non-numeric argument or an
// unknown field inside a particle block.
var ErrMalformedScene = errors.New("scene: malformed scene")

// ParseError locates a malformed token. Pos is the token index.
type ParseError struct {
	Pos    int
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("scene: token %d: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("scene: token %d (%q): %s", e.Pos, e.Token, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedScene
}
