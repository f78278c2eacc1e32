package reallybot

import "errors"

var (
	// ErrMalformedInput means the move text could not be parsed as
	// coordinate notation. The session state is unchanged.
	ErrMalformedInput = errors.New("malformed move input")

	// ErrIllegalMove means the parsed move is not legal in the current
	// position. The session state is unchanged.
	ErrIllegalMove = errors.New("illegal move")

	// ErrSessionTerminated means a move was attempted after the game
	// already reached a terminal state.
	ErrSessionTerminated = errors.New("session terminated")

	// ErrEngine means the delegate engine failed to produce a move.
	// Fatal for that move request; never substituted silently.
	ErrEngine = errors.New("delegate engine failure")

	// ErrStoreUnavailable means a persistence read/write failed.
	// Learning updates are best-effort, so this is downgraded to a
	// warning at the finalize step.
	ErrStoreUnavailable = errors.New("move store unavailable")
)
