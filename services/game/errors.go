package game

import "fmt"

// Code is the machine-readable error class reported back to clients
// on the acknowledgment channel.
type Code string

const (
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeInvalidState Code = "invalid_state"
	CodeConflict     Code = "conflict"
	CodeThrottled    Code = "throttled"
)

// Error is a recoverable domain error. It never aborts a room's state
// machine; handlers translate it into an ack payload.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrRoomNotFound      = &Error{CodeNotFound, "room not found"}
	ErrPlayerNotFound    = &Error{CodeNotFound, "player not found"}
	ErrNotInRoom         = &Error{CodeNotFound, "player is not a member of this room"}
	ErrNotAuthorized     = &Error{CodeUnauthorized, "only the room admin can do this"}
	ErrNotGameMaster     = &Error{CodeUnauthorized, "only the game master can do this"}
	ErrInvalidPassword   = &Error{CodeConflict, "invalid room password"}
	ErrRoomFull          = &Error{CodeConflict, "room is full"}
	ErrCannotKickSelf    = &Error{CodeConflict, "cannot kick yourself"}
	ErrStaleSocket       = &Error{CodeConflict, "connection no longer owns this seat"}
	ErrNotEnoughPlayers  = &Error{CodeConflict, "at least 3 connected players required"}
	ErrNoWordSet         = &Error{CodeInvalidState, "no word has been set"}
	ErrWrongPhase        = &Error{CodeInvalidState, "action not allowed in the current phase"}
	ErrThrottled         = &Error{CodeThrottled, "action cooldown not yet elapsed"}
)

// ErrCode extracts the error code for ack payloads; unknown errors are
// mapped to invalid_state so a handler bug never leaks internals.
func ErrCode(err error) Code {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return CodeInvalidState
}
