package core

import "errors"

var (
	// ErrRoomFull means admission was refused because the room is at
	// capacity. The client receives an error frame and a forced close.
	ErrRoomFull = errors.New("room full")
	// ErrAlreadyJoined means a second join arrived on a joined connection.
	ErrAlreadyJoined = errors.New("already joined")
	// ErrNotJoined means a message required a joined sender.
	ErrNotJoined = errors.New("not joined")
	// ErrInvalidPayload means validation rejected the message. Dropped
	// silently on the wire; surfaced only to logs and metrics.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrRateLimited means the sender exceeded its window budget. Also a
	// silent drop on the wire.
	ErrRateLimited = errors.New("rate limited")
	// ErrUnknownPlayer means an operation referenced an id with no record.
	ErrUnknownPlayer = errors.New("unknown player")
)
