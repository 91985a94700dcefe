package store

import (
	"context"
	"time"
)

// Ban is one blocked remote address. This is an operational block list,
// not game state: nothing about a player's in-world progress is persisted.
type Ban struct {
	Addr      string
	Reason    string
	CreatedAt time.Time
}

// Store persists the ban list across restarts.
type Store interface {
	// IsBanned reports whether addr is currently blocked.
	IsBanned(ctx context.Context, addr string) (bool, error)
	// Ban blocks addr. Banning an already-banned addr updates the reason.
	Ban(ctx context.Context, addr, reason string) error
	// Unban removes the block for addr, if any.
	Unban(ctx context.Context, addr string) error
	// ListBans returns every active ban, newest first.
	ListBans(ctx context.Context) ([]Ban, error)
	// Close releases the underlying resources.
	Close() error
}
