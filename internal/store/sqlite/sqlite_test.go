package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBanRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	banned, err := st.IsBanned(ctx, "203.0.113.7")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if banned {
		t.Fatal("fresh store should have no bans")
	}

	if err := st.Ban(ctx, "203.0.113.7", "griefing"); err != nil {
		t.Fatalf("Ban: %v", err)
	}

	banned, err = st.IsBanned(ctx, "203.0.113.7")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if !banned {
		t.Fatal("address should be banned")
	}

	bans, err := st.ListBans(ctx)
	if err != nil {
		t.Fatalf("ListBans: %v", err)
	}
	if len(bans) != 1 || bans[0].Addr != "203.0.113.7" || bans[0].Reason != "griefing" {
		t.Fatalf("bans = %+v", bans)
	}
}

func TestBanIsUpsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Ban(ctx, "203.0.113.7", "first"); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	if err := st.Ban(ctx, "203.0.113.7", "second"); err != nil {
		t.Fatalf("re-Ban: %v", err)
	}

	bans, err := st.ListBans(ctx)
	if err != nil {
		t.Fatalf("ListBans: %v", err)
	}
	if len(bans) != 1 || bans[0].Reason != "second" {
		t.Fatalf("bans = %+v", bans)
	}
}

func TestUnban(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Ban(ctx, "198.51.100.4", ""); err != nil {
		t.Fatalf("Ban: %v", err)
	}
	if err := st.Unban(ctx, "198.51.100.4"); err != nil {
		t.Fatalf("Unban: %v", err)
	}

	banned, err := st.IsBanned(ctx, "198.51.100.4")
	if err != nil {
		t.Fatalf("IsBanned: %v", err)
	}
	if banned {
		t.Fatal("address should be unbanned")
	}

	// unbanning an unknown address is not an error
	if err := st.Unban(ctx, "192.0.2.1"); err != nil {
		t.Fatalf("Unban unknown: %v", err)
	}
}
