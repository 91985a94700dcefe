package core

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/okofalt/cellsync-server/internal/proto"
	"github.com/okofalt/cellsync-server/internal/ratelimit"
)

func newTestRoom(opts Options) *Room {
	opts.withDefaults()
	logger := zerolog.Nop()
	reg := NewRegistry(opts.Capacity)
	lim := ratelimit.New(time.Second, 1000)
	return NewRoom(reg, lim, opts, &logger)
}

// roomWithBudget builds a room whose limiter allows only budget messages
// per second.
func roomWithBudget(budget int) *Room {
	logger := zerolog.Nop()
	opts := DefaultOptions()
	reg := NewRegistry(opts.Capacity)
	lim := ratelimit.New(time.Second, budget)
	return NewRoom(reg, lim, opts, &logger)
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// mustFrame drains the client's send queue until a frame of the wanted
// type arrives, failing after a short deadline.
func mustFrame(t *testing.T, c *Client, typ string) json.RawMessage {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case raw := <-c.Send():
			var f frame
			if err := json.Unmarshal(raw, &f); err != nil {
				t.Fatalf("bad frame %q: %v", raw, err)
			}
			if f.Type == typ {
				return f.Data
			}
		case <-deadline:
			t.Fatalf("expected frame %q not received", typ)
		}
	}
}

// noFrame asserts that no frame of the given type is queued.
func noFrame(t *testing.T, c *Client, typ string) {
	t.Helper()

	for {
		select {
		case raw := <-c.Send():
			var f frame
			if err := json.Unmarshal(raw, &f); err != nil {
				t.Fatalf("bad frame %q: %v", raw, err)
			}
			if f.Type == typ {
				t.Fatalf("unexpected frame %q: %s", typ, f.Data)
			}
		default:
			return
		}
	}
}

func decodeInto[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return out
}

func inbound(t *testing.T, typ string, payload any) proto.Inbound {
	t.Helper()

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return proto.Inbound{Type: typ, Data: raw}
}

func joinRoom(t *testing.T, r *Room, c *Client, name, role string) {
	t.Helper()

	r.Attach(c)
	if err := r.HandleFrame(c, inbound(t, proto.InboundTypeJoin, map[string]any{
		"name": name, "role": role, "color": 3,
	})); err != nil {
		t.Fatalf("join %s: %v", c.ID, err)
	}
}

func validUpdate(x, y, z float64) map[string]any {
	return map[string]any{
		"position":    map[string]float64{"x": x, "y": y, "z": z},
		"rotation":    1.5,
		"isFlying":    false,
		"isShooting":  true,
		"isInVehicle": false,
		"vehicleType": nil,
		"health":      80.0,
		"money":       250.0,
		"wantedLevel": 2.0,
	}
}
