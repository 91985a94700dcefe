package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/okofalt/cellsync-server/internal/metrics"
	"github.com/okofalt/cellsync-server/internal/proto"
	"github.com/okofalt/cellsync-server/internal/ratelimit"
	"github.com/okofalt/cellsync-server/internal/validate"
)

// Options bound the room and its timers.
type Options struct {
	Capacity     int
	TickInterval time.Duration
	StaleTimeout time.Duration
}

// DefaultOptions returns the standard room parameters: 20 players,
// 20 Hz broadcast, 10 s staleness eviction.
func DefaultOptions() Options {
	return Options{
		Capacity:     20,
		TickInterval: 50 * time.Millisecond,
		StaleTimeout: 10 * time.Second,
	}
}

func (o *Options) withDefaults() {
	def := DefaultOptions()
	if o.Capacity <= 0 {
		o.Capacity = def.Capacity
	}
	if o.TickInterval <= 0 {
		o.TickInterval = def.TickInterval
	}
	if o.StaleTimeout <= 0 {
		o.StaleTimeout = def.StaleTimeout
	}
}

// Room is the single bounded world one process serves. It is the only
// writer that adds or removes registry entries: joins and disconnects come
// in through the connection handlers, staleness evictions through the tick.
type Room struct {
	registry *Registry
	limiter  *ratelimit.Limiter
	opts     Options
	log      *zerolog.Logger

	clients *clientSet

	// now is swapped out in tests to drive staleness deterministically.
	now func() time.Time
}

// NewRoom wires a room around an injected registry and limiter.
func NewRoom(registry *Registry, limiter *ratelimit.Limiter, opts Options, logger *zerolog.Logger) *Room {
	opts.withDefaults()
	return &Room{
		registry: registry,
		limiter:  limiter,
		opts:     opts,
		log:      logger,
		clients:  newClientSet(),
		now:      time.Now,
	}
}

// Attach registers a freshly accepted connection. The connection is not a
// player until a valid join admits it.
func (r *Room) Attach(c *Client) {
	r.clients.add(c)
	r.log.Debug().Str("conn_id", c.ID).Str("remote", c.RemoteAddr).Msg("connection attached")
}

// Detach tears down a connection for any disconnect reason. If the
// connection had joined, the departure is announced to everyone left.
func (r *Room) Detach(c *Client) {
	r.clients.remove(c.ID)
	r.limiter.Remove(c.ID)
	if r.registry.Remove(c.ID) {
		metrics.PlayersConnected.Set(float64(r.registry.Size()))
		r.announceLeft(c.ID)
		r.log.Info().Str("conn_id", c.ID).Msg("player left")
	}
	c.ForceClose()
}

// HandleFrame applies one inbound envelope from the connection. Rate
// limiting happens first and charges every message, valid or not. All
// returned errors except ErrRoomFull are silent drops on the wire; the
// transport only logs them.
func (r *Room) HandleFrame(c *Client, in proto.Inbound) error {
	now := r.now()
	if !r.limiter.Allow(c.ID, now) {
		metrics.RateLimitedTotal.Inc()
		r.log.Debug().Str("conn_id", c.ID).Str("type", in.Type).Msg("rate limited")
		return ErrRateLimited
	}

	payload, err := proto.Decode(in)
	if err != nil {
		metrics.InvalidDroppedTotal.Inc()
		r.log.Debug().Err(err).Str("conn_id", c.ID).Msg("dropped malformed frame")
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch data := payload.(type) {
	case proto.JoinData:
		return r.handleJoin(c, data, now)
	case proto.UpdateData:
		return r.handleUpdate(c, data, now)
	case proto.ShootData:
		return r.handleShoot(c, data)
	case proto.StabData:
		return r.handleStab(c, data)
	case proto.ChatData:
		return r.handleChat(c, data)
	default:
		metrics.InvalidDroppedTotal.Inc()
		return fmt.Errorf("%w: unhandled payload %T", ErrInvalidPayload, payload)
	}
}

func (r *Room) handleJoin(c *Client, d proto.JoinData, now time.Time) error {
	if _, exists := r.registry.Get(c.ID); exists {
		return ErrAlreadyJoined
	}

	role := Role(d.Role)
	if !role.Valid() {
		metrics.InvalidDroppedTotal.Inc()
		return fmt.Errorf("%w: role %q", ErrInvalidPayload, d.Role)
	}
	name := validate.Name(d.Name)

	rec := NewPlayerRecord(c.ID, name, role, d.Color, now)
	if !r.registry.Insert(c.ID, rec) {
		metrics.JoinsRejectedTotal.Inc()
		r.log.Warn().Str("conn_id", c.ID).Int("capacity", r.opts.Capacity).Msg("join rejected, room full")
		r.sendTo(c, proto.OutboundTypeError, proto.ErrorData{Message: "room is full"})
		c.ForceClose()
		return ErrRoomFull
	}

	metrics.JoinsTotal.Inc()
	metrics.PlayersConnected.Set(float64(r.registry.Size()))

	r.sendTo(c, proto.OutboundTypeWelcome, proto.WelcomeData{
		ID:      c.ID,
		Players: r.registry.Snapshot(),
	})
	r.broadcast(proto.OutboundTypePlayerJoined, proto.PlayerJoinedData{
		ID:    c.ID,
		Name:  name,
		Role:  string(role),
		Color: d.Color,
	}, c.ID)

	r.log.Info().Str("conn_id", c.ID).Str("name", name).Str("role", string(role)).Msg("player joined")
	return nil
}

func (r *Room) handleUpdate(c *Client, d proto.UpdateData, now time.Time) error {
	if !d.Complete() {
		metrics.InvalidDroppedTotal.Inc()
		return fmt.Errorf("%w: update missing required fields", ErrInvalidPayload)
	}
	if !validate.Position(*d.Position.X, *d.Position.Y, *d.Position.Z) ||
		!validate.Rotation(*d.Rotation) ||
		!validate.Finite(*d.Health) || !validate.Finite(*d.Money) || !validate.Finite(*d.WantedLevel) {
		metrics.InvalidDroppedTotal.Inc()
		return fmt.Errorf("%w: update out of bounds", ErrInvalidPayload)
	}
	vehicleType := validate.VehicleType(d.VehicleType)

	ok := r.registry.Update(c.ID, func(p *PlayerRecord) {
		p.Position = Vec3{X: *d.Position.X, Y: *d.Position.Y, Z: *d.Position.Z}
		p.Rotation = *d.Rotation
		p.IsFlying = d.IsFlying
		p.IsShooting = d.IsShooting
		p.IsInVehicle = d.IsInVehicle
		p.VehicleType = vehicleType
		p.Health = validate.ClampHealth(*d.Health)
		p.Money = validate.ClampMoney(*d.Money)
		p.WantedLevel = validate.ClampWanted(*d.WantedLevel)
		p.LastUpdate = now
	})
	if !ok {
		return ErrNotJoined
	}
	return nil
}

func (r *Room) handleShoot(c *Client, d proto.ShootData) error {
	if _, ok := r.registry.Get(c.ID); !ok {
		return ErrNotJoined
	}
	if !d.Complete() {
		metrics.InvalidDroppedTotal.Inc()
		return fmt.Errorf("%w: shoot missing vectors", ErrInvalidPayload)
	}
	origin, dir := d.Origin.Vec(), d.Direction.Vec()
	for _, v := range [6]float64{origin.X, origin.Y, origin.Z, dir.X, dir.Y, dir.Z} {
		if !validate.Finite(v) {
			metrics.InvalidDroppedTotal.Inc()
			return fmt.Errorf("%w: shoot vector", ErrInvalidPayload)
		}
	}
	r.broadcast(proto.OutboundTypePlayerShoot, proto.PlayerShootData{
		ID:        c.ID,
		Origin:    origin,
		Direction: dir,
	}, c.ID)
	return nil
}

func (r *Room) handleStab(c *Client, d proto.StabData) error {
	if _, ok := r.registry.Get(c.ID); !ok {
		return ErrNotJoined
	}
	if d.TargetID == "" {
		metrics.InvalidDroppedTotal.Inc()
		return fmt.Errorf("%w: stab without target", ErrInvalidPayload)
	}
	r.broadcast(proto.OutboundTypePlayerStab, proto.PlayerStabData{
		ID:       c.ID,
		TargetID: d.TargetID,
	}, c.ID)
	return nil
}

func (r *Room) handleChat(c *Client, d proto.ChatData) error {
	rec, ok := r.registry.Get(c.ID)
	if !ok {
		return ErrNotJoined
	}
	msg, ok := validate.Chat(d.Message)
	if !ok {
		metrics.InvalidDroppedTotal.Inc()
		return fmt.Errorf("%w: empty chat after sanitization", ErrInvalidPayload)
	}
	// Chat echoes back to the sender too.
	r.broadcast(proto.OutboundTypeChat, proto.ChatBroadcastData{
		ID:      c.ID,
		Name:    rec.Name,
		Message: msg,
	}, "")
	return nil
}

// Kick removes a player by id, announces the departure, and forces the
// connection shut. Used by the admin API.
func (r *Room) Kick(id string) error {
	c, ok := r.clients.get(id)
	if !ok {
		return ErrUnknownPlayer
	}
	r.log.Info().Str("conn_id", id).Msg("kicking player")
	r.Detach(c)
	return nil
}

// Run drives the broadcast scheduler until the context is canceled.
func (r *Room) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.TickInterval)
	defer ticker.Stop()

	r.log.Info().
		Int("capacity", r.opts.Capacity).
		Dur("tick_interval", r.opts.TickInterval).
		Dur("stale_timeout", r.opts.StaleTimeout).
		Msg("room running")

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.Tick(now)
		}
	}
}

// Tick is one scheduler pass: evict stale players first, then broadcast
// the snapshot of whoever remains. Eviction precedes snapshot assembly so
// a dead player never appears in the frame announcing its departure.
func (r *Room) Tick(now time.Time) {
	start := time.Now()
	r.collectStale(now)
	r.broadcastSnapshot()
	r.limiter.Sweep(now)
	metrics.BroadcastLatency.Observe(time.Since(start).Seconds())
}

func (r *Room) collectStale(now time.Time) {
	for _, id := range r.registry.CollectStale(now, r.opts.StaleTimeout) {
		r.registry.Remove(id)
		r.limiter.Remove(id)
		metrics.EvictionsTotal.Inc()
		r.announceLeft(id)
		if c, ok := r.clients.get(id); ok {
			r.clients.remove(id)
			c.ForceClose()
		}
		r.log.Info().Str("conn_id", id).Dur("timeout", r.opts.StaleTimeout).Msg("evicted stale player")
	}
	metrics.PlayersConnected.Set(float64(r.registry.Size()))
}

func (r *Room) broadcastSnapshot() {
	players := r.registry.Snapshot()
	if len(players) == 0 {
		return
	}
	r.broadcast(proto.OutboundTypePlayersUpdate, proto.PlayersUpdateData{Players: players}, "")
	metrics.BroadcastTicksTotal.Inc()
}

func (r *Room) announceLeft(id string) {
	r.broadcast(proto.OutboundTypePlayerLeft, proto.PlayerLeftData{ID: id}, id)
}

// broadcast encodes the message once and fans the frame to every attached
// connection except excludeID. Slow consumers lose the frame rather than
// stalling the tick.
func (r *Room) broadcast(typ string, data any, excludeID string) {
	frame, err := proto.Encode(typ, data)
	if err != nil {
		r.log.Error().Err(err).Str("type", typ).Msg("encode broadcast")
		return
	}
	for _, c := range r.clients.list() {
		if c.ID == excludeID {
			continue
		}
		if !c.TrySend(frame) {
			metrics.SlowConsumerDropsTotal.Inc()
		}
	}
}

func (r *Room) sendTo(c *Client, typ string, data any) {
	frame, err := proto.Encode(typ, data)
	if err != nil {
		r.log.Error().Err(err).Str("type", typ).Msg("encode unicast")
		return
	}
	if !c.TrySend(frame) {
		metrics.SlowConsumerDropsTotal.Inc()
	}
}

// PlayerInfo is the operator-facing view served by the admin API.
type PlayerInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Role        string    `json:"role,omitempty"`
	Joined      bool      `json:"joined"`
	RemoteAddr  string    `json:"remoteAddr"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Players lists every attached connection, joined or not, with its remote
// address. Never part of the game protocol.
func (r *Room) Players() []PlayerInfo {
	clients := r.clients.list()
	out := make([]PlayerInfo, 0, len(clients))
	for _, c := range clients {
		info := PlayerInfo{
			ID:          c.ID,
			RemoteAddr:  c.RemoteAddr,
			ConnectedAt: c.CreatedAt,
		}
		if rec, ok := r.registry.Get(c.ID); ok {
			info.Name = rec.Name
			info.Role = string(rec.Role)
			info.Joined = true
		}
		out = append(out, info)
	}
	return out
}
