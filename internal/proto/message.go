// Package proto defines the wire protocol: one JSON envelope per frame,
// with the payload decoded according to the type tag. Unknown tags are
// rejected by Decode so a protocol drift never gets silently misread.
package proto

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound message types.
const (
	InboundTypeJoin   = "join"
	InboundTypeUpdate = "update"
	InboundTypeShoot  = "shoot"
	InboundTypeStab   = "stab"
	InboundTypeChat   = "chat"
)

// Outbound message types.
const (
	OutboundTypeWelcome       = "welcome"
	OutboundTypePlayerJoined  = "playerJoined"
	OutboundTypePlayerLeft    = "playerLeft"
	OutboundTypePlayersUpdate = "playersUpdate"
	OutboundTypePlayerShoot   = "playerShoot"
	OutboundTypePlayerStab    = "playerStab"
	OutboundTypeChat          = "chat"
	OutboundTypeError         = "error"
)

// JoinData requests admission to the room. Name stays untyped so that a
// non-string value can be coerced to the placeholder instead of failing
// the whole message.
type JoinData struct {
	Name  any    `json:"name"`
	Role  string `json:"role"`
	Color int    `json:"color"`
}

// Vec3Data is a three-component vector as it appears on the wire.
type Vec3Data struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec3Patch is an inbound vector. Components decode as pointers so a
// missing one is distinguishable from an explicit zero; a vector with an
// absent component fails the shape check and drops the whole message.
type Vec3Patch struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
	Z *float64 `json:"z"`
}

// Complete reports whether every component was present on the wire.
func (v *Vec3Patch) Complete() bool {
	return v != nil && v.X != nil && v.Y != nil && v.Z != nil
}

// Vec converts a complete patch into the outbound vector form.
func (v *Vec3Patch) Vec() Vec3Data {
	return Vec3Data{X: *v.X, Y: *v.Y, Z: *v.Z}
}

// UpdateData overwrites the sender's record after validation and clamping.
// Required fields are pointers: absent means malformed, not zero.
type UpdateData struct {
	Position    *Vec3Patch `json:"position"`
	Rotation    *float64   `json:"rotation"`
	IsFlying    bool       `json:"isFlying"`
	IsShooting  bool       `json:"isShooting"`
	IsInVehicle bool       `json:"isInVehicle"`
	VehicleType *string    `json:"vehicleType"`
	Health      *float64   `json:"health"`
	Money       *float64   `json:"money"`
	WantedLevel *float64   `json:"wantedLevel"`
}

// Complete reports whether every required update field was present.
func (u UpdateData) Complete() bool {
	return u.Position.Complete() &&
		u.Rotation != nil && u.Health != nil && u.Money != nil && u.WantedLevel != nil
}

// ShootData is a transient weapon-fire event, relayed and never stored.
type ShootData struct {
	Origin    *Vec3Patch `json:"origin"`
	Direction *Vec3Patch `json:"direction"`
}

// Complete reports whether both vectors arrived with all components.
func (s ShootData) Complete() bool {
	return s.Origin.Complete() && s.Direction.Complete()
}

// StabData is a transient melee event, relayed and never stored.
type StabData struct {
	TargetID string `json:"targetId"`
}

// ChatData carries a chat line from the client.
type ChatData struct {
	Message string `json:"message"`
}

// Decode unmarshals the envelope payload into the typed struct for its tag.
// An unknown tag or malformed payload is an error; the caller drops the
// message.
func Decode(in Inbound) (any, error) {
	switch in.Type {
	case InboundTypeJoin:
		return decodeAs[JoinData](in.Data)
	case InboundTypeUpdate:
		return decodeAs[UpdateData](in.Data)
	case InboundTypeShoot:
		return decodeAs[ShootData](in.Data)
	case InboundTypeStab:
		return decodeAs[StabData](in.Data)
	case InboundTypeChat:
		return decodeAs[ChatData](in.Data)
	default:
		return nil, fmt.Errorf("unknown inbound type %q", in.Type)
	}
}

func decodeAs[T any](raw json.RawMessage) (T, error) {
	var data T
	if len(raw) == 0 {
		return data, fmt.Errorf("empty payload")
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("decode payload: %w", err)
	}
	return data, nil
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// PublicPlayerState is the client-visible view of one joined player.
// Internal bookkeeping such as the last-update timestamp never appears here.
type PublicPlayerState struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Color       int      `json:"color"`
	Position    Vec3Data `json:"position"`
	Rotation    float64  `json:"rotation"`
	IsFlying    bool     `json:"isFlying"`
	IsShooting  bool     `json:"isShooting"`
	IsInVehicle bool     `json:"isInVehicle"`
	VehicleType *string  `json:"vehicleType"`
	Health      float64  `json:"health"`
	Money       float64  `json:"money"`
	WantedLevel float64  `json:"wantedLevel"`
}

// WelcomeData answers a successful join with the joiner's id and the full
// current roster.
type WelcomeData struct {
	ID      string                       `json:"id"`
	Players map[string]PublicPlayerState `json:"players"`
}

// PlayerJoinedData announces a new player to everyone else. Full state
// follows on the next broadcast tick.
type PlayerJoinedData struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Color int    `json:"color"`
}

// PlayerLeftData announces a departure, whether clean or evicted.
type PlayerLeftData struct {
	ID string `json:"id"`
}

// PlayersUpdateData is the per-tick snapshot of every joined player.
type PlayersUpdateData struct {
	Players map[string]PublicPlayerState `json:"players"`
}

// PlayerShootData relays a shoot event with the shooter's id attached.
type PlayerShootData struct {
	ID        string   `json:"id"`
	Origin    Vec3Data `json:"origin"`
	Direction Vec3Data `json:"direction"`
}

// PlayerStabData relays a stab event with the attacker's id attached.
type PlayerStabData struct {
	ID       string `json:"id"`
	TargetID string `json:"targetId"`
}

// ChatBroadcastData relays a sanitized chat line to every client,
// sender included, for local echo consistency.
type ChatBroadcastData struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ErrorData is sent before a forced close, e.g. on capacity rejection.
type ErrorData struct {
	Message string `json:"message"`
}

// Encode marshals an outbound message once so broadcast paths can fan the
// same prepared frame to every connection.
func Encode(typ string, data any) ([]byte, error) {
	payload, err := json.Marshal(Outbound{Type: typ, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", typ, err)
	}
	return payload, nil
}
