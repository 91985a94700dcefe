package core

import (
	"time"

	"github.com/okofalt/cellsync-server/internal/proto"
)

// Role determines a player's team, spawn point, and starting money.
type Role string

const (
	RolePrisoner Role = "prisoner"
	RolePolice   Role = "police"
)

// Valid reports whether the role is one of the two known teams.
func (r Role) Valid() bool {
	return r == RolePrisoner || r == RolePolice
}

// Vec3 is a position in world coordinates.
type Vec3 struct {
	X, Y, Z float64
}

// Spawn points are fixed per role: prisoners appear in the yard,
// police at the station across the wall.
var (
	SpawnPrisoner = Vec3{X: 1712, Y: 14, Z: 1680}
	SpawnPolice   = Vec3{X: 1538, Y: 14, Z: 1772}
)

const (
	StartingMoneyPrisoner = 0
	StartingMoneyPolice   = 1000
	StartingHealth        = 100
)

// PlayerRecord is the authoritative server-held view of one joined player.
// Mutated only through Registry.Update by the owning connection's handler.
type PlayerRecord struct {
	ID          string
	Name        string
	Role        Role
	Color       int
	Position    Vec3
	Rotation    float64
	IsFlying    bool
	IsShooting  bool
	IsInVehicle bool
	VehicleType *string
	Health      float64
	Money       float64
	WantedLevel float64
	LastUpdate  time.Time
}

// NewPlayerRecord builds the initial record for an admitted connection.
// Role decides the spawn coordinate and the starting money.
func NewPlayerRecord(id, name string, role Role, color int, now time.Time) PlayerRecord {
	rec := PlayerRecord{
		ID:         id,
		Name:       name,
		Role:       role,
		Color:      color,
		Position:   SpawnPrisoner,
		Health:     StartingHealth,
		Money:      StartingMoneyPrisoner,
		LastUpdate: now,
	}
	if role == RolePolice {
		rec.Position = SpawnPolice
		rec.Money = StartingMoneyPolice
	}
	return rec
}

// Public strips internal bookkeeping for fan-out.
func (p PlayerRecord) Public() proto.PublicPlayerState {
	return proto.PublicPlayerState{
		ID:          p.ID,
		Name:        p.Name,
		Role:        string(p.Role),
		Color:       p.Color,
		Position:    proto.Vec3Data{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z},
		Rotation:    p.Rotation,
		IsFlying:    p.IsFlying,
		IsShooting:  p.IsShooting,
		IsInVehicle: p.IsInVehicle,
		VehicleType: p.VehicleType,
		Health:      p.Health,
		Money:       p.Money,
		WantedLevel: p.WantedLevel,
	}
}
