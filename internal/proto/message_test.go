package proto

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTypedPayloads(t *testing.T) {
	tests := []struct {
		name string
		in   Inbound
		want any
	}{
		{
			name: "join",
			in:   Inbound{Type: InboundTypeJoin, Data: json.RawMessage(`{"name":"alice","role":"police","color":5}`)},
			want: JoinData{Name: "alice", Role: "police", Color: 5},
		},
		{
			name: "stab",
			in:   Inbound{Type: InboundTypeStab, Data: json.RawMessage(`{"targetId":"abc"}`)},
			want: StabData{TargetID: "abc"},
		},
		{
			name: "chat",
			in:   Inbound{Type: InboundTypeChat, Data: json.RawMessage(`{"message":"hello"}`)},
			want: ChatData{Message: "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeShoot(t *testing.T) {
	raw := `{"origin":{"x":1,"y":2,"z":3},"direction":{"x":0,"y":0,"z":1}}`
	got, err := Decode(Inbound{Type: InboundTypeShoot, Data: json.RawMessage(raw)})
	require.NoError(t, err)

	shoot, ok := got.(ShootData)
	require.True(t, ok)
	require.True(t, shoot.Complete())
	assert.Equal(t, Vec3Data{X: 1, Y: 2, Z: 3}, shoot.Origin.Vec())
	assert.Equal(t, Vec3Data{Z: 1}, shoot.Direction.Vec())
}

func TestShootIncompleteWithoutVectors(t *testing.T) {
	got, err := Decode(Inbound{Type: InboundTypeShoot, Data: json.RawMessage(`{}`)})
	require.NoError(t, err)

	shoot, ok := got.(ShootData)
	require.True(t, ok)
	assert.False(t, shoot.Complete())
}

func TestDecodeUpdate(t *testing.T) {
	raw := `{"position":{"x":1.5,"y":2,"z":-3},"rotation":0.7,"isFlying":true,"isShooting":false,
		"isInVehicle":true,"vehicleType":"sedan","health":90,"money":120,"wantedLevel":3}`
	got, err := Decode(Inbound{Type: InboundTypeUpdate, Data: json.RawMessage(raw)})
	require.NoError(t, err)

	upd, ok := got.(UpdateData)
	require.True(t, ok)
	require.True(t, upd.Complete())
	assert.Equal(t, 1.5, *upd.Position.X)
	assert.True(t, upd.IsFlying)
	require.NotNil(t, upd.VehicleType)
	assert.Equal(t, "sedan", *upd.VehicleType)
}

func TestUpdateIncompleteWhenFieldsOmitted(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"position missing a component", `{"position":{"x":1,"y":2},"rotation":0,"health":100,"money":0,"wantedLevel":0}`},
		{"no rotation", `{"position":{"x":1,"y":2,"z":3},"health":100,"money":0,"wantedLevel":0}`},
		{"no health", `{"position":{"x":1,"y":2,"z":3},"rotation":0,"money":0,"wantedLevel":0}`},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Inbound{Type: InboundTypeUpdate, Data: json.RawMessage(tt.raw)})
			require.NoError(t, err)

			upd, ok := got.(UpdateData)
			require.True(t, ok)
			assert.False(t, upd.Complete())
		})
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := Decode(Inbound{Type: "teleport", Data: json.RawMessage(`{}`)})
	assert.Error(t, err)
}

func TestDecodeRejectsMalformedPayload(t *testing.T) {
	_, err := Decode(Inbound{Type: InboundTypeUpdate, Data: json.RawMessage(`{"position":"nope"}`)})
	assert.Error(t, err)

	_, err = Decode(Inbound{Type: InboundTypeChat, Data: nil})
	assert.Error(t, err)
}

func TestDecodeJoinKeepsRawName(t *testing.T) {
	// a numeric name survives decoding so the validator can coerce it
	got, err := Decode(Inbound{Type: InboundTypeJoin, Data: json.RawMessage(`{"name":42,"role":"prisoner","color":0}`)})
	require.NoError(t, err)

	join, ok := got.(JoinData)
	require.True(t, ok)
	_, isString := join.Name.(string)
	assert.False(t, isString)
}

func TestEncodeEnvelope(t *testing.T) {
	frame, err := Encode(OutboundTypePlayerLeft, PlayerLeftData{ID: "abc"})
	require.NoError(t, err)

	var out struct {
		Type string         `json:"type"`
		Data PlayerLeftData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &out))
	assert.Equal(t, OutboundTypePlayerLeft, out.Type)
	assert.Equal(t, "abc", out.Data.ID)
}
