package core

import (
	"fmt"
	"testing"
	"time"
)

func TestRegistryCapacity(t *testing.T) {
	reg := NewRegistry(3)
	now := time.Now()

	for i := range 3 {
		id := fmt.Sprintf("p%d", i)
		if !reg.Insert(id, NewPlayerRecord(id, "name", RolePrisoner, 0, now)) {
			t.Fatalf("insert %d should succeed", i)
		}
	}
	if reg.Insert("p3", NewPlayerRecord("p3", "name", RolePrisoner, 0, now)) {
		t.Fatal("insert beyond capacity should fail")
	}
	if got := reg.Size(); got != 3 {
		t.Fatalf("size = %d, want 3", got)
	}

	// freeing a slot re-opens admission
	reg.Remove("p0")
	if !reg.Insert("p3", NewPlayerRecord("p3", "name", RolePrisoner, 0, now)) {
		t.Fatal("insert after removal should succeed")
	}
}

func TestRegistryDuplicateInsert(t *testing.T) {
	reg := NewRegistry(5)
	now := time.Now()

	reg.Insert("a", NewPlayerRecord("a", "one", RolePrisoner, 0, now))
	if reg.Insert("a", NewPlayerRecord("a", "two", RolePolice, 0, now)) {
		t.Fatal("duplicate insert should fail")
	}
	rec, _ := reg.Get("a")
	if rec.Name != "one" {
		t.Fatalf("duplicate insert overwrote record: %+v", rec)
	}
}

func TestRegistryUpdate(t *testing.T) {
	reg := NewRegistry(5)
	now := time.Now()
	reg.Insert("a", NewPlayerRecord("a", "alice", RolePrisoner, 0, now))

	if !reg.Update("a", func(p *PlayerRecord) { p.Health = 55 }) {
		t.Fatal("update of existing record should succeed")
	}
	rec, _ := reg.Get("a")
	if rec.Health != 55 {
		t.Fatalf("health = %v, want 55", rec.Health)
	}

	if reg.Update("ghost", func(p *PlayerRecord) {}) {
		t.Fatal("update of missing record should fail")
	}
}

func TestRegistrySnapshotIsCopy(t *testing.T) {
	reg := NewRegistry(5)
	now := time.Now()
	reg.Insert("a", NewPlayerRecord("a", "alice", RolePolice, 7, now))

	snap := reg.Snapshot()
	reg.Remove("a")

	if len(snap) != 1 {
		t.Fatalf("snapshot len = %d, want 1", len(snap))
	}
	if snap["a"].Money != StartingMoneyPolice {
		t.Fatalf("police starting money = %v, want %d", snap["a"].Money, StartingMoneyPolice)
	}
}

func TestRegistryCollectStale(t *testing.T) {
	reg := NewRegistry(5)
	base := time.Unix(1000, 0)

	reg.Insert("old", NewPlayerRecord("old", "o", RolePrisoner, 0, base))
	reg.Insert("new", NewPlayerRecord("new", "n", RolePrisoner, 0, base.Add(8*time.Second)))

	stale := reg.CollectStale(base.Add(11*time.Second), 10*time.Second)
	if len(stale) != 1 || stale[0] != "old" {
		t.Fatalf("stale = %v, want [old]", stale)
	}
}

func TestSpawnDefaults(t *testing.T) {
	now := time.Now()

	prisoner := NewPlayerRecord("p", "p", RolePrisoner, 0, now)
	if prisoner.Position != SpawnPrisoner || prisoner.Money != StartingMoneyPrisoner {
		t.Fatalf("prisoner spawn wrong: %+v", prisoner)
	}

	police := NewPlayerRecord("c", "c", RolePolice, 0, now)
	if police.Position != SpawnPolice || police.Money != StartingMoneyPolice {
		t.Fatalf("police spawn wrong: %+v", police)
	}
	if police.Health != StartingHealth {
		t.Fatalf("health = %v, want %d", police.Health, StartingHealth)
	}
}
