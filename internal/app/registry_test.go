package app

import (
	"sync"
	"testing"

	"github.com/huddleio/huddle/internal/domain"
)

func TestRegistryGetOrCreateReturnsSameRoom(t *testing.T) {
	reg := NewRegistry()
	a := reg.GetOrCreate("demo")
	b := reg.GetOrCreate("demo")
	if a != b {
		t.Fatal("GetOrCreate must return the same room for the same id")
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryIDsAreCaseSensitive(t *testing.T) {
	reg := NewRegistry()
	a := reg.GetOrCreate("Demo")
	b := reg.GetOrCreate("demo")
	if a == b {
		t.Fatal("room ids must be case-sensitive")
	}
}

func TestRegistryRemoveIsIdempotent(t *testing.T) {
	reg := NewRegistry()
	reg.GetOrCreate("demo")
	reg.Remove("demo")
	reg.Remove("demo")
	if _, ok := reg.Lookup("demo"); ok {
		t.Fatal("room should be gone after Remove")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", reg.Len())
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()
	ids := []domain.RoomID{"a", "b", "c", "d"}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				for _, id := range ids {
					reg.GetOrCreate(id)
					reg.Lookup(id)
					reg.Remove(id)
				}
			}
		}()
	}
	wg.Wait()
}

func TestRegistrySnapshot(t *testing.T) {
	reg := NewRegistry()
	reg.GetOrCreate("one")
	reg.GetOrCreate("two")

	snap := reg.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot has %d rooms, want 2", len(snap))
	}
	for _, info := range snap {
		if info.MemberCount != 0 {
			t.Fatalf("fresh room %s reports %d members", info.ID, info.MemberCount)
		}
	}
}
