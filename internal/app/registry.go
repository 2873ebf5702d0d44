package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/huddleio/huddle/internal/core"
	"github.com/huddleio/huddle/internal/domain"
	"github.com/huddleio/huddle/internal/metrics"
)

// Registry owns every Room record. Callers only ever get a *Room
// handle back, never the map itself.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*Room)}
}

func (r *Registry) GetOrCreate(id domain.RoomID) *Room {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if ok {
		return room
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok = r.rooms[id]; ok {
		return room
	}
	room = newRoom(id)
	r.rooms[id] = room
	metrics.RoomsActive.Inc()
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room created")
	return room
}

func (r *Registry) Lookup(id domain.RoomID) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// Remove is called only once a room's member count reached zero.
// Idempotent.
func (r *Registry) Remove(id domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return
	}
	delete(r.rooms, id)
	metrics.RoomsActive.Dec()
	log.Info().Str("module", "app.registry").Str("room", string(id)).Msg("room removed")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) Snapshot() []core.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(r.rooms))
	for id, room := range r.rooms {
		out = append(out, core.RoomInfo{
			ID:          string(id),
			MemberCount: room.MemberCount(),
			CallActive:  room.CallActive(),
		})
	}
	return out
}
