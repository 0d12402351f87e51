package player

import (
	"slices"
	"sync"
	"time"
)

type Player struct {
	ID       string
	Name     string
	Mode     string
	State    string
	JoinedAt time.Time
}

// Registry tracks connected players. Returned players are copies.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*Player),
		now:     time.Now,
	}
}

func (r *Registry) Add(id, name string) Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := &Player{
		ID:       id,
		Name:     name,
		JoinedAt: r.now(),
	}
	r.players[id] = p
	return *p
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, id)
}

func (r *Registry) Get(id string) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

// Update applies fn to the player with id, if present.
func (r *Registry) Update(id string, fn func(*Player)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return false
	}
	fn(p)
	return true
}

func (r *Registry) SetName(id, name string) {
	r.Update(id, func(p *Player) { p.Name = name })
}

func (r *Registry) SetMode(id, mode string) {
	r.Update(id, func(p *Player) { p.Mode = mode })
}

func (r *Registry) SetState(id, state string) {
	r.Update(id, func(p *Player) { p.State = state })
}

// All returns every player, oldest connection first.
func (r *Registry) All() []Player {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, *p)
	}
	slices.SortFunc(players, func(a, b Player) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return players
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
