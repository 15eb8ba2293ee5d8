package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	session *Session
	owner   string
	touched time.Time
}

// Registry keeps open sessions by ID for the HTTP surface. Sessions idle
// longer than the TTL are dropped on the next Create.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *Registry) Create(s *Session, owner string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	id := uuid.NewString()
	r.sessions[id] = &entry{session: s, owner: owner, touched: r.now()}
	return id
}

// Get returns the session only to its owner.
func (r *Registry) Get(id, owner string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.owner != owner || r.expired(e) {
		return nil, false
	}
	e.touched = r.now()
	return e.session, true
}

func (r *Registry) Delete(id, owner string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.owner != owner {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(e *entry) bool {
	return r.ttl > 0 && r.now().Sub(e.touched) > r.ttl
}

func (r *Registry) sweep() {
	for id, e := range r.sessions {
		if r.expired(e) {
			delete(r.sessions, id)
		}
	}
}
