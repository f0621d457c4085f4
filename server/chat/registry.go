package chat

import (
	"sync"
	"time"

	"github.com/usehealthifier/healthifier/plugin/ai"
)

// Registry owns every live AI session handle, keyed by user UID. All
// mutation goes through Get/Put/Remove; nothing else may hold a handle.
//
// Each user additionally gets a lock that callers hold across a whole
// operation (bootstrap+send, or reconcile) so that overlapping work for
// the same user is serialized: two concurrent first messages produce one
// session, and a reconciliation never races a send that is mid-flight.
// Operations for different users are fully independent.
type Registry struct {
	mu          sync.Mutex
	users       map[string]*userEntry
	idleTimeout time.Duration
}

type userEntry struct {
	mu         sync.Mutex
	session    ai.Session
	lastActive time.Time
}

// NewRegistry creates a registry evicting sessions idle for idleTimeout.
func NewRegistry(idleTimeout time.Duration) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	return &Registry{
		users:       make(map[string]*userEntry),
		idleTimeout: idleTimeout,
	}
}

// LockUser acquires the per-user operation lock and returns its unlock
// function. Callers hold it for the full exchange or reconciliation.
func (r *Registry) LockUser(userUID string) func() {
	e := r.entry(userUID)
	e.mu.Lock()
	return e.mu.Unlock
}

func (r *Registry) entry(userUID string) *userEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.users[userUID]
	if !ok {
		e = &userEntry{lastActive: time.Now()}
		r.users[userUID] = e
	}
	return e
}

// Get returns the live session for the user, if any.
func (r *Registry) Get(userUID string) (ai.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.users[userUID]
	if !ok || e.session == nil {
		return nil, false
	}
	e.lastActive = time.Now()
	return e.session, true
}

// Put registers the live session for the user, replacing any previous one.
func (r *Registry) Put(userUID string, session ai.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.users[userUID]
	if !ok {
		e = &userEntry{}
		r.users[userUID] = e
	}
	e.session = session
	e.lastActive = time.Now()
}

// Remove drops the user's session handle. Idempotent.
func (r *Registry) Remove(userUID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.users[userUID]; ok {
		e.session = nil
		e.lastActive = time.Now()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.users {
		if e.session != nil {
			n++
		}
	}
	return n
}

// LiveUsers returns the UIDs of all users with a live session.
func (r *Registry) LiveUsers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var uids []string
	for uid, e := range r.users {
		if e.session != nil {
			uids = append(uids, uid)
		}
	}
	return uids
}

// IdleUsers returns the UIDs of users whose live session has been
// inactive past the idle timeout, and prunes session-less lock entries so
// the map does not grow without bound.
func (r *Registry) IdleUsers(now time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var idle []string
	for uid, e := range r.users {
		if now.Sub(e.lastActive) < r.idleTimeout {
			continue
		}
		if e.session != nil {
			idle = append(idle, uid)
		} else {
			delete(r.users, uid)
		}
	}
	return idle
}
