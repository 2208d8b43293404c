package session

import (
	"sync"
	"time"
)

// Store owns the sessions for one process, keyed by screen/channel
// name. Sessions are created lazily and reaped after sitting unused
// for the configured TTL. A zero TTL disables reaping.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore returns an empty store.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns the session for key, creating it on first use.
func (st *Store) Get(key string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[key]; ok {
		return s
	}

	s := New(key)
	st.sessions[key] = s

	if st.ttl > 0 {
		// reaper returns once the session is gone
		go func() {
			for {
				time.Sleep(st.ttl)
				if st.reap(s) {
					return
				}
			}
		}()
	}
	return s
}

// Expire drops the session for key, if any.
func (st *Store) Expire(key string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, key)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// reap removes s when it has been idle past the TTL. A session with a
// turn in flight is never reaped. It reports whether s is no longer
// in the store.
func (st *Store) reap(s *Session) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.sessions[s.Name] != s {
		return true
	}

	s.mu.RLock()
	idle := s.state == StateIdle && time.Since(s.last) > st.ttl
	s.mu.RUnlock()

	if idle {
		delete(st.sessions, s.Name)
		return true
	}
	return false
}
