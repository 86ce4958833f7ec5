package token

import "sync"

// Registry is a process-wide deny list of revoked tokens. Entries live for
// the lifetime of the process: there is no eviction, and a restart clears
// all revocations. Unbounded growth is an accepted limitation of the
// single-process scope.
type Registry struct {
	mu      sync.RWMutex
	revoked map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{revoked: make(map[string]struct{})}
}

// Revoke adds the token to the deny list. Revoking twice is a no-op.
func (r *Registry) Revoke(token string) {
	r.mu.Lock()
	r.revoked[token] = struct{}{}
	r.mu.Unlock()
}

func (r *Registry) IsRevoked(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.revoked[token]
	return ok
}

// Len reports the number of revoked tokens, for observability.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.revoked)
}
