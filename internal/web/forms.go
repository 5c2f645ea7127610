package web

import (
	"sync"
	"time"

	"clients_admin/internal/admin"

	"github.com/google/uuid"
)

type formEntry struct {
	ctrl    *admin.FormController
	expires time.Time
}

// formRegistry keeps one FormController per rendered form window, keyed by the
// form token embedded in the page. Entries expire after ttl without use.
type formRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*formEntry
	now     func() time.Time
}

func newFormRegistry(ttl time.Duration) *formRegistry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &formRegistry{ttl: ttl, entries: make(map[string]*formEntry), now: time.Now}
}

func (r *formRegistry) put(ctrl *admin.FormController) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeLocked()
	token := uuid.NewString()
	r.entries[token] = &formEntry{ctrl: ctrl, expires: r.now().Add(r.ttl)}
	return token
}

func (r *formRegistry) get(token string) (*admin.FormController, bool) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[token]
	if !ok {
		return nil, false
	}
	if r.now().After(entry.expires) {
		delete(r.entries, token)
		return nil, false
	}
	entry.expires = r.now().Add(r.ttl)
	return entry.ctrl, true
}

func (r *formRegistry) remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, token)
}

func (r *formRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *formRegistry) purgeLocked() {
	now := r.now()
	for token, entry := range r.entries {
		if now.After(entry.expires) {
			delete(r.entries, token)
		}
	}
}
