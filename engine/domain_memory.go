package engine

import (
	"sync"
	"time"
)

// pruneInterval is how often expired hosts are swept.
const pruneInterval = time.Hour

type domainEntry struct {
	engine    string
	expiresAt time.Time
}

// DomainMemory maps a host to the engine that last fetched it successfully.
// Entries live for ttl; a background sweep drops expired ones.
type DomainMemory struct {
	mu      sync.RWMutex
	entries map[string]domainEntry
	ttl     time.Duration

	done chan struct{}
	once sync.Once
}

// NewDomainMemory creates a DomainMemory and starts its sweep goroutine.
// Call Stop to end it.
func NewDomainMemory(ttl time.Duration) *DomainMemory {
	m := &DomainMemory{
		entries: make(map[string]domainEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Get returns the engine remembered for host, or "" when none is live.
func (m *DomainMemory) Get(host string) string {
	m.mu.RLock()
	e, ok := m.entries[host]
	m.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return ""
	}
	return e.engine
}

// Set remembers engine for host, restarting its ttl.
func (m *DomainMemory) Set(host, engine string) {
	m.mu.Lock()
	m.entries[host] = domainEntry{engine: engine, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()
}

// Delete forgets host.
func (m *DomainMemory) Delete(host string) {
	m.mu.Lock()
	delete(m.entries, host)
	m.mu.Unlock()
}

// Len reports the number of stored hosts, expired or not.
func (m *DomainMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Prune drops expired hosts and returns how many were removed.
func (m *DomainMemory) Prune() int {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for host, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, host)
			removed++
		}
	}
	return removed
}

// Stop ends the sweep goroutine. It is safe to call more than once.
func (m *DomainMemory) Stop() {
	m.once.Do(func() { close(m.done) })
}

func (m *DomainMemory) sweep() {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.Prune()
		}
	}
}
