package services

import "sync"

// tournamentLocks hands out one mutex per tournament id. Entries are dropped
// when nobody holds or waits for them.
type tournamentLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newTournamentLocks() *tournamentLocks {
	return &tournamentLocks{locks: make(map[string]*lockEntry)}
}

// lock blocks until the caller owns the tournament and returns the release
// func.
func (l *tournamentLocks) lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *tournamentLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
