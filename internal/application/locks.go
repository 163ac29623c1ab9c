package application

import "sync"

// IdentityLocks serializes every state-changing operation of one chat identity.
// Entries are reference counted and dropped once nobody holds or waits on them.
type IdentityLocks struct {
	mu    sync.Mutex
	locks map[string]*identityLock
}

type identityLock struct {
	mu   sync.Mutex
	refs int
}

func NewIdentityLocks() *IdentityLocks {
	return &IdentityLocks{locks: make(map[string]*identityLock)}
}

// Lock blocks until identity is free and returns the matching unlock function.
func (l *IdentityLocks) Lock(identity string) (unlock func()) {
	l.mu.Lock()
	il, ok := l.locks[identity]
	if !ok {
		il = &identityLock{}
		l.locks[identity] = il
	}
	il.refs++
	l.mu.Unlock()

	il.mu.Lock()
	return func() {
		il.mu.Unlock()
		l.mu.Lock()
		il.refs--
		if il.refs == 0 {
			delete(l.locks, identity)
		}
		l.mu.Unlock()
	}
}

func (l *IdentityLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
