package service

import "sync"

// tenantLocker hands out one mutex per tenant. Entries are dropped once no
// goroutine holds or waits for them.
type tenantLocker struct {
	mu    sync.Mutex
	locks map[string]*tenantLock
}

type tenantLock struct {
	mu   sync.Mutex
	refs int
}

func newTenantLocker() *tenantLocker {
	return &tenantLocker{locks: make(map[string]*tenantLock)}
}

// Lock blocks until the tenant's lock is held and returns its release func.
func (l *tenantLocker) Lock(tenantID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[tenantID]
	if !ok {
		lock = &tenantLock{}
		l.locks[tenantID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, tenantID)
		}
		l.mu.Unlock()
	}
}
