package realtime

import "sync"

// ConnectionRegistry maps user ids to their live connection ids. A user may
// hold several connections at once (multiple tabs or devices). The registry
// is the process-wide source of truth for "is this user online" and "which
// connections to notify"; it never talks to the store.
//
// Constructed once at process start and injected wherever needed.
type ConnectionRegistry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]struct{}
	byConn map[string]string
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		byUser: make(map[string]map[string]struct{}),
		byConn: make(map[string]string),
	}
}

// Register records the connection and reports whether it was the user's
// first, i.e. the user just became online. Two concurrent registers for the
// same user can never both observe becameOnline.
func (r *ConnectionRegistry) Register(userID, connID string) (becameOnline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.byUser[userID]
	if !ok {
		conns = make(map[string]struct{})
		r.byUser[userID] = conns
	}
	becameOnline = len(conns) == 0
	conns[connID] = struct{}{}
	r.byConn[connID] = userID
	return becameOnline
}

// Unregister removes exactly the given connection. It reports the owning
// user and whether that was the user's last connection. Unknown connection
// ids are ignored, which makes duplicate unregisters harmless.
func (r *ConnectionRegistry) Unregister(connID string) (userID string, becameOffline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connID)

	conns := r.byUser[userID]
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.byUser, userID)
		return userID, true
	}
	return userID, false
}

func (r *ConnectionRegistry) ConnectionsFor(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.byUser[userID]
	if len(conns) == 0 {
		return nil
	}
	ids := make([]string, 0, len(conns))
	for id := range conns {
		ids = append(ids, id)
	}
	return ids
}

func (r *ConnectionRegistry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// AllConnections returns every registered connection id.
func (r *ConnectionRegistry) AllConnections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byConn))
	for id := range r.byConn {
		ids = append(ids, id)
	}
	return ids
}
