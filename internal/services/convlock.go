package services

import (
	"sync"

	"github.com/google/uuid"
)

// conversationLocks serializes request handling per conversation id, closing
// the read-history-then-append race between concurrent requests against the
// same conversation. Entries are refcounted and removed when idle so the map
// does not grow with the number of conversations ever seen.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newConversationLocks() *conversationLocks {
	return &conversationLocks{locks: make(map[uuid.UUID]*lockEntry)}
}

func (c *conversationLocks) Lock(id uuid.UUID) {
	c.mu.Lock()
	e, ok := c.locks[id]
	if !ok {
		e = &lockEntry{}
		c.locks[id] = e
	}
	e.refs++
	c.mu.Unlock()

	e.mu.Lock()
}

func (c *conversationLocks) Unlock(id uuid.UUID) {
	c.mu.Lock()
	e := c.locks[id]
	e.refs--
	if e.refs == 0 {
		delete(c.locks, id)
	}
	c.mu.Unlock()

	e.mu.Unlock()
}
