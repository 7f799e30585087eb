package controller

import (
	"errors"
	"strconv"
	"sync"
)

var ErrOperationInFlight = errors.New("another request for this product is still in flight")

// InFlight admits at most one mutating request per key at a time.
// A single instance is shared by every controller in the process.
type InFlight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewInFlight creates an empty guard
func NewInFlight() *InFlight {
	return &InFlight{keys: make(map[string]struct{})}
}

// Acquire claims key. The returned release must be called once the request
// has finished; ok is false when key is already claimed.
func (g *InFlight) Acquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.keys[key]; busy {
		return nil, false
	}
	g.keys[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.keys, key)
			g.mu.Unlock()
		})
	}, true
}

// Busy reports whether key is currently claimed
func (g *InFlight) Busy(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.keys[key]
	return busy
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func createKey(controllerID string) string {
	return "create:" + controllerID
}
