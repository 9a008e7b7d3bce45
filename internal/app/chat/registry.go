/*
Package chat contains the core logic of the chat server.

This file defines the Names registry, the process-wide set of display handles
currently in use. Every active session owns exactly one entry; rename moves
ownership from the old handle to the new one.
*/
package chat

import (
	"sync"

	"parley/internal/pkg/randx"
)

// Names is the process-wide set of handles currently in use. All operations
// are safe for concurrent use.
type Names struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewNames returns an empty handle registry.
func NewNames() *Names {
	return &Names{
		names: make(map[string]struct{}, 32),
	}
}

// TryInsert inserts name if it is not already taken and reports whether the
// insertion happened.
func (n *Names) TryInsert(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, taken := n.names[name]; taken {
		return false
	}
	n.names[name] = struct{}{}
	return true
}

// Remove releases name. Removing a handle that is not present is a no-op.
func (n *Names) Remove(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.names[name]; !ok {
		return false
	}
	delete(n.names, name)
	return true
}

// ReserveUnique draws candidates from the generator until one inserts
// cleanly and returns it.
func (n *Names) ReserveUnique(gen *randx.NameGenerator) string {
	name := gen.Next()
	for !n.TryInsert(name) {
		name = gen.Next()
	}
	return name
}

// Len returns the number of handles currently reserved.
func (n *Names) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.names)
}
