// Package guard tracks resources acquired during a task execution and
// guarantees best-effort release even under partial failure.
package guard

import (
	"fmt"
	"io"
	"sync"

	"buildforge/pkg/logger"
)

// Releaser is the single release capability every tracked resource is
// normalized to at registration time.
type Releaser interface {
	Release() error
}

// ReleaseFunc adapts a plain function to the Releaser interface.
type ReleaseFunc func() error

// Release implements Releaser.
func (f ReleaseFunc) Release() error { return f() }

// element pairs a release capability with a name used in log messages.
type element struct {
	name    string
	release func() error
}

// Guard registers resources and releases them in registration order.
//
// ReleaseAll remembers the first release failure, logs subsequent failures,
// clears the registry and returns the first failure. A Guard whose registry
// has been cleared is safe to release again (no-op).
type Guard struct {
	mu       sync.Mutex
	elements []element
	log      *logger.Logger
}

// New creates a Guard. A nil logger is replaced with a no-op logger.
func New(log *logger.Logger) *Guard {
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{log: log}
}

// Add registers a resource for later release. A nil resource is a no-op.
func (g *Guard) Add(r Releaser) {
	if r == nil {
		g.add(element{name: "<nil>", release: func() error { return nil }})
		return
	}
	g.add(element{name: fmt.Sprintf("%T", r), release: r.Release})
}

// AddCloser registers a resource exposing close semantics. The closer is
// normalized to the release capability here, not probed at release time.
func (g *Guard) AddCloser(c io.Closer) {
	if c == nil {
		g.add(element{name: "<nil>", release: func() error { return nil }})
		return
	}
	g.add(element{name: fmt.Sprintf("%T", c), release: c.Close})
}

// AddFunc registers a named release function.
func (g *Guard) AddFunc(name string, fn func() error) {
	if fn == nil {
		g.add(element{name: name, release: func() error { return nil }})
		return
	}
	g.add(element{name: name, release: fn})
}

func (g *Guard) add(e element) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.elements = append(g.elements, e)
}

// Len returns the number of registered resources.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.elements)
}

// ReleaseAll releases every registered resource in registration order.
//
// If a release fails, the first failure is remembered, the remaining
// resources are still released and their failures logged. The registry is
// cleared unconditionally, so a second call is a no-op returning nil.
func (g *Guard) ReleaseAll() error {
	g.mu.Lock()
	elements := g.elements
	g.elements = nil
	g.mu.Unlock()

	var failure error
	for _, e := range elements {
		if err := e.release(); err != nil {
			if failure == nil {
				failure = err
			} else {
				g.log.Debug("could not release %s: %v", e.name, err)
			}
		}
	}
	return failure
}
