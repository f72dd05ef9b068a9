package render

import (
	"slices"
	"sync"
)

type namedHandler struct {
	name string
	fn   func()
}

// handlerList is an ordered list of callbacks. Several handlers may share a
// name; removing by name drops all of them.
type handlerList struct {
	mu       sync.Mutex
	handlers []namedHandler
}

func (l *handlerList) add(name string, fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.handlers = append(l.handlers, namedHandler{name: name, fn: fn})
	l.mu.Unlock()
}

func (l *handlerList) remove(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.handlers)
	l.handlers = slices.DeleteFunc(l.handlers, func(h namedHandler) bool { return h.name == name })
	return n - len(l.handlers)
}

func (l *handlerList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handlers)
}

// invoke calls every handler in registration order, outside the lock so a
// handler may add or remove handlers.
func (l *handlerList) invoke() {
	l.mu.Lock()
	hs := slices.Clone(l.handlers)
	l.mu.Unlock()
	for _, h := range hs {
		h.fn()
	}
}
