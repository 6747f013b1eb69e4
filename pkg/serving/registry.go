package serving

import (
	"context"
	"fmt"
	"sync"
)

const (
	// DefaultKey names the input field a bare string request is wrapped under.
	DefaultKey = "text"
	// ResultKey names the output field used when a chain has no single output key.
	ResultKey = "result"
)

// Protocol selects how a registered function is exposed.
type Protocol string

const (
	ProtocolHTTP      Protocol = "http"
	ProtocolWebSocket Protocol = "websocket"
)

// HandlerFunc is a serving function: named inputs in, a JSON-encodable result out.
type HandlerFunc func(ctx context.Context, inputs map[string]any) (any, error)

// StreamHandlerFunc is a serving function that emits its result incrementally.
// emit is called once per token; returning an error from emit aborts the stream.
type StreamHandlerFunc func(ctx context.Context, inputs map[string]any, emit func(token string) error) error

// Entry is one registered serving function.
type Entry struct {
	Name      string
	Doc       string
	Handler   HandlerFunc
	Stream    StreamHandlerFunc // optional; used by websocket routes when set
	Protocols []Protocol        // defaults to HTTP only
}

func (e *Entry) serves(p Protocol) bool {
	for _, proto := range e.Protocols {
		if proto == p {
			return true
		}
	}
	return false
}

// Registry holds serving functions by name, preserving registration order.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds a serving function. Duplicate names and nil handlers are rejected.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("serving: function name is empty")
	}
	if e.Handler == nil {
		return fmt.Errorf("serving: function %q has no handler", e.Name)
	}
	if len(e.Protocols) == 0 {
		e.Protocols = []Protocol{ProtocolHTTP}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Name]; ok {
		return fmt.Errorf("serving: function %q already registered", e.Name)
	}
	r.entries[e.Name] = &e
	r.order = append(r.order, e.Name)
	return nil
}

// RegisterHTTP adds an HTTP-only serving function.
func (r *Registry) RegisterHTTP(name, doc string, fn HandlerFunc) error {
	return r.Register(Entry{Name: name, Doc: doc, Handler: fn, Protocols: []Protocol{ProtocolHTTP}})
}

// RegisterWS adds a websocket-only serving function.
func (r *Registry) RegisterWS(name, doc string, fn HandlerFunc) error {
	return r.Register(Entry{Name: name, Doc: doc, Handler: fn, Protocols: []Protocol{ProtocolWebSocket}})
}

// Lookup returns the entry for name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Names returns registered function names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ByProtocol returns entries serving the given protocol, in registration order.
func (r *Registry) ByProtocol(p Protocol) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Entry
	for _, name := range r.order {
		if e := r.entries[name]; e.serves(p) {
			out = append(out, e)
		}
	}
	return out
}
