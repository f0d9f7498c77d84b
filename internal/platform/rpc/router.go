package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// NoHandlerMessage is reported to callers that send an unregistered pattern.
const NoHandlerMessage = "There is no matching message handler defined in the remote service."

// ErrNoHandler is returned by Dispatch for unregistered patterns.
var ErrNoHandler = errors.New(NoHandlerMessage)

// Request is an inbound named request.
type Request struct {
	ID      string
	Pattern string
	Data    json.RawMessage
	Token   string
}

// Bind decodes the request payload into v.
func (r *Request) Bind(v interface{}) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("empty payload")
	}
	return json.Unmarshal(r.Data, v)
}

// HandlerFunc serves one named request. The returned value is marshalled as
// the reply's response field.
type HandlerFunc func(ctx context.Context, req *Request) (interface{}, error)

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// Router maps pattern names to handlers. Handlers and middleware are
// registered at startup and only read afterwards.
type Router struct {
	mu         sync.RWMutex
	handlers   map[string]HandlerFunc
	middleware []Middleware
}

func NewRouter() *Router {
	return &Router{handlers: make(map[string]HandlerFunc)}
}

// Use appends middleware. The first registered middleware is the outermost.
func (r *Router) Use(mw ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, mw...)
}

// Handle registers h for pattern, replacing any earlier registration.
func (r *Router) Handle(pattern string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[pattern] = h
}

// Patterns lists registered pattern names in sorted order.
func (r *Router) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for p := range r.handlers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Dispatch runs the handler registered for req.Pattern through the middleware chain.
func (r *Router) Dispatch(ctx context.Context, req *Request) (interface{}, error) {
	r.mu.RLock()
	h, ok := r.handlers[req.Pattern]
	mws := r.middleware
	r.mu.RUnlock()

	if !ok {
		h = func(context.Context, *Request) (interface{}, error) {
			return nil, ErrNoHandler
		}
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h(ctx, req)
}
