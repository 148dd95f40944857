package assistant

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/omriShneor/booking_assistant/internal/agent"
)

// Handler produces the reply for one intent. A returned error is treated as
// an unexpected internal failure and answered with the generic apology.
type Handler interface {
	Handle(ctx context.Context, t *Turn) (Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, t *Turn) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, t *Turn) (Response, error) {
	return f(ctx, t)
}

// Registry stores intent handlers by intent.
type Registry struct {
	mu       sync.RWMutex
	handlers map[agent.Intent]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[agent.Intent]Handler)}
}

func (r *Registry) Register(intent agent.Intent, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler is nil")
	}
	if intent == "" {
		return fmt.Errorf("intent is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[intent]; exists {
		return fmt.Errorf("intent handler already registered: %s", intent)
	}
	r.handlers[intent] = handler
	return nil
}

func (r *Registry) MustRegister(intent agent.Intent, handler Handler) {
	if err := r.Register(intent, handler); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(intent agent.Intent) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[intent]
	return handler, ok
}

func (r *Registry) List() []agent.Intent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intents := make([]agent.Intent, 0, len(r.handlers))
	for intent := range r.handlers {
		intents = append(intents, intent)
	}
	sort.Slice(intents, func(i, j int) bool { return intents[i] < intents[j] })
	return intents
}
