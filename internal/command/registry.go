package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/util"
)

// ErrUnknownCommand is returned when a command dispatch is attempted for an
// unregistered key.
var ErrUnknownCommand = errors.New("unknown command")

type alias struct {
	target      string
	description string
}

// Registry stores command handlers keyed by their canonical names.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]Command
	aliasKeys map[string]alias
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers:  make(map[string]Command),
		aliasKeys: make(map[string]alias),
	}
}

// Register adds a command handler to the registry. The handler name is stored
// in lowercase form to provide case-insensitive lookups.
func (r *Registry) Register(handler Command) {
	if handler == nil {
		return
	}

	name := util.CommandKey(handler.Name())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = handler
}

// RegisterAlias exposes an existing handler under another command name.
func (r *Registry) RegisterAlias(name, target, description string) error {
	name = util.CommandKey(name)
	target = util.CommandKey(target)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.handlers[target]; !ok {
		return fmt.Errorf("%w: alias target %s", ErrUnknownCommand, target)
	}
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("alias %s collides with a registered command", name)
	}
	r.aliasKeys[name] = alias{target: target, description: description}
	return nil
}

// Execute runs the handler registered for the provided key. Keys are compared in
// lowercase to maintain parity with Register behaviour.
func (r *Registry) Execute(ctx context.Context, cmdCtx *domain.CommandContext, key string) error {
	if r == nil {
		return fmt.Errorf("command registry is nil")
	}

	handler := r.getHandler(key)
	if handler == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, key)
	}

	return handler.Execute(ctx, cmdCtx)
}

// Definitions lists every command and alias to register on the platform,
// sorted by name.
func (r *Registry) Definitions() []domain.CommandDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]domain.CommandDefinition, 0, len(r.handlers)+len(r.aliasKeys))
	for name, handler := range r.handlers {
		defs = append(defs, domain.CommandDefinition{Name: name, Description: handler.Description()})
	}
	for name, a := range r.aliasKeys {
		defs = append(defs, domain.CommandDefinition{Name: name, Description: a.description})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Count returns the number of registered command handlers.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

func (r *Registry) getHandler(key string) Command {
	key = util.CommandKey(key)
	if key == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if handler, ok := r.handlers[key]; ok {
		return handler
	}
	if a, ok := r.aliasKeys[key]; ok {
		return r.handlers[a.target]
	}
	return nil
}
