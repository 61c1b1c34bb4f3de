package grouplight

import (
	"context"
	"fmt"
	"sync"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/config"
)

// Registry is the explicit keyed store of groups. It is created at
// setup, passed by reference to whoever needs group lookups, and torn
// down with the service. There is no ambient global state.
//
// Thread Safety: all methods are safe for concurrent use.
type Registry struct {
	groups map[string]*Group
	order  []string // insertion order for stable listings
	mu     sync.RWMutex
}

// NewRegistry creates an empty group registry.
func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*Group)}
}

// Add registers a group under its key.
// Returns ErrGroupExists for a duplicate key.
func (r *Registry) Add(g *Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[g.Key()]; ok {
		return fmt.Errorf("%w: %s", ErrGroupExists, g.Key())
	}
	r.groups[g.Key()] = g
	r.order = append(r.order, g.Key())
	return nil
}

// Get retrieves a group by key.
// Returns ErrGroupNotFound for an unknown key.
func (r *Registry) Get(key string) (*Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, key)
	}
	return g, nil
}

// Remove deletes a group by key.
// Returns ErrGroupNotFound for an unknown key.
func (r *Registry) Remove(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[key]; !ok {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, key)
	}
	delete(r.groups, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns all groups in registration order.
func (r *Registry) List() []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]*Group, 0, len(r.order))
	for _, key := range r.order {
		groups = append(groups, r.groups[key])
	}
	return groups
}

// Count returns the number of registered groups.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}

// Observe fans one device power state observation out to every group
// that counts the device as a member. Wire this to the state listener.
func (r *Registry) Observe(deviceID string, on bool) {
	r.mu.RLock()
	groups := make([]*Group, 0, len(r.order))
	for _, key := range r.order {
		groups = append(groups, r.groups[key])
	}
	r.mu.RUnlock()

	for _, g := range groups {
		if g.HasMember(deviceID) {
			g.ObserveStatus(deviceID, on)
		}
	}
}

// Setup builds all configured groups and returns a populated registry.
//
// Each group is validated and resolved independently; the first invalid
// group aborts the whole setup, since configuration errors must prevent
// the service from starting with a partial group set.
func Setup(ctx context.Context, cfgs []config.GroupConfig, lookup StatusLookup, sender CommandSender, logger Logger) (*Registry, error) {
	registry := NewRegistry()

	for _, gc := range cfgs {
		key := device.GenerateSlug(gc.Name)

		g, err := NewGroup(ctx, key, GroupConfig{
			Name:      gc.Name,
			MemberIDs: gc.Entities,
			ColorList: gc.ColorList,
			Policy:    AvailabilityPolicy(gc.AvailabilityPolicy),
		}, lookup, sender, logger)
		if err != nil {
			return nil, fmt.Errorf("setting up groups: %w", err)
		}

		if err := registry.Add(g); err != nil {
			return nil, fmt.Errorf("setting up groups: %w", err)
		}

		logger.Info("group registered",
			"group", key, "name", g.Name(), "members", len(g.MemberIDs()))
	}

	return registry, nil
}
