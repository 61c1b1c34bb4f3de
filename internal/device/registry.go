package device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides device catalogue access with caching and thread safety.
// It wraps a Repository and adds an in-memory cache for fast lookups.
//
// The cache is populated on startup via RefreshCache() and kept in sync
// by cache-invalidating CRUD operations and power-state updates.
//
// All public methods are thread-safe.
type Registry struct {
	repo    Repository
	cache   map[string]*Device // Cached devices by ID
	cacheMu sync.RWMutex       // Protects cache
	logger  Logger
}

// NewRegistry creates a new device registry.
// The repository is used for persistence; the registry adds caching.
func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:   repo,
		cache:  make(map[string]*Device),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// RefreshCache reloads all devices from the repository into the cache.
// This should be called on application startup.
func (r *Registry) RefreshCache(ctx context.Context) error {
	devices, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading devices: %w", err)
	}

	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	r.cache = make(map[string]*Device, len(devices))
	for i := range devices {
		d := devices[i]
		r.cache[d.ID] = d.Copy()
	}

	r.logger.Info("device cache refreshed", "count", len(devices))
	return nil
}

// GetDevice retrieves a device by ID.
// Returns ErrDeviceNotFound if the device does not exist.
// The returned device is a copy; callers can safely modify it.
func (r *Registry) GetDevice(ctx context.Context, id string) (*Device, error) {
	r.cacheMu.RLock()
	cached, ok := r.cache[id]
	r.cacheMu.RUnlock()

	if ok {
		return cached.Copy(), nil
	}

	// Fall back to repository (might be a new device not yet cached)
	d, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[id] = d.Copy()
	r.cacheMu.Unlock()

	return d, nil
}

// ListDevices retrieves all devices from the cache, falling back to the
// repository when the cache is empty.
func (r *Registry) ListDevices(ctx context.Context) ([]Device, error) {
	r.cacheMu.RLock()
	if len(r.cache) > 0 {
		devices := make([]Device, 0, len(r.cache))
		for _, d := range r.cache {
			devices = append(devices, *d.Copy())
		}
		r.cacheMu.RUnlock()
		return devices, nil
	}
	r.cacheMu.RUnlock()

	return r.repo.List(ctx)
}

// CreateDevice validates and persists a new device, then caches it.
func (r *Registry) CreateDevice(ctx context.Context, d *Device) error {
	if err := r.repo.Create(ctx, d); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[d.ID] = d.Copy()
	r.cacheMu.Unlock()

	r.logger.Info("device created", "device_id", d.ID, "name", d.Name)
	return nil
}

// UpdateDevice validates and persists device changes, then re-caches.
func (r *Registry) UpdateDevice(ctx context.Context, d *Device) error {
	if err := r.repo.Update(ctx, d); err != nil {
		return err
	}

	r.cacheMu.Lock()
	r.cache[d.ID] = d.Copy()
	r.cacheMu.Unlock()

	return nil
}

// DeleteDevice removes a device from the repository and the cache.
func (r *Registry) DeleteDevice(ctx context.Context, id string) error {
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}

	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()

	r.logger.Info("device deleted", "device_id", id)
	return nil
}

// SetPowerState records a newly observed power state in the repository
// and the cache.
//
// Returns ErrDeviceNotFound for devices not in the catalogue.
func (r *Registry) SetPowerState(ctx context.Context, id string, state PowerState) error {
	observedAt := time.Now().UTC()
	if err := r.repo.SetPowerState(ctx, id, state, observedAt); err != nil {
		return err
	}

	r.cacheMu.Lock()
	if cached, ok := r.cache[id]; ok {
		cached.PowerState = state
		cached.StateUpdatedAt = &observedAt
	}
	r.cacheMu.Unlock()

	r.logger.Debug("device power state updated", "device_id", id, "state", state)
	return nil
}

// Lookup answers a point-in-time status query for one device ID.
//
// A missing device is not an error: the returned Status has Exists=false,
// which callers treat per their own policy (group setup skips it with a
// warning). Repository failures are returned as errors.
func (r *Registry) Lookup(ctx context.Context, id string) (Status, error) {
	d, err := r.GetDevice(ctx, id)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return Status{ID: id}, nil
		}
		return Status{ID: id}, fmt.Errorf("looking up device %s: %w", id, err)
	}

	return Status{
		ID:         d.ID,
		Exists:     true,
		IsLight:    d.Kind == KindLight,
		PowerState: d.PowerState,
	}, nil
}

// GetDeviceCount returns the number of cached devices.
func (r *Registry) GetDeviceCount() int {
	r.cacheMu.RLock()
	defer r.cacheMu.RUnlock()
	return len(r.cache)
}
