// Package device provides the device catalogue for Lumen Group Core.
//
// The catalogue is the authoritative record of every light and other
// device known to the service. Group membership resolution, availability
// tracking, and the REST API all read through it.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────────────┐
//	│                         Device Catalogue                            │
//	│                                                                     │
//	│  ┌──────────────────┐   ┌──────────────────┐   ┌────────────────┐  │
//	│  │     Registry     │   │    Repository    │   │   Validation   │  │
//	│  │   (registry.go)  │──▶│  (repository.go) │   │ (validation.go)│  │
//	│  │                  │   │                  │   │                │  │
//	│  │ • CRUD ops       │   │ • SQLite queries │   │ • Field checks │  │
//	│  │ • In-memory cache│   │ • Transactions   │   │ • Slug gen     │  │
//	│  │ • Status lookups │   │                  │   │                │  │
//	│  └──────────────────┘   └──────────────────┘   └────────────────┘  │
//	└────────────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//   - Device: one catalogued device with its last observed power state
//   - Kind: device classification (light, switch, sensor, other)
//   - PowerState: last observed on/off state, or unknown
//   - Status: point-in-time answer to a Lookup query
//
// # Usage
//
//	repo := device.NewSQLiteRepository(db)
//	registry := device.NewRegistry(repo)
//	registry.SetLogger(logger)
//
//	if err := registry.RefreshCache(ctx); err != nil {
//		return err
//	}
//
//	status, err := registry.Lookup(ctx, "a1b2c3")
//	if err != nil {
//		return err
//	}
//	if !status.Exists {
//		// device is not in the catalogue
//	}
//
// # Thread Safety
//
// Registry methods are safe for concurrent use. Cached devices are copied
// on the way out, so callers never share mutable state with the cache.
package device
