// Package grouplight implements the virtual group light: a single
// controllable entity fronting an ordered collection of member light
// devices.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│                          Group Entity                             │
//	│                          (entity.go)                              │
//	│                                                                   │
//	│  ┌───────────────┐  ┌────────────────┐  ┌─────────────────────┐  │
//	│  │    Palette    │  │    Members     │  │    Availability     │  │
//	│  │ (palette.go)  │  │  (members.go)  │  │  (availability.go)  │  │
//	│  │               │  │                │  │                     │  │
//	│  │ • colour list │  │ • setup-time   │  │ • last-write-wins   │  │
//	│  │   validation  │  │   resolution   │  │   (default)         │  │
//	│  │ • fail-fast   │  │ • warn + skip  │  │ • any-on (opt-in)   │  │
//	│  └───────────────┘  └────────────────┘  └─────────────────────┘  │
//	│                    ┌────────────────┐                             │
//	│                    │     Fanout     │                             │
//	│                    │  (fanout.go)   │                             │
//	│                    │ • sequential   │                             │
//	│                    │ • fail-stop    │                             │
//	│                    └────────────────┘                             │
//	└──────────────────────────────────────────────────────────────────┘
//
// Commands flow Group → fanout → CommandSender, one member at a time in
// configured order, each blocking until acknowledged. The first failure
// aborts the rest of the invocation. Status flows the other way:
// observed member power states fold into one availability flag.
//
// The default availability rule mirrors whichever member reported most
// recently (order-sensitive, not an OR across members). Deployments
// that want "available while any member is on" opt into the any_on
// policy per group in configuration.
//
// Groups live in an explicit Registry passed to consumers; there is no
// process-global store.
//
// The group entity itself has no colour state. Colour and colour
// temperature accessors always report unset; the palette is validated
// configuration, not runtime state.
package grouplight
