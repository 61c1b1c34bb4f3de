package grouplight

import (
	"context"
	"fmt"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
)

// resolveMembers checks each configured member identifier against the
// status lookup once, at setup time.
//
// Policy: an identifier that does not resolve, or resolves to something
// that is not a light, is logged at warning level and skipped. A repeated
// identifier is skipped the same way: membership is a set, and a duplicate
// would make the fanout address the same device twice. Setup continues
// with the remaining members; partial membership is tolerated and never
// surfaced to command callers. Lookup infrastructure failures (as opposed
// to a clean not-found) abort setup.
//
// The returned statuses are in configured order and feed the
// availability tracker immediately.
func resolveMembers(ctx context.Context, lookup StatusLookup, memberIDs []string, logger Logger) ([]device.Status, error) {
	accepted := make([]device.Status, 0, len(memberIDs))
	seen := make(map[string]bool, len(memberIDs))

	for _, id := range memberIDs {
		if seen[id] {
			logger.Warn("duplicate group member, skipping", "device_id", id)
			continue
		}
		seen[id] = true

		status, err := lookup.Lookup(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolving member %s: %w", id, err)
		}

		if !status.Exists {
			logger.Warn("group member not found, skipping", "device_id", id)
			continue
		}
		if !status.IsLight {
			logger.Warn("group member is not a light, skipping", "device_id", id)
			continue
		}

		accepted = append(accepted, status)
	}

	return accepted, nil
}
