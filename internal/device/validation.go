package device

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength = 100
	maxSlugLength = 50
	slugPattern   = `^[a-z0-9]+(?:-[a-z0-9]+)*$`
)

var slugRegex = regexp.MustCompile(slugPattern)

// Pre-computed validation sets for O(1) lookups.
var (
	validKinds       map[Kind]struct{}
	validPowerStates map[PowerState]struct{}
)

func init() {
	validKinds = make(map[Kind]struct{}, len(AllKinds()))
	for _, k := range AllKinds() {
		validKinds[k] = struct{}{}
	}

	validPowerStates = make(map[PowerState]struct{}, len(AllPowerStates()))
	for _, s := range AllPowerStates() {
		validPowerStates[s] = struct{}{}
	}
}

// ValidateDevice performs validation on a device.
// Returns an error describing the first validation failure found.
func ValidateDevice(d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}

	if err := ValidateName(d.Name); err != nil {
		return err
	}

	// Empty slug will be generated on create
	if d.Slug != "" {
		if err := ValidateSlug(d.Slug); err != nil {
			return err
		}
	}

	if err := ValidateKind(d.Kind); err != nil {
		return err
	}

	if d.PowerState != "" {
		if err := ValidatePowerState(d.PowerState); err != nil {
			return err
		}
	}

	return nil
}

// ValidateName checks that a device name is non-empty and within length limits.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	return nil
}

// ValidateSlug checks slug format (lowercase alphanumerics and hyphens).
func ValidateSlug(slug string) error {
	if len(slug) > maxSlugLength {
		return fmt.Errorf("%w: slug exceeds %d characters", ErrInvalidSlug, maxSlugLength)
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return nil
}

// ValidateKind checks that an entity kind is recognised.
func ValidateKind(kind Kind) error {
	if _, ok := validKinds[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return nil
}

// ValidatePowerState checks that a power state value is recognised.
func ValidatePowerState(state PowerState) error {
	if _, ok := validPowerStates[state]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPowerState, state)
	}
	return nil
}

// GenerateSlug derives a URL-safe slug from a display name.
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	slug = result.String()

	slug = strings.Trim(slug, "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	if len(slug) > maxSlugLength {
		slug = slug[:maxSlugLength]
		slug = strings.TrimRight(slug, "-")
	}

	return slug
}

// GenerateID creates a new unique device identifier.
func GenerateID() string {
	return uuid.New().String()
}
