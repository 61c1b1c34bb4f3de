package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines persistence operations for the device catalogue.
type Repository interface {
	// GetByID retrieves a device by ID.
	GetByID(ctx context.Context, id string) (*Device, error)
	// List retrieves all devices ordered by name.
	List(ctx context.Context) ([]Device, error)
	// ListByKind retrieves all devices of one kind.
	ListByKind(ctx context.Context, kind Kind) ([]Device, error)
	// Create inserts a new device.
	Create(ctx context.Context, d *Device) error
	// Update modifies an existing device.
	Update(ctx context.Context, d *Device) error
	// Delete removes a device by ID.
	Delete(ctx context.Context, id string) error
	// SetPowerState records the latest observed power state for a device.
	SetPowerState(ctx context.Context, id string, state PowerState, observedAt time.Time) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed device repository.
//
// Parameters:
//   - db: Open SQLite connection used for device queries
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
//
// Security: Uses parameterised SQL queries to prevent injection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const deviceColumns = `id, name, slug, kind, power_state, state_updated_at, created_at, updated_at`

// GetByID retrieves a device by ID.
//
// Returns ErrDeviceNotFound if the device does not exist.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE id = ?`

	d, err := scanDeviceRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device: %w", err)
	}
	return d, nil
}

// List retrieves all devices ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices ORDER BY name`
	return r.queryDevices(ctx, query)
}

// ListByKind retrieves all devices of one kind, ordered by name.
func (r *SQLiteRepository) ListByKind(ctx context.Context, kind Kind) ([]Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE kind = ? ORDER BY name`
	return r.queryDevices(ctx, query, string(kind))
}

// Create inserts a new device. Missing ID and slug are generated.
//
// Returns ErrDeviceExists if the ID or slug is already in use.
func (r *SQLiteRepository) Create(ctx context.Context, d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}
	if err := ValidateDevice(d); err != nil {
		return err
	}

	if d.ID == "" {
		d.ID = GenerateID()
	}
	if d.Slug == "" {
		d.Slug = GenerateSlug(d.Name)
	}
	if d.PowerState == "" {
		d.PowerState = PowerUnknown
	}

	query := `INSERT INTO devices (id, name, slug, kind, power_state) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, d.ID, d.Name, d.Slug, string(d.Kind), string(d.PowerState))
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	return nil
}

// Update modifies an existing device's name, slug, and kind.
//
// Returns ErrDeviceNotFound if the device does not exist.
func (r *SQLiteRepository) Update(ctx context.Context, d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}
	if err := ValidateDevice(d); err != nil {
		return err
	}

	query := `UPDATE devices SET name = ?, slug = ?, kind = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, d.Name, d.Slug, string(d.Kind), d.ID)
	if err != nil {
		return fmt.Errorf("updating device: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// Delete removes a device by ID.
//
// Returns ErrDeviceNotFound if the device does not exist.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM devices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// SetPowerState records the latest observed power state for a device.
//
// Returns ErrDeviceNotFound if the device does not exist.
func (r *SQLiteRepository) SetPowerState(ctx context.Context, id string, state PowerState, observedAt time.Time) error {
	if err := ValidatePowerState(state); err != nil {
		return err
	}

	query := `UPDATE devices SET power_state = ?, state_updated_at = ?,
		updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		string(state), observedAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("updating power state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}

// queryDevices runs a multi-row device query and scans the results.
func (r *SQLiteRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only result set

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}

	return devices, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning code.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDeviceRow scans a single-row query result.
func scanDeviceRow(row *sql.Row) (*Device, error) {
	return scanDevice(row)
}

// scanDevice scans one device row into a Device.
func scanDevice(row rowScanner) (*Device, error) {
	var d Device
	var kind, powerState string
	var stateUpdatedAt sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&d.ID, &d.Name, &d.Slug, &kind, &powerState,
		&stateUpdatedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	d.Kind = Kind(kind)
	d.PowerState = PowerState(powerState)
	if stateUpdatedAt.Valid {
		if ts, err := time.Parse(time.RFC3339, stateUpdatedAt.String); err == nil {
			d.StateUpdatedAt = &ts
		}
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &d, nil
}

// isUniqueConstraintError detects SQLite unique constraint violations.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
