package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the devices schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Create devices table matching the schema
	schema := `
		CREATE TABLE devices (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL DEFAULT 'light',
			power_state TEXT NOT NULL DEFAULT 'unknown',
			state_updated_at TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE INDEX idx_devices_kind ON devices(kind);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// testDevice creates a device for testing.
func testDevice(id, name string) *Device {
	return &Device{
		ID:         id,
		Name:       name,
		Slug:       GenerateSlug(name),
		Kind:       KindLight,
		PowerState: PowerUnknown,
	}
}

func TestSQLiteRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	d := testDevice("dev-1", "Hall Light")
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Name != "Hall Light" {
		t.Errorf("Name = %q, want %q", got.Name, "Hall Light")
	}
	if got.Slug != "hall-light" {
		t.Errorf("Slug = %q, want %q", got.Slug, "hall-light")
	}
	if got.Kind != KindLight {
		t.Errorf("Kind = %q, want %q", got.Kind, KindLight)
	}
	if got.PowerState != PowerUnknown {
		t.Errorf("PowerState = %q, want %q", got.PowerState, PowerUnknown)
	}
}

func TestSQLiteRepository_CreateGeneratesIDAndSlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	d := &Device{Name: "Porch Light", Kind: KindLight}
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if d.ID == "" {
		t.Error("expected generated ID, got empty string")
	}
	if d.Slug != "porch-light" {
		t.Errorf("Slug = %q, want %q", d.Slug, "porch-light")
	}
}

func TestSQLiteRepository_CreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice("dev-1", "Hall Light")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.Create(ctx, testDevice("dev-1", "Other Light"))
	if !errors.Is(err, ErrDeviceExists) {
		t.Errorf("Create() duplicate error = %v, want ErrDeviceExists", err)
	}
}

func TestSQLiteRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, d := range []*Device{
		testDevice("dev-b", "Bedroom Light"),
		testDevice("dev-a", "Attic Light"),
	} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s) error = %v", d.ID, err)
		}
	}

	devices, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(devices) != 2 {
		t.Fatalf("List() returned %d devices, want 2", len(devices))
	}
	// Ordered by name
	if devices[0].Name != "Attic Light" {
		t.Errorf("first device = %q, want %q", devices[0].Name, "Attic Light")
	}
}

func TestSQLiteRepository_ListByKind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	light := testDevice("dev-1", "Hall Light")
	sensor := testDevice("dev-2", "Hall Sensor")
	sensor.Kind = KindSensor

	for _, d := range []*Device{light, sensor} {
		if err := repo.Create(ctx, d); err != nil {
			t.Fatalf("Create(%s) error = %v", d.ID, err)
		}
	}

	lights, err := repo.ListByKind(ctx, KindLight)
	if err != nil {
		t.Fatalf("ListByKind() error = %v", err)
	}
	if len(lights) != 1 || lights[0].ID != "dev-1" {
		t.Errorf("ListByKind(light) = %+v, want only dev-1", lights)
	}
}

func TestSQLiteRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	d := testDevice("dev-1", "Hall Light")
	if err := repo.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	d.Name = "Hallway Light"
	d.Slug = "hallway-light"
	if err := repo.Update(ctx, d); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Hallway Light" {
		t.Errorf("Name = %q, want %q", got.Name, "Hallway Light")
	}
}

func TestSQLiteRepository_Update_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	err := repo.Update(context.Background(), testDevice("missing", "Ghost Light"))
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Update() error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice("dev-1", "Hall Light")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "dev-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, "dev-1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrDeviceNotFound", err)
	}

	if err := repo.Delete(ctx, "dev-1"); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("Delete() again error = %v, want ErrDeviceNotFound", err)
	}
}

func TestSQLiteRepository_SetPowerState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice("dev-1", "Hall Light")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	observedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.SetPowerState(ctx, "dev-1", PowerOn, observedAt); err != nil {
		t.Fatalf("SetPowerState() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.PowerState != PowerOn {
		t.Errorf("PowerState = %q, want %q", got.PowerState, PowerOn)
	}
	if got.StateUpdatedAt == nil || !got.StateUpdatedAt.Equal(observedAt) {
		t.Errorf("StateUpdatedAt = %v, want %v", got.StateUpdatedAt, observedAt)
	}
}

func TestSQLiteRepository_SetPowerState_Invalid(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	err := repo.SetPowerState(context.Background(), "dev-1", PowerState("dim"), time.Now())
	if !errors.Is(err, ErrInvalidPowerState) {
		t.Errorf("SetPowerState() error = %v, want ErrInvalidPowerState", err)
	}
}

func TestSQLiteRepository_SetPowerState_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	err := repo.SetPowerState(context.Background(), "missing", PowerOff, time.Now())
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("SetPowerState() error = %v, want ErrDeviceNotFound", err)
	}
}
