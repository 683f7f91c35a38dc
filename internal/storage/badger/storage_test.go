package badger

import (
	"context"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/lucrum/internal/interfaces"
	"github.com/ternarybob/lucrum/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatalf("Failed to open badger store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store, logger: arbor.NewLogger()}
}

func TestKVStorageRoundTrip(t *testing.T) {
	db := newTestDB(t)
	storage := NewKVStorage(db, arbor.NewLogger())
	ctx := context.Background()

	if err := storage.Set(ctx, "gemini_api_key", "test-key", "Google Gemini API key"); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}

	value, err := storage.Get(ctx, "gemini_api_key")
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}
	if value != "test-key" {
		t.Errorf("Get = %q, want test-key", value)
	}

	// Keys are case-insensitive.
	value, err = storage.Get(ctx, "GEMINI_API_KEY")
	if err != nil {
		t.Fatalf("Failed to get uppercase key: %v", err)
	}
	if value != "test-key" {
		t.Errorf("Get uppercase = %q, want test-key", value)
	}
}

func TestKVStorageNotFound(t *testing.T) {
	db := newTestDB(t)
	storage := NewKVStorage(db, arbor.NewLogger())
	ctx := context.Background()

	if _, err := storage.Get(ctx, "missing"); err != interfaces.ErrKeyNotFound {
		t.Errorf("Get missing key error = %v, want ErrKeyNotFound", err)
	}
	if err := storage.Delete(ctx, "missing"); err != interfaces.ErrKeyNotFound {
		t.Errorf("Delete missing key error = %v, want ErrKeyNotFound", err)
	}
}

func TestKVStorageUpdatePreservesCreatedAt(t *testing.T) {
	db := newTestDB(t)
	storage := NewKVStorage(db, arbor.NewLogger())
	ctx := context.Background()

	if err := storage.Set(ctx, "anthropic_api_key", "first", ""); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}

	pairs, err := storage.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	createdAt := pairs[0].CreatedAt

	time.Sleep(10 * time.Millisecond)
	if err := storage.Set(ctx, "anthropic_api_key", "second", ""); err != nil {
		t.Fatalf("Failed to update key: %v", err)
	}

	pairs, err = storage.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list after update: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("List returned %d pairs, want 1", len(pairs))
	}
	if pairs[0].Value != "second" {
		t.Errorf("Value = %q, want second", pairs[0].Value)
	}
	if !pairs[0].CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt changed on update: %v -> %v", createdAt, pairs[0].CreatedAt)
	}
	if !pairs[0].UpdatedAt.After(createdAt) {
		t.Error("UpdatedAt should advance on update")
	}
}

func TestKVStorageDeleteAndGetAll(t *testing.T) {
	db := newTestDB(t)
	storage := NewKVStorage(db, arbor.NewLogger())
	ctx := context.Background()

	storage.Set(ctx, "key1", "value1", "")
	storage.Set(ctx, "key2", "value2", "")

	if err := storage.Delete(ctx, "KEY1"); err != nil {
		t.Fatalf("Failed to delete: %v", err)
	}

	all, err := storage.GetAll(ctx)
	if err != nil {
		t.Fatalf("Failed to get all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("GetAll returned %d pairs, want 1", len(all))
	}
	if all["key2"] != "value2" {
		t.Errorf("GetAll[key2] = %q, want value2", all["key2"])
	}
}

func TestSnapshotStorageRoundTrip(t *testing.T) {
	db := newTestDB(t)
	storage := NewSnapshotStorage(db, arbor.NewLogger())
	ctx := context.Background()

	snapshot := &models.StockSnapshot{
		Ticker:      "AAPL",
		CompanyName: "Apple Inc.",
		Price:       &models.StockPrice{CurrentPrice: 230.50, ChangePercent: 0.92},
		CollectedAt: time.Now(),
	}
	if err := storage.Save(ctx, snapshot); err != nil {
		t.Fatalf("Failed to save snapshot: %v", err)
	}

	got, err := storage.Get(ctx, "AAPL")
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for saved snapshot")
	}
	if got.CompanyName != "Apple Inc." {
		t.Errorf("CompanyName = %q", got.CompanyName)
	}
	if got.Price == nil || got.Price.CurrentPrice != 230.50 {
		t.Errorf("Price not persisted: %+v", got.Price)
	}

	// Missing ticker returns nil, not an error.
	got, err = storage.Get(ctx, "MSFT")
	if err != nil {
		t.Fatalf("Get missing snapshot: %v", err)
	}
	if got != nil {
		t.Error("Get missing snapshot should return nil")
	}
}

func TestSnapshotStorageSaveValidation(t *testing.T) {
	db := newTestDB(t)
	storage := NewSnapshotStorage(db, arbor.NewLogger())
	ctx := context.Background()

	if err := storage.Save(ctx, nil); err == nil {
		t.Error("expected error saving nil snapshot")
	}
	if err := storage.Save(ctx, &models.StockSnapshot{}); err == nil {
		t.Error("expected error saving snapshot without ticker")
	}
}

func TestSnapshotStorageGetFresh(t *testing.T) {
	db := newTestDB(t)
	storage := NewSnapshotStorage(db, arbor.NewLogger())
	ctx := context.Background()

	fresh := &models.StockSnapshot{Ticker: "AAPL", CollectedAt: time.Now().Add(-time.Hour)}
	stale := &models.StockSnapshot{Ticker: "MSFT", CollectedAt: time.Now().Add(-10 * time.Hour)}
	if err := storage.Save(ctx, fresh); err != nil {
		t.Fatal(err)
	}
	if err := storage.Save(ctx, stale); err != nil {
		t.Fatal(err)
	}

	window := 4 * time.Hour

	got, err := storage.GetFresh(ctx, "AAPL", window)
	if err != nil {
		t.Fatalf("GetFresh failed: %v", err)
	}
	if got == nil {
		t.Error("fresh snapshot should be returned")
	}

	got, err = storage.GetFresh(ctx, "MSFT", window)
	if err != nil {
		t.Fatalf("GetFresh failed: %v", err)
	}
	if got != nil {
		t.Error("stale snapshot should not be returned")
	}

	// Zero window disables caching entirely.
	got, err = storage.GetFresh(ctx, "AAPL", 0)
	if err != nil {
		t.Fatalf("GetFresh failed: %v", err)
	}
	if got != nil {
		t.Error("zero window should never return a snapshot")
	}
}

func TestSnapshotStorageList(t *testing.T) {
	db := newTestDB(t)
	storage := NewSnapshotStorage(db, arbor.NewLogger())
	ctx := context.Background()

	now := time.Now()
	storage.Save(ctx, &models.StockSnapshot{Ticker: "AAPL", CollectedAt: now.Add(-2 * time.Hour)})
	storage.Save(ctx, &models.StockSnapshot{Ticker: "MSFT", CollectedAt: now})
	storage.Save(ctx, &models.StockSnapshot{Ticker: "TSLA", CollectedAt: now.Add(-time.Hour)})

	snapshots, err := storage.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("List returned %d snapshots, want 3", len(snapshots))
	}

	wantOrder := []string{"MSFT", "TSLA", "AAPL"}
	for i, want := range wantOrder {
		if snapshots[i].Ticker != want {
			t.Errorf("snapshots[%d] = %s, want %s", i, snapshots[i].Ticker, want)
		}
	}
}

func TestSnapshotStorageDelete(t *testing.T) {
	db := newTestDB(t)
	storage := NewSnapshotStorage(db, arbor.NewLogger())
	ctx := context.Background()

	storage.Save(ctx, &models.StockSnapshot{Ticker: "AAPL", CollectedAt: time.Now()})
	if err := storage.Delete(ctx, "AAPL"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	got, err := storage.Get(ctx, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("snapshot should be gone after delete")
	}

	// Deleting a missing ticker is not an error.
	if err := storage.Delete(ctx, "MSFT"); err != nil {
		t.Errorf("Delete missing ticker returned error: %v", err)
	}
}
