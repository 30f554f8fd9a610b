package principals_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/douanehq/douane/internal/principals"
	"github.com/douanehq/douane/pkg/lifecycle"
	"github.com/douanehq/douane/pkg/storage"
)

type memoryStorage struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: make(map[string][]byte)}
}

func (m *memoryStorage) Start(lc *lifecycle.Coordinator) error { return nil }

func (m *memoryStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *memoryStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func newTestSystem() principals.System {
	return principals.New(newMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListEmpty(t *testing.T) {
	sys := newTestSystem()

	list, err := sys.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d entries", len(list))
	}
}

func TestCreateAndList(t *testing.T) {
	sys := newTestSystem()
	ctx := context.Background()

	for _, name := range []string{"Zephyr Freight", "Acme Logistics", "Meridian Trade"} {
		if _, err := sys.Create(ctx, name); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}

	list, err := sys.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 principals, got %d", len(list))
	}

	expected := []string{"Acme Logistics", "Meridian Trade", "Zephyr Freight"}
	for i, name := range expected {
		if list[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, list[i].Name)
		}
	}
}

func TestCreateDuplicateCaseInsensitive(t *testing.T) {
	sys := newTestSystem()
	ctx := context.Background()

	if _, err := sys.Create(ctx, "Acme Logistics"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := sys.Create(ctx, "ACME LOGISTICS"); !errors.Is(err, principals.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateTrimsName(t *testing.T) {
	sys := newTestSystem()
	ctx := context.Background()

	p, err := sys.Create(ctx, "  Acme Logistics  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Name != "Acme Logistics" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
}

func TestCreateEmptyName(t *testing.T) {
	sys := newTestSystem()

	if _, err := sys.Create(context.Background(), "   "); !errors.Is(err, principals.ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	sys := newTestSystem()
	ctx := context.Background()

	if _, err := sys.Create(ctx, "Acme Logistics"); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := sys.Update(ctx, "acme logistics", "Acme Global")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Name != "Acme Global" {
		t.Errorf("unexpected name: %q", p.Name)
	}

	list, _ := sys.List(ctx)
	if len(list) != 1 || list[0].Name != "Acme Global" {
		t.Errorf("unexpected list after rename: %+v", list)
	}
}

func TestUpdateCaseOnlyRename(t *testing.T) {
	sys := newTestSystem()
	ctx := context.Background()

	if _, err := sys.Create(ctx, "acme logistics"); err != nil {
		t.Fatalf("create: %v", err)
	}

	p, err := sys.Update(ctx, "acme logistics", "Acme Logistics")
	if err != nil {
		t.Fatalf("case-only rename should succeed: %v", err)
	}
	if p.Name != "Acme Logistics" {
		t.Errorf("unexpected name: %q", p.Name)
	}
}

func TestUpdateUnknown(t *testing.T) {
	sys := newTestSystem()

	if _, err := sys.Update(context.Background(), "Nobody", "Somebody"); !errors.Is(err, principals.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateCollision(t *testing.T) {
	sys := newTestSystem()
	ctx := context.Background()

	sys.Create(ctx, "Acme Logistics")
	sys.Create(ctx, "Meridian Trade")

	if _, err := sys.Update(ctx, "Meridian Trade", "acme logistics"); !errors.Is(err, principals.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	sys := newTestSystem()
	ctx := context.Background()

	sys.Create(ctx, "Acme Logistics")

	if err := sys.Delete(ctx, "ACME logistics"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	list, _ := sys.List(ctx)
	if len(list) != 0 {
		t.Errorf("expected empty list after delete, got %d entries", len(list))
	}
}

func TestDeleteUnknown(t *testing.T) {
	sys := newTestSystem()

	if err := sys.Delete(context.Background(), "Nobody"); !errors.Is(err, principals.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPersistenceAcrossInstances(t *testing.T) {
	store := newMemoryStorage()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	first := principals.New(store, logger)
	if _, err := first.Create(ctx, "Acme Logistics"); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := principals.New(store, logger)
	list, err := second.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Acme Logistics" {
		t.Errorf("expected persisted principal, got %+v", list)
	}
}
