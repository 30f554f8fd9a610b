// Package principals maintains the managed list of principals used for
// filtering and analytics. The list is small and changes rarely, so it is
// persisted as a single JSON document in blob storage rather than a table.
package principals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/douanehq/douane/pkg/storage"
)

// DocumentKey is the blob key holding the principal list.
const DocumentKey = "principals.json"

// Principal is one managed principal name.
type Principal struct {
	Name string `json:"name"`
}

// System defines the public contract for principal directory operations.
type System interface {
	Handler() *Handler

	List(ctx context.Context) ([]Principal, error)
	Create(ctx context.Context, name string) (*Principal, error)
	Update(ctx context.Context, name, newName string) (*Principal, error)
	Delete(ctx context.Context, name string) error
}

type directory struct {
	store  storage.System
	logger *slog.Logger
	mu     sync.Mutex
}

// New creates a principal directory backed by the given storage system.
func New(store storage.System, logger *slog.Logger) System {
	return &directory{
		store:  store,
		logger: logger.With("system", "principals"),
	}
}

func (d *directory) Handler() *Handler {
	return NewHandler(d, d.logger)
}

// List returns all principals in alphabetical order.
func (d *directory) List(ctx context.Context) ([]Principal, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.load(ctx)
}

// Create adds a principal. Names are compared case-insensitively.
func (d *directory) Create(ctx context.Context, name string) (*Principal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	list, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	if indexOf(list, name) >= 0 {
		return nil, ErrDuplicate
	}

	list = append(list, Principal{Name: name})
	if err := d.save(ctx, list); err != nil {
		return nil, err
	}

	d.logger.Info("principal created", "name", name)
	return &Principal{Name: name}, nil
}

// Update renames a principal. The new name must not collide with another
// entry; a case-only change of the same entry is allowed.
func (d *directory) Update(ctx context.Context, name, newName string) (*Principal, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrEmptyName
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	list, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(list, name)
	if idx < 0 {
		return nil, ErrNotFound
	}

	if other := indexOf(list, newName); other >= 0 && other != idx {
		return nil, ErrDuplicate
	}

	list[idx].Name = newName
	if err := d.save(ctx, list); err != nil {
		return nil, err
	}

	d.logger.Info("principal renamed", "from", name, "to", newName)
	return &Principal{Name: newName}, nil
}

// Delete removes a principal by name.
func (d *directory) Delete(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	list, err := d.load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(list, name)
	if idx < 0 {
		return ErrNotFound
	}

	list = append(list[:idx], list[idx+1:]...)
	if err := d.save(ctx, list); err != nil {
		return err
	}

	d.logger.Info("principal deleted", "name", name)
	return nil
}

// load reads the document from storage. A missing document is an empty list.
func (d *directory) load(ctx context.Context) ([]Principal, error) {
	reader, err := d.store.Download(ctx, DocumentKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []Principal{}, nil
		}
		return nil, fmt.Errorf("load principals: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read principals: %w", err)
	}

	var list []Principal
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode principals: %w", err)
	}

	sortPrincipals(list)
	return list, nil
}

func (d *directory) save(ctx context.Context, list []Principal) error {
	sortPrincipals(list)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode principals: %w", err)
	}

	if err := d.store.Upload(ctx, DocumentKey, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("save principals: %w", err)
	}

	return nil
}

func indexOf(list []Principal, name string) int {
	for i, p := range list {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

func sortPrincipals(list []Principal) {
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
}
