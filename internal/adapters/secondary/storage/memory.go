package storage

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// MemoryTemplateStore is an in-process template store
type MemoryTemplateStore struct {
	mu        sync.RWMutex
	templates map[string]memoryFile
	now       func() time.Time
}

type memoryFile struct {
	data     []byte
	modified time.Time
}

// NewMemoryTemplateStore creates an empty in-memory template store
func NewMemoryTemplateStore() *MemoryTemplateStore {
	return &MemoryTemplateStore{templates: make(map[string]memoryFile), now: time.Now}
}

// Open returns a copy of the stored template
func (s *MemoryTemplateStore) Open(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.templates[id]
	if !ok {
		return nil, entities.NewTemplateNotFound(id)
	}
	return append([]byte(nil), f.data...), nil
}

// List returns the stored templates ordered by id
func (s *MemoryTemplateStore) List(ctx context.Context) ([]entities.StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.StoredTemplate, 0, len(s.templates))
	for id, f := range s.templates {
		out = append(out, entities.StoredTemplate{ID: id, Path: "memory://" + id + TemplateExt, Modified: f.modified})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Save stores a copy of data under id
func (s *MemoryTemplateStore) Save(ctx context.Context, id string, data []byte) (*entities.StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(id); err != nil {
		return nil, entities.NewInvalidRequest("template_id", err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f := memoryFile{data: append([]byte(nil), data...), modified: s.now()}
	s.templates[id] = f
	return &entities.StoredTemplate{ID: id, Path: "memory://" + id + TemplateExt, Modified: f.modified}, nil
}

// MemoryOutputStore is an in-process output store
type MemoryOutputStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryOutputStore creates an empty in-memory output store
func NewMemoryOutputStore() *MemoryOutputStore {
	return &MemoryOutputStore{files: make(map[string][]byte)}
}

// Put reads r fully before publishing the file
func (s *MemoryOutputStore) Put(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return entities.NewInvalidRequest("output_filename", err.Error())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = data
	return nil
}

// Get opens a stored file
func (s *MemoryOutputStore) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[name]
	if !ok {
		return nil, entities.NewFileNotFound(name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes a stored file
func (s *MemoryOutputStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[name]; !ok {
		return entities.NewFileNotFound(name)
	}
	delete(s.files, name)
	return nil
}

// Exists reports whether name is stored
func (s *MemoryOutputStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[name]
	return ok, nil
}

// Bytes returns the content of a stored file
func (s *MemoryOutputStore) Bytes(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[name]
	return data, ok
}

// Names lists the stored files in order
func (s *MemoryOutputStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
