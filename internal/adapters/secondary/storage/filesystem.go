// Package storage keeps template packages and generated presentations.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

// TemplateExt is the file extension of stored templates
const TemplateExt = ".pptx"

const dirPerm = 0o750

// FileTemplateStore serves templates from <dir>/<id>.pptx
type FileTemplateStore struct {
	dir    string
	fs     ports.FileSystem
	logger *zap.Logger
}

// NewFileTemplateStore creates a template store rooted at dir
func NewFileTemplateStore(dir string, fsys ports.FileSystem, logger *zap.Logger) *FileTemplateStore {
	if fsys == nil {
		fsys = ports.NewRealFileSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileTemplateStore{dir: dir, fs: fsys, logger: logger}
}

// Open reads the template with the given id
func (s *FileTemplateStore) Open(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(id); err != nil {
		return nil, entities.NewTemplateNotFound(id)
	}

	data, err := s.fs.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, entities.NewTemplateNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", id, err)
	}
	return data, nil
}

// List returns the stored templates ordered by id. A missing directory is an empty store.
func (s *FileTemplateStore) List(ctx context.Context) ([]entities.StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.fs.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []entities.StoredTemplate{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	templates := make([]entities.StoredTemplate, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), TemplateExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("skipping unreadable template", zap.String("file", name), zap.Error(err))
			continue
		}
		templates = append(templates, entities.StoredTemplate{
			ID:       strings.TrimSuffix(name, filepath.Ext(name)),
			Path:     filepath.Join(s.dir, name),
			Modified: info.ModTime(),
		})
	}
	return templates, nil
}

// Save writes the template atomically, replacing an existing one with the same id
func (s *FileTemplateStore) Save(ctx context.Context, id string, data []byte) (*entities.StoredTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(id); err != nil {
		return nil, entities.NewInvalidRequest("template_id", err.Error())
	}

	if err := writeAtomic(s.fs, s.dir, id+TemplateExt, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("saving template %s: %w", id, err)
	}

	info, err := s.fs.Stat(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("saving template %s: %w", id, err)
	}
	s.logger.Info("template stored", zap.String("template_id", id), zap.Int("bytes", len(data)))
	return &entities.StoredTemplate{ID: id, Path: s.path(id), Modified: info.ModTime()}, nil
}

func (s *FileTemplateStore) path(id string) string {
	return filepath.Join(s.dir, id+TemplateExt)
}

// FileOutputStore keeps generated files in one directory
type FileOutputStore struct {
	dir    string
	fs     ports.FileSystem
	logger *zap.Logger
}

// NewFileOutputStore creates an output store rooted at dir
func NewFileOutputStore(dir string, fsys ports.FileSystem, logger *zap.Logger) *FileOutputStore {
	if fsys == nil {
		fsys = ports.NewRealFileSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileOutputStore{dir: dir, fs: fsys, logger: logger}
}

// Put writes r to a hidden temp file and renames it into place
func (s *FileOutputStore) Put(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateName(name); err != nil {
		return entities.NewInvalidRequest("output_filename", err.Error())
	}
	if err := writeAtomic(s.fs, s.dir, name, r); err != nil {
		return err
	}
	s.logger.Debug("output stored", zap.String("filename", name))
	return nil
}

// Get opens a stored file
func (s *FileOutputStore) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ValidateName(name) != nil {
		return nil, entities.NewFileNotFound(name)
	}

	f, err := s.fs.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, entities.NewFileNotFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return f, nil
}

// Delete removes a stored file
func (s *FileOutputStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ValidateName(name) != nil {
		return entities.NewFileNotFound(name)
	}

	err := s.fs.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return entities.NewFileNotFound(name)
	}
	if err != nil {
		return fmt.Errorf("deleting %s: %w", name, err)
	}
	s.logger.Info("output deleted", zap.String("filename", name))
	return nil
}

// Exists reports whether name is stored
func (s *FileOutputStore) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if ValidateName(name) != nil {
		return false, nil
	}

	_, err := s.fs.Stat(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// writeAtomic copies r into a temp file next to the target and renames it
// over the target, so readers see either the old file or the complete new one.
func writeAtomic(fsys ports.FileSystem, dir, name string, r io.Reader) (err error) {
	if err := fsys.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := fsys.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = fsys.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err = fsys.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("committing %s: %w", name, err)
	}
	return nil
}

// ValidateName rejects names that are empty, hidden or could leave the store directory
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("name is empty")
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("name %q must not start with a dot", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("name %q must not contain path separators", name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("name %q contains a NUL byte", name)
	}
	return nil
}
