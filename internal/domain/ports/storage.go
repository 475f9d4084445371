package ports

import (
	"context"
	"io"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
)

// TemplateStore provides template packages by identifier
type TemplateStore interface {
	// Open returns the bytes of a template; unknown ids yield entities.ErrTemplateNotFound
	Open(ctx context.Context, id string) ([]byte, error)

	// List returns every stored template
	List(ctx context.Context) ([]entities.StoredTemplate, error)

	// Save stores a template under id, replacing any previous version
	Save(ctx context.Context, id string, data []byte) (*entities.StoredTemplate, error)
}

// OutputStore persists generated presentations
type OutputStore interface {
	// Put commits the content under name atomically; readers never see a partial file
	Put(ctx context.Context, name string, r io.Reader) error

	// Get opens a stored file; unknown names yield entities.ErrFileNotFound
	Get(ctx context.Context, name string) (io.ReadCloser, error)

	// Delete removes a stored file; unknown names yield entities.ErrFileNotFound
	Delete(ctx context.Context, name string) error

	// Exists reports whether name is stored
	Exists(ctx context.Context, name string) (bool, error)
}
