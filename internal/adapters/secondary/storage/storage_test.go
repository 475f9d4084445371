package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/fredcamaral/slidesmith/internal/domain/entities"
	"github.com/fredcamaral/slidesmith/internal/domain/ports"
)

func TestFileTemplateStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "templates")
	store := NewFileTemplateStore(dir, nil, nil)

	t.Run("missing directory lists nothing", func(t *testing.T) {
		templates, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, templates)
	})

	t.Run("save then open", func(t *testing.T) {
		saved, err := store.Save(ctx, "quarterly", []byte("deck"))
		require.NoError(t, err)
		assert.Equal(t, "quarterly", saved.ID)
		assert.Equal(t, filepath.Join(dir, "quarterly.pptx"), saved.Path)
		assert.False(t, saved.Modified.IsZero())

		data, err := store.Open(ctx, "quarterly")
		require.NoError(t, err)
		assert.Equal(t, "deck", string(data))
	})

	t.Run("save replaces", func(t *testing.T) {
		_, err := store.Save(ctx, "quarterly", []byte("deck v2"))
		require.NoError(t, err)

		data, err := store.Open(ctx, "quarterly")
		require.NoError(t, err)
		assert.Equal(t, "deck v2", string(data))
	})

	t.Run("list skips other files", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.pptx.123.tmp"), []byte("x"), 0o600))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pptx"), 0o750))
		_, err := store.Save(ctx, "annual", []byte("deck"))
		require.NoError(t, err)

		templates, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, templates, 2)
		assert.Equal(t, "annual", templates[0].ID)
		assert.Equal(t, "quarterly", templates[1].ID)
	})

	t.Run("unknown and unsafe ids are not found", func(t *testing.T) {
		for _, id := range []string{"missing", "../quarterly", ".quarterly", ""} {
			_, err := store.Open(ctx, id)
			assert.ErrorIs(t, err, entities.ErrTemplateNotFound, id)
		}
	})

	t.Run("unsafe id cannot be saved", func(t *testing.T) {
		_, err := store.Save(ctx, "a/b", []byte("x"))
		assert.ErrorIs(t, err, entities.ErrInvalidRequestShape)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Open(cctx, "quarterly")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFileOutputStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "output")
	store := NewFileOutputStore(dir, nil, nil)

	require.NoError(t, store.Put(ctx, "deck.pptx", strings.NewReader("content")))

	ok, err := store.Exists(ctx, "deck.pptx")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := store.Get(ctx, "deck.pptx")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "content", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	require.NoError(t, store.Delete(ctx, "deck.pptx"))
	ok, err = store.Exists(ctx, "deck.pptx")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Get(ctx, "deck.pptx")
	assert.ErrorIs(t, err, entities.ErrFileNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "deck.pptx"), entities.ErrFileNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "../etc/passwd"), entities.ErrFileNotFound)
	assert.ErrorIs(t, store.Put(ctx, "../escape.pptx", strings.NewReader("x")), entities.ErrInvalidRequestShape)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestFileOutputStore_FailedWriteLeavesNothing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileOutputStore(dir, ports.NewRealFileSystem(), nil)

	err := store.Put(ctx, "deck.pptx", failingReader{})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileOutputStore_ConcurrentPut(t *testing.T) {
	const (
		writers = 16
		size    = 256 << 10
		name    = "shared.pptx"
	)
	dir := t.TempDir()
	store := NewFileOutputStore(dir, nil, nil)

	payloads := make([][]byte, writers)
	for i := range payloads {
		payloads[i] = bytes.Repeat([]byte{byte('a' + i)}, size)
	}

	// whole reports whether data is one complete payload
	whole := func(data []byte) error {
		if len(data) != size {
			return fmt.Errorf("read %d bytes, want %d", len(data), size)
		}
		if !bytes.Equal(data, bytes.Repeat(data[:1], size)) {
			return errors.New("payloads interleaved")
		}
		return nil
	}

	var done atomic.Bool
	g, ctx := errgroup.WithContext(context.Background())
	for i := range payloads {
		g.Go(func() error {
			return store.Put(ctx, name, bytes.NewReader(payloads[i]))
		})
	}

	var readers errgroup.Group
	readers.Go(func() error {
		for !done.Load() {
			rc, err := store.Get(context.Background(), name)
			if errors.Is(err, entities.ErrFileNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			data, err := io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return err
			}
			if err := whole(data); err != nil {
				return err
			}
		}
		return nil
	})

	require.NoError(t, g.Wait())
	done.Store(true)
	require.NoError(t, readers.Wait())

	final, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, whole(final))
	assert.Contains(t, payloads, final)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMemoryStores(t *testing.T) {
	ctx := context.Background()

	templates := NewMemoryTemplateStore()
	_, err := templates.Save(ctx, "b", []byte("2"))
	require.NoError(t, err)
	_, err = templates.Save(ctx, "a", []byte("1"))
	require.NoError(t, err)

	list, err := templates.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	_, err = templates.Open(ctx, "c")
	assert.ErrorIs(t, err, entities.ErrTemplateNotFound)

	outputs := NewMemoryOutputStore()
	require.NoError(t, outputs.Put(ctx, "x.pptx", strings.NewReader("data")))
	data, ok := outputs.Bytes("x.pptx")
	assert.True(t, ok)
	assert.Equal(t, "data", string(data))
	assert.Equal(t, []string{"x.pptx"}, outputs.Names())
	require.NoError(t, outputs.Delete(ctx, "x.pptx"))
	assert.ErrorIs(t, outputs.Delete(ctx, "x.pptx"), entities.ErrFileNotFound)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("deck_1.pptx"))
	for _, name := range []string{"", ".env", "a/b", `a\b`, "nul\x00"} {
		assert.Error(t, ValidateName(name), name)
	}
}

var (
	_ ports.TemplateStore = (*FileTemplateStore)(nil)
	_ ports.TemplateStore = (*MemoryTemplateStore)(nil)
	_ ports.OutputStore   = (*FileOutputStore)(nil)
	_ ports.OutputStore   = (*MemoryOutputStore)(nil)
)
