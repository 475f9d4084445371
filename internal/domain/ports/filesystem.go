package ports

import (
	"io"
	"os"
)

// FileSystem abstracts the file operations the stores need for testability
type FileSystem interface {
	// File operations
	Open(name string) (File, error)
	CreateTemp(dir, pattern string) (File, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error

	// Directory operations
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(name string) ([]os.DirEntry, error)

	// File information
	Stat(name string) (os.FileInfo, error)

	// File content operations
	ReadFile(filename string) ([]byte, error)
}

// File abstracts file operations for testability
type File interface {
	io.ReadWriter
	io.Closer

	Name() string
	Sync() error
}

// RealFileSystem implements FileSystem using actual OS operations
type RealFileSystem struct{}

// NewRealFileSystem creates a new real file system implementation
func NewRealFileSystem() FileSystem {
	return &RealFileSystem{}
}

// Open opens a file for reading
func (fs *RealFileSystem) Open(name string) (File, error) {
	// #nosec G304 - names are built by the stores from validated identifiers
	return os.Open(name)
}

// CreateTemp creates a temporary file in dir
func (fs *RealFileSystem) CreateTemp(dir, pattern string) (File, error) {
	return os.CreateTemp(dir, pattern)
}

// Rename moves a file, replacing the target
func (fs *RealFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Remove removes a file
func (fs *RealFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// MkdirAll creates a directory and all parent directories
func (fs *RealFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// ReadDir lists a directory sorted by name
func (fs *RealFileSystem) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

// Stat returns file information
func (fs *RealFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the entire file content
func (fs *RealFileSystem) ReadFile(filename string) ([]byte, error) {
	// #nosec G304 - names are built by the stores from validated identifiers
	return os.ReadFile(filename)
}
