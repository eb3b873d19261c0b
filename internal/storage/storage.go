// Package storage provides the durable key/value stores that back persisted
// table preferences. Values are opaque strings; callers own the encoding.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var (
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("storage: closed")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// Storage is the get/set/remove contract the state layer depends on.
// A missing key is reported by ok=false, never by an error.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys(prefix string) ([]string, error)
}

// Store is a Storage that holds resources until closed.
type Store interface {
	Storage
	Lister
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the file for the file backend or the database for sqlite.
	Path string
}

// Open constructs the backend named in opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendMemory:
		return NewMemoryStorage(), nil
	case BackendFile:
		return OpenFileStorage(opts.Path)
	case BackendSQLite:
		return OpenSQLiteStorage(opts.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
