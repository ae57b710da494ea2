// Package archive gives uniform, ordered access to the classpath containers
// jarcheck inspects: JAR/ZIP files, exploded class directories and in-memory
// containers.
package archive

import (
	"errors"
	"fmt"
	"os"

	"github.com/1homsi/jarcheck/internal/logging"
)

var logger = logging.Component("archive")

var (
	// ErrNotFound is returned by Read when a container has no such entry.
	ErrNotFound = errors.New("entry not found")
	// ErrUnreadable wraps failures to open a container or read an entry.
	ErrUnreadable = errors.New("container unreadable")
)

// Store is an ordered set of named containers.
type Store interface {
	// Containers returns the container names in search order.
	Containers() []string
	// List returns the entry names of one container.
	List(container string) ([]string, error)
	// Read returns the bytes of one entry, or an error wrapping ErrNotFound.
	Read(container, entry string) ([]byte, error)
}

// Container is a single archive.
type Container interface {
	Entries() ([]string, error)
	Read(entry string) ([]byte, error)
	Close() error
}

// Multi is a Store over containers added in search order.
type Multi struct {
	names      []string
	containers map[string]Container
}

func NewMulti() *Multi {
	return &Multi{containers: make(map[string]Container)}
}

// Add appends c under name. Adding a name twice replaces the container but
// keeps its original position.
func (m *Multi) Add(name string, c Container) {
	if _, ok := m.containers[name]; !ok {
		m.names = append(m.names, name)
	}
	m.containers[name] = c
}

func (m *Multi) Containers() []string {
	return append([]string(nil), m.names...)
}

func (m *Multi) List(container string) ([]string, error) {
	c, ok := m.containers[container]
	if !ok {
		return nil, fmt.Errorf("%w: unknown container %s", ErrUnreadable, container)
	}
	return c.Entries()
}

func (m *Multi) Read(container, entry string) ([]byte, error) {
	c, ok := m.containers[container]
	if !ok {
		return nil, fmt.Errorf("%w: unknown container %s", ErrUnreadable, container)
	}
	return c.Read(entry)
}

// Close closes every container and returns the first error.
func (m *Multi) Close() error {
	var first error
	for _, name := range m.names {
		if err := m.containers[name].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens each path as a container, in order. Directories are treated as
// exploded classpath roots and anything else as a ZIP archive. A path that
// cannot be opened fails the whole call with an error wrapping
// ErrUnreadable.
func Open(paths ...string) (*Multi, error) {
	m := NewMulti()
	for _, p := range paths {
		c, err := openContainer(p)
		if err != nil {
			m.Close()
			return nil, err
		}
		logger.Debugf("opened %s", p)
		m.Add(p, c)
	}
	return m, nil
}

func openContainer(path string) (Container, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if info.IsDir() {
		return OpenDir(path), nil
	}
	return OpenZip(path)
}
