package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ZipContainer reads a JAR or ZIP file.
type ZipContainer struct {
	path  string
	mu    sync.Mutex
	rc    *zip.ReadCloser
	files map[string]*zip.File
	names []string
}

func OpenZip(path string) (*ZipContainer, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	z := &ZipContainer{path: path, rc: rc, files: make(map[string]*zip.File, len(rc.File))}
	for _, f := range rc.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if _, dup := z.files[f.Name]; dup {
			continue
		}
		z.files[f.Name] = f
		z.names = append(z.names, f.Name)
	}
	return z, nil
}

// Entries returns the file entries in archive order.
func (z *ZipContainer) Entries() ([]string, error) {
	return append([]string(nil), z.names...), nil
}

func (z *ZipContainer) Read(entry string) ([]byte, error) {
	f, ok := z.files[entry]
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, entry, z.path)
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %v", ErrUnreadable, entry, z.path, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %v", ErrUnreadable, entry, z.path, err)
	}
	return data, nil
}

func (z *ZipContainer) Close() error {
	return z.rc.Close()
}
