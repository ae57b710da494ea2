package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

// DirContainer reads an exploded classpath directory such as
// build/classes/java/main.
type DirContainer struct {
	root string
	fsys fs.FS
}

func OpenDir(root string) *DirContainer {
	return &DirContainer{root: root, fsys: os.DirFS(root)}
}

// Entries returns slash-separated paths of regular files, sorted.
func (d *DirContainer) Entries() ([]string, error) {
	var names []string
	err := fs.WalkDir(d.fsys, ".", func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.Type().IsRegular() {
			names = append(names, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, d.root, err)
	}
	sort.Strings(names)
	return names, nil
}

func (d *DirContainer) Read(entry string) ([]byte, error) {
	data, err := fs.ReadFile(d.fsys, entry)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, entry, d.root)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s: %v", ErrUnreadable, entry, d.root, err)
	}
	return data, nil
}

func (d *DirContainer) Close() error { return nil }
