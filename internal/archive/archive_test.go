package archive_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/fixture"
)

func writeJar(t *testing.T, dir, name string, entries map[string][]byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := fixture.WriteJar(p, entries); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenZipAndDir(t *testing.T) {
	dir := t.TempDir()
	jar := writeJar(t, dir, "a.jar", map[string][]byte{
		"a/One.class":          []byte("one"),
		"META-INF/MANIFEST.MF": []byte("m"),
	})
	classes := filepath.Join(dir, "classes")
	if err := os.MkdirAll(filepath.Join(classes, "b"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(classes, "b", "Two.class"), []byte("two"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := archive.Open(jar, classes)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if got := s.Containers(); !reflect.DeepEqual(got, []string{jar, classes}) {
		t.Errorf("Containers() = %v", got)
	}
	entries, err := s.List(jar)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{"META-INF/MANIFEST.MF", "a/One.class"}; !reflect.DeepEqual(entries, want) {
		t.Errorf("List(jar) = %v, want %v", entries, want)
	}
	entries, err = s.List(classes)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{"b/Two.class"}; !reflect.DeepEqual(entries, want) {
		t.Errorf("List(dir) = %v, want %v", entries, want)
	}

	data, err := s.Read(classes, "b/Two.class")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != "two" {
		t.Errorf("Read(dir) = %q", data)
	}
}

func TestReadNotFound(t *testing.T) {
	dir := t.TempDir()
	jar := writeJar(t, dir, "a.jar", map[string][]byte{"a/One.class": []byte("one")})
	s, err := archive.Open(jar, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for _, c := range s.Containers() {
		for _, entry := range []string{"a/Missing.class", "../escape.class"} {
			if _, err := s.Read(c, entry); !errors.Is(err, archive.ErrNotFound) {
				t.Errorf("Read(%s, %s) error = %v, want ErrNotFound", c, entry, err)
			}
		}
	}
	if _, err := s.Read("nope", "a/One.class"); !errors.Is(err, archive.ErrUnreadable) {
		t.Errorf("Read(unknown container) error = %v, want ErrUnreadable", err)
	}
}

func TestOpenUnreadable(t *testing.T) {
	dir := t.TempDir()
	good := writeJar(t, dir, "good.jar", map[string][]byte{"a/A.class": nil})
	notZip := filepath.Join(dir, "broken.jar")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
	}{
		{"missing", []string{good, filepath.Join(dir, "missing.jar")}},
		{"not a zip", []string{good, notZip}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := archive.Open(tt.paths...)
			if !errors.Is(err, archive.ErrUnreadable) {
				t.Errorf("Open() error = %v, want ErrUnreadable", err)
			}
		})
	}
}

func TestMultiAddReplacesInPlace(t *testing.T) {
	m := archive.NewMulti()
	m.Add("a", archive.MemContainer{})
	m.Add("b", archive.MemContainer{})
	m.Add("a", archive.MemContainer{"x/Y.class": nil})
	if got := m.Containers(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Containers() = %v", got)
	}
	entries, _ := m.List("a")
	if !reflect.DeepEqual(entries, []string{"x/Y.class"}) {
		t.Errorf("List(a) = %v", entries)
	}
}
