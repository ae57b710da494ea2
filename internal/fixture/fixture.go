// Package fixture turns txtar scenario files into classpath containers for
// tests. Each file in the archive is named <container>/<entry>; a container
// whose name ends in .jar is written as a JAR, anything else as an exploded
// directory.
//
// A .class entry is described line by line:
//
//	super com.example.Base
//	implements com.example.Api
//	new com.example.Dep           (also cast, instanceof, anewarray)
//	call com.example.Util.help    (invokestatic)
//	icall com.example.Api.run     (invokeinterface)
//	field com.example.Config.MAX  (getstatic)
//	raw <bytes>                   (the rest of the file is written verbatim)
//
// Other entries are written verbatim.
package fixture

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/fixture/classgen"
	"github.com/1homsi/jarcheck/internal/typename"
)

// Archive is a parsed scenario.
type Archive struct {
	Comment    string
	Containers []string
	Entries    map[string]map[string][]byte
}

// LoadFile parses the txtar file at path.
func LoadFile(path string) (*Archive, error) {
	a, err := txtar.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return fromTxtar(a)
}

// Parse parses txtar data.
func Parse(data []byte) (*Archive, error) {
	return fromTxtar(txtar.Parse(data))
}

func fromTxtar(a *txtar.Archive) (*Archive, error) {
	out := &Archive{
		Comment: string(a.Comment),
		Entries: make(map[string]map[string][]byte),
	}
	for _, f := range a.Files {
		container, entry, ok := strings.Cut(f.Name, "/")
		if !ok || container == "" || entry == "" {
			return nil, fmt.Errorf("fixture: file %q is not <container>/<entry>", f.Name)
		}
		data := f.Data
		if name, isClass := typename.FromEntry(entry); isClass {
			var err error
			if data, err = Compile(name, f.Data); err != nil {
				return nil, fmt.Errorf("fixture: %s: %w", f.Name, err)
			}
		}
		if _, seen := out.Entries[container]; !seen {
			out.Containers = append(out.Containers, container)
			out.Entries[container] = make(map[string][]byte)
		}
		out.Entries[container][entry] = data
	}
	return out, nil
}

// Compile assembles the class described by desc.
func Compile(name string, desc []byte) ([]byte, error) {
	c := classgen.Class{Name: name}
	var code []classgen.Insn
	sc := bufio.NewScanner(bytes.NewReader(desc))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch verb {
		case "raw":
			_, rest, _ := bytes.Cut(desc, []byte("raw "))
			return rest, nil
		case "super":
			c.Super = arg
		case "implements":
			c.Interfaces = append(c.Interfaces, arg)
		case "new":
			code = append(code, classgen.New(arg), classgen.Pop())
		case "cast":
			code = append(code, classgen.Aload0(), classgen.CheckCast(arg), classgen.Pop())
		case "instanceof":
			code = append(code, classgen.Aload0(), classgen.InstanceOf(arg), classgen.Pop())
		case "anewarray":
			code = append(code, classgen.Op(0x03), classgen.ANewArray(arg), classgen.Pop())
		case "call", "icall", "field":
			owner, member, err := splitMember(arg)
			if err != nil {
				return nil, err
			}
			switch verb {
			case "call":
				code = append(code, classgen.InvokeStatic(owner, member, "()V"))
			case "icall":
				code = append(code, classgen.Aload0(), classgen.InvokeInterface(owner, member, "()V", 1))
			default:
				code = append(code, classgen.GetStatic(owner, member, "I"), classgen.Pop())
			}
		default:
			return nil, fmt.Errorf("unknown directive %q", verb)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(code) > 0 {
		c.Methods = []classgen.Method{{
			Name:       "main",
			Descriptor: "([Ljava/lang/String;)V",
			Code:       append(code, classgen.Return()),
		}}
	}
	return c.Bytes(), nil
}

func splitMember(arg string) (owner, member string, err error) {
	i := strings.LastIndexByte(arg, '.')
	if i <= 0 || i == len(arg)-1 {
		return "", "", fmt.Errorf("member %q is not Owner.name", arg)
	}
	return arg[:i], arg[i+1:], nil
}

// Store returns an in-memory store holding every container, in archive
// order.
func (a *Archive) Store(containers ...string) *archive.Multi {
	if len(containers) == 0 {
		containers = a.Containers
	}
	m := archive.NewMulti()
	for _, c := range containers {
		m.Add(c, archive.MemContainer(a.Entries[c]))
	}
	return m
}

// Materialize writes every container under dir and returns the on-disk path
// of each, keyed by container name.
func (a *Archive) Materialize(dir string) (map[string]string, error) {
	paths := make(map[string]string, len(a.Containers))
	for _, c := range a.Containers {
		p := filepath.Join(dir, c)
		var err error
		if strings.HasSuffix(c, ".jar") {
			err = WriteJar(p, a.Entries[c])
		} else {
			err = writeDir(p, a.Entries[c])
		}
		if err != nil {
			return nil, err
		}
		paths[c] = p
	}
	return paths, nil
}

// WriteJar writes entries to a new ZIP file at path, in sorted order.
func WriteJar(path string, entries map[string][]byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			f.Close()
			return err
		}
		if _, err := w.Write(entries[name]); err != nil {
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeDir(root string, entries map[string][]byte) error {
	for name, data := range entries {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(p, data, 0o600); err != nil {
			return err
		}
	}
	return nil
}
