// Package typename converts between the spellings of a Java class name:
// archive entry paths, internal slash form, field descriptors and the dotted
// binary name used as identity everywhere else in jarcheck.
package typename

import (
	"strconv"
	"strings"
)

// ClassSuffix is the entry suffix of a compiled class.
const ClassSuffix = ".class"

const versionsPrefix = "META-INF/versions/"

var primitiveDescriptors = map[byte]string{
	'Z': "boolean",
	'C': "char",
	'B': "byte",
	'S': "short",
	'I': "int",
	'J': "long",
	'F': "float",
	'D': "double",
	'V': "void",
}

// Normalize returns the dotted component type of name. It accepts internal
// names ("a/b/C"), array descriptors ("[[La/b/C;", "[I") and source-style
// arrays ("a.b.C[]").
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, "[") {
		name = strings.TrimLeft(name, "[")
		switch {
		case strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";"):
			name = name[1 : len(name)-1]
		case len(name) == 1:
			if kw, ok := primitiveDescriptors[name[0]]; ok {
				return kw
			}
		}
	}
	for strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]")
	}
	return strings.ReplaceAll(name, "/", ".")
}

// FromEntry maps an archive entry path to a class name. Entries under
// META-INF/versions/N/ map to their base name. ok is false for entries that
// are not classes, and for module-info and package-info descriptors.
func FromEntry(entry string) (name string, ok bool) {
	name, _, ok = ParseEntry(entry)
	return name, ok
}

// ParseEntry is FromEntry that also reports the release an entry belongs
// to: 0 for a base entry, N for one under META-INF/versions/N/. A versions
// directory whose name is not a number holds no classes.
func ParseEntry(entry string) (name string, release int, ok bool) {
	entry = strings.TrimPrefix(entry, "/")
	if !strings.HasSuffix(entry, ClassSuffix) {
		return "", 0, false
	}
	if rest, found := strings.CutPrefix(entry, versionsPrefix); found {
		dir, tail, cut := strings.Cut(rest, "/")
		if !cut {
			return "", 0, false
		}
		n, err := strconv.Atoi(dir)
		if err != nil || n <= 0 {
			return "", 0, false
		}
		release, entry = n, tail
	}
	base := strings.TrimSuffix(entry, ClassSuffix)
	simple := base[strings.LastIndexByte(base, '/')+1:]
	if simple == "" || simple == "module-info" || simple == "package-info" {
		return "", 0, false
	}
	return strings.ReplaceAll(base, "/", "."), release, true
}

// ToEntry returns the archive entry path of a dotted class name.
func ToEntry(name string) string {
	return strings.ReplaceAll(name, ".", "/") + ClassSuffix
}

// Package returns the dotted package of name, or "" for the default package.
func Package(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}
