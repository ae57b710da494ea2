package platform

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1homsi/jarcheck/runtimes"
)

// DefaultProfile is the runtime assumed when none is configured.
const DefaultProfile = "jdk"

type rawProfile struct {
	Name     string   `yaml:"name"`
	Prefixes []string `yaml:"prefixes"`
	Names    []string `yaml:"names"`
}

// LoadProfile reads runtimes/<name>.yaml from the embedded FS and returns its
// classifier.
func LoadProfile(name string) (Classifier, error) {
	data, err := runtimes.FS.ReadFile(name + ".yaml")
	if err != nil {
		return Classifier{}, fmt.Errorf("unknown runtime profile %q (known: %s)", name, strings.Join(Profiles(), ", "))
	}

	var raw rawProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Classifier{}, fmt.Errorf("parse %s.yaml: %w", name, err)
	}
	if raw.Name != name {
		return Classifier{}, fmt.Errorf("%s.yaml: name is %q", name, raw.Name)
	}
	for i, p := range raw.Prefixes {
		if !strings.HasSuffix(p, ".") {
			return Classifier{}, fmt.Errorf("%s.yaml prefixes[%d]: %q must end in '.'", name, i, p)
		}
	}
	return New(raw.Prefixes, raw.Names), nil
}

// MustLoadProfile is like LoadProfile but panics on error. The profiles are
// embedded, so it is safe at package-init time.
func MustLoadProfile(name string) Classifier {
	c, err := LoadProfile(name)
	if err != nil {
		panic(fmt.Sprintf("jarcheck: %v", err))
	}
	return c
}

// Profiles returns the names of the embedded runtime profiles, sorted.
func Profiles() []string {
	files, _ := fs.Glob(runtimes.FS, "*.yaml")
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(f, ".yaml"))
	}
	sort.Strings(names)
	return names
}
