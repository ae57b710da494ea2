// Package sbom describes a classpath as a CycloneDX bill of materials: one
// component per container, annotated with how much of it an entry class
// actually uses, and the container-level dependency edges implied by the
// entry's closure.
package sbom

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/1homsi/jarcheck/internal/archive"
	"github.com/1homsi/jarcheck/internal/closure"
	"github.com/1homsi/jarcheck/internal/typename"
)

type BOMProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Component struct {
	BOMRef     string        `json:"bom-ref"`
	Type       string        `json:"type"`
	Group      string        `json:"group,omitempty"`
	Name       string        `json:"name"`
	Version    string        `json:"version,omitempty"`
	PackageURL string        `json:"purl,omitempty"`
	Properties []BOMProperty `json:"properties,omitempty"`
}

type Dependency struct {
	Ref       string   `json:"ref"`
	DependsOn []string `json:"dependsOn"`
}

type BOMTool struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type BOMMetadata struct {
	Timestamp  string        `json:"timestamp"`
	Tools      []BOMTool     `json:"tools"`
	Properties []BOMProperty `json:"properties,omitempty"`
}

type BOM struct {
	BOMFormat    string       `json:"bomFormat"`
	SpecVersion  string       `json:"specVersion"`
	SerialNumber string       `json:"serialNumber"`
	Version      int          `json:"version"`
	Metadata     BOMMetadata  `json:"metadata"`
	Components   []Component  `json:"components"`
	Dependencies []Dependency `json:"dependencies"`
}

// Coordinates identify a Maven artifact.
type Coordinates struct {
	Group, Artifact, Version string
}

var versionedJar = regexp.MustCompile(`^(.+?)-(\d[0-9A-Za-z._-]*)\.jar$`)

// Generate builds the BOM of store as seen from the closure c. Containers the
// closure never touches are still listed, with jarcheck:used set to false.
func Generate(c *closure.Closure, store archive.Store, version string) (BOM, error) {
	used := make(map[string]int)
	deps := make(map[string]map[string]bool)
	seen := make(map[string]bool)
	for _, name := range append([]string{c.Entry}, c.Required()...) {
		from := c.Source(name)
		if from == "" || seen[name] {
			continue
		}
		seen[name] = true
		used[from]++
		for _, ref := range c.References(name) {
			to := c.Source(ref)
			if to == "" || to == from {
				continue
			}
			if deps[from] == nil {
				deps[from] = make(map[string]bool)
			}
			deps[from][to] = true
		}
	}

	components := []Component{}
	dependencies := []Dependency{}
	for _, container := range store.Containers() {
		entries, err := store.List(container)
		if err != nil {
			return BOM{}, err
		}
		classes := 0
		for _, e := range entries {
			if _, ok := typename.FromEntry(e); ok {
				classes++
			}
		}

		comp := Component{BOMRef: container, Type: "library", Name: filepath.Base(container)}
		coords, err := mavenCoordinates(store, container, entries)
		if err != nil {
			return BOM{}, err
		}
		switch {
		case coords.Artifact != "":
			comp.Group, comp.Name, comp.Version = coords.Group, coords.Artifact, coords.Version
			comp.PackageURL = fmt.Sprintf("pkg:maven/%s/%s@%s", coords.Group, coords.Artifact, coords.Version)
		default:
			if m := versionedJar.FindStringSubmatch(comp.Name); m != nil {
				comp.Name, comp.Version = m[1], m[2]
			}
		}

		comp.Properties = []BOMProperty{
			{Name: "jarcheck:classes", Value: fmt.Sprintf("%d", classes)},
			{Name: "jarcheck:used_classes", Value: fmt.Sprintf("%d", used[container])},
			{Name: "jarcheck:used", Value: fmt.Sprintf("%t", used[container] > 0)},
		}
		if c.Source(c.Entry) == container {
			comp.Properties = append(comp.Properties, BOMProperty{Name: "jarcheck:entry", Value: c.Entry})
		}
		components = append(components, comp)

		dependsOn := make([]string, 0, len(deps[container]))
		for to := range deps[container] {
			dependsOn = append(dependsOn, to)
		}
		sort.Strings(dependsOn)
		dependencies = append(dependencies, Dependency{Ref: container, DependsOn: dependsOn})
	}

	meta := BOMMetadata{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Tools:     []BOMTool{{Name: "jarcheck", Version: version}},
		Properties: []BOMProperty{
			{Name: "jarcheck:entry", Value: c.Entry},
		},
	}
	if unresolved := c.Unresolved(); len(unresolved) > 0 {
		meta.Properties = append(meta.Properties, BOMProperty{Name: "jarcheck:unresolved", Value: strings.Join(unresolved, ", ")})
	}

	return BOM{
		BOMFormat:    "CycloneDX",
		SpecVersion:  "1.5",
		SerialNumber: "urn:uuid:" + uuid.NewString(),
		Version:      1,
		Metadata:     meta,
		Components:   components,
		Dependencies: dependencies,
	}, nil
}

// mavenCoordinates reads the first META-INF/maven/<group>/<artifact>/pom.properties
// of a container. It returns zero Coordinates when there is none.
func mavenCoordinates(store archive.Store, container string, entries []string) (Coordinates, error) {
	var poms []string
	for _, e := range entries {
		if strings.HasPrefix(e, "META-INF/maven/") && strings.HasSuffix(e, "/pom.properties") {
			poms = append(poms, e)
		}
	}
	if len(poms) == 0 {
		return Coordinates{}, nil
	}
	sort.Strings(poms)
	data, err := store.Read(container, poms[0])
	if err != nil {
		return Coordinates{}, err
	}
	props := parseProperties(data)
	return Coordinates{
		Group:    props["groupId"],
		Artifact: props["artifactId"],
		Version:  props["version"],
	}, nil
}

func parseProperties(data []byte) map[string]string {
	props := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			k, v, ok = strings.Cut(line, ":")
		}
		if ok {
			props[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return props
}
