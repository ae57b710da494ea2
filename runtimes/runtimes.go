// Package runtimes embeds the platform profiles: for each Java runtime, the
// package prefixes and class names it always provides. Adding a runtime is a
// matter of dropping in a new *.yaml file.
package runtimes

import "embed"

// FS holds every *.yaml file in this directory.
//
//go:embed *.yaml
var FS embed.FS
