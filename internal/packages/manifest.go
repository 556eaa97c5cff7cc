// Package packages resolves the names a tessera `import` statement refers
// to against a tessera.mod manifest. This core has no network-fetch
// responsibility (resolving what a module's *source* is belongs to the
// embedder's source-loader), so only the manifest parsing and
// name-to-path resolution survive; any download/cache-population routine
// is out of scope.
package packages

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Manifest is a tessera.mod file: the current module's own name and the
// declared path for every module it imports.
type Manifest struct {
	Module  string
	Tessera string
	Require []Requirement
	Replace map[string]Replacement
}

// Requirement is one `require <path> <version>` entry.
type Requirement struct {
	Path    string
	Version string
}

// Replacement is one `replace <old> => <new> <version>` entry.
type Replacement struct {
	New     string
	Version string
}

// ParseManifest reads a tessera.mod file: a line-oriented scanner
// recognizing `module`, `require`, and `replace` blocks, not a
// general-purpose format.
func ParseManifest(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("packages: open manifest: %w", err)
	}
	defer file.Close()

	m := &Manifest{Replace: make(map[string]Replacement)}
	inRequire := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "module "):
			m.Module = strings.TrimSpace(strings.TrimPrefix(line, "module"))
		case strings.HasPrefix(line, "tessera "):
			m.Tessera = strings.TrimSpace(strings.TrimPrefix(line, "tessera"))
		case line == "require (":
			inRequire = true
		case line == ")":
			inRequire = false
		case strings.HasPrefix(line, "require "):
			if req, ok := parseRequirement(strings.TrimPrefix(line, "require ")); ok {
				m.Require = append(m.Require, req)
			}
		case inRequire:
			if req, ok := parseRequirement(line); ok {
				m.Require = append(m.Require, req)
			}
		case strings.HasPrefix(line, "replace "):
			parseReplace(m, strings.TrimPrefix(line, "replace "))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("packages: read manifest: %w", err)
	}
	return m, nil
}

func parseRequirement(s string) (Requirement, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return Requirement{}, false
	}
	return Requirement{Path: fields[0], Version: fields[1]}, true
}

func parseReplace(m *Manifest, s string) {
	parts := strings.SplitN(s, "=>", 2)
	if len(parts) != 2 {
		return
	}
	old := strings.TrimSpace(parts[0])
	fields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(fields) == 0 {
		return
	}
	repl := Replacement{New: fields[0]}
	if len(fields) > 1 {
		repl.Version = fields[1]
	}
	m.Replace[old] = repl
}

// Find returns the declared path for a required module name, following any
// replace directive, or "" if name isn't declared.
func (m *Manifest) Find(name string) (string, bool) {
	for _, req := range m.Require {
		if req.Path == name {
			if repl, ok := m.Replace[name]; ok {
				return repl.New, true
			}
			return req.Path, true
		}
	}
	return "", false
}
