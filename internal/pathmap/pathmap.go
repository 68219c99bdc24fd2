// Package pathmap translates between paths as stored in the library and
// paths as seen on this host.
package pathmap

import (
	"path"
	"sort"
	"strings"
)

// Mapping replaces the Stored prefix with Local. Stored may use Windows
// separators; Local is always a slash path.
type Mapping struct {
	Stored string
	Local  string
}

// Mapper applies a set of mappings, longest prefix first.
type Mapper struct {
	toLocal  []Mapping
	toStored []Mapping
}

// New creates a mapper. Empty mappings are ignored.
func New(mappings []Mapping) *Mapper {
	m := &Mapper{}
	for _, mp := range mappings {
		if mp.Stored == "" || mp.Local == "" {
			continue
		}
		mp.Stored = trimSep(mp.Stored)
		mp.Local = trimSep(mp.Local)
		m.toLocal = append(m.toLocal, mp)
		m.toStored = append(m.toStored, mp)
	}
	sort.SliceStable(m.toLocal, func(i, j int) bool { return len(m.toLocal[i].Stored) > len(m.toLocal[j].Stored) })
	sort.SliceStable(m.toStored, func(i, j int) bool { return len(m.toStored[i].Local) > len(m.toStored[j].Local) })
	return m
}

// ToLocal maps a stored path to a local one. Paths without a matching
// mapping are returned unchanged.
func (m *Mapper) ToLocal(p string) string {
	if m == nil {
		return p
	}
	for _, mp := range m.toLocal {
		if rest, ok := cutPrefix(p, mp.Stored); ok {
			return mp.Local + strings.ReplaceAll(rest, `\`, "/")
		}
	}
	return p
}

// ToStored maps a local path back to its stored form. For any path ToLocal
// rewrote, ToStored(ToLocal(p)) == p.
func (m *Mapper) ToStored(p string) string {
	if m == nil {
		return p
	}
	for _, mp := range m.toStored {
		if rest, ok := cutPrefix(p, mp.Local); ok {
			if windowsStyle(mp.Stored) {
				rest = strings.ReplaceAll(rest, "/", `\`)
			}
			return mp.Stored + rest
		}
	}
	return p
}

// cutPrefix strips prefix from p when it ends at a path boundary.
func cutPrefix(p, prefix string) (string, bool) {
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	rest := p[len(prefix):]
	if rest == "" || rest[0] == '/' || rest[0] == '\\' {
		return rest, true
	}
	return "", false
}

func windowsStyle(p string) bool {
	return strings.Contains(p, `\`) || (len(p) >= 2 && p[1] == ':')
}

func trimSep(p string) string {
	if windowsStyle(p) {
		return strings.TrimRight(p, `\/`)
	}
	if p == "/" {
		return p
	}
	return strings.TrimSuffix(path.Clean(p), "/")
}
