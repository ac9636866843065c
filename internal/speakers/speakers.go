package speakers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Role values for canonical speakers. RoleUnknown is never curated into the
// map; it is what Resolve reports when a tag or role is missing.
const (
	RoleMom        = "mom"
	RoleDancer     = "dancer"
	RoleInstructor = "instructor"
	RoleOther      = "other"
	RoleUnknown    = "unknown"
)

// Entry is one row of the speaker map.
type Entry struct {
	// Speaker is the caption tag as it appears on screen, e.g. "MISS ABBY".
	Speaker string
	// Canonical is the normalized name all aliases collapse to.
	Canonical string
	// Role classifies the canonical speaker: mom, dancer, instructor, or
	// other.
	Role string
	// Aliases lists additional caption tags that map to Canonical.
	Aliases []string
}

// Map resolves raw caption tags to canonical speakers and roles.
type Map struct {
	aliasToCanonical map[string]string
	canonicalRole    map[string]string
	size             int
}

var aliasSplitPattern = regexp.MustCompile(`[;,]\s*`)

// knownRoles is the closed role vocabulary; anything else becomes RoleOther.
var knownRoles = map[string]struct{}{
	RoleMom:        {},
	RoleDancer:     {},
	RoleInstructor: {},
	RoleOther:      {},
}

// NewMap builds a Map from entries directly, bypassing the CSV file. Rows
// without a canonical name are skipped.
func NewMap(entries []Entry) *Map {
	m := &Map{
		aliasToCanonical: make(map[string]string),
		canonicalRole:    make(map[string]string),
	}
	for _, entry := range entries {
		canonical := strings.ToUpper(strings.TrimSpace(entry.Canonical))
		if canonical == "" {
			continue
		}
		m.size++

		speaker := strings.ToUpper(strings.TrimSpace(entry.Speaker))
		if speaker == "" {
			speaker = canonical
		}
		m.aliasToCanonical[speaker] = canonical

		if role := normalizeRole(entry.Role); role != "" {
			m.canonicalRole[canonical] = role
		}
		for _, alias := range entry.Aliases {
			alias = strings.ToUpper(strings.TrimSpace(alias))
			if alias != "" {
				m.aliasToCanonical[alias] = canonical
			}
		}
	}
	return m
}

// Load reads the speaker map CSV. The file must carry a header row naming
// speaker, canonical, role, and aliases columns; aliases are separated by
// semicolons or commas within the cell.
func Load(path string) (*Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open speaker map: %w", err)
	}
	defer file.Close()
	return Read(file)
}

// Read parses speaker map CSV content.
func Read(r io.Reader) (*Map, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return NewMap(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read speaker map header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := columns["canonical"]; !ok {
		return nil, fmt.Errorf("speaker map missing canonical column")
	}

	var entries []Entry
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read speaker map row: %w", err)
		}
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}
		entry := Entry{
			Speaker:   cell("speaker"),
			Canonical: cell("canonical"),
			Role:      cell("role"),
		}
		if aliases := cell("aliases"); aliases != "" {
			entry.Aliases = aliasSplitPattern.Split(aliases, -1)
		}
		entries = append(entries, entry)
	}
	return NewMap(entries), nil
}

// Resolve maps a raw caption tag to its canonical speaker and role. Unknown
// tags pass through uppercased with role RoleUnknown and matched=false so
// callers can tally them; a matched row without a curated role also reports
// RoleUnknown.
func (m *Map) Resolve(raw string) (canonical, role string, matched bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if key == "" {
		return "", "", false
	}
	if m != nil {
		if canonical, ok := m.aliasToCanonical[key]; ok {
			role := m.canonicalRole[canonical]
			if role == "" {
				role = RoleUnknown
			}
			return canonical, role, true
		}
	}
	return key, RoleUnknown, false
}

// Len reports how many canonical rows the map holds.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.size
}

func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		return ""
	}
	if _, ok := knownRoles[role]; ok {
		return role
	}
	return "other"
}
