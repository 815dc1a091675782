package personnel

import (
	"sort"
	"strings"
)

// Status of a name resolution
type Status string

const (
	StatusExact     Status = "exact"
	StatusAmbiguous Status = "ambiguous"
	StatusNone      Status = "none"
)

// Match is the result of resolving a typed name
type Match struct {
	Status     Status   `json:"status"`
	Name       string   `json:"name,omitempty"`
	Column     string   `json:"column,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}

// Resolver matches free-text names against the personnel table
type Resolver struct {
	table Table
	names []string
}

// NewResolver creates a resolver over the given table, or the built-in
// table when nil.
func NewResolver(table Table) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	// The roster holds names that differ only in casing, so the sort
	// key must be total for resolution to be deterministic.
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return &Resolver{table: table, names: names}
}

// Names returns every canonical name, sorted case-insensitively
func (r *Resolver) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Column returns the SetD column of an exactly spelled canonical name
func (r *Resolver) Column(name string) (string, bool) {
	column, ok := r.table[strings.TrimSpace(name)]
	return column, ok
}

// exact finds the canonical spelling of a fully typed name. A
// case-sensitive hit wins over a case-insensitive one, so roster
// entries that differ only in casing each stay reachable; failing
// both, the first name in sorted order takes it.
func (r *Resolver) exact(trimmed, lower string) (Match, bool) {
	if column, ok := r.table[trimmed]; ok {
		return Match{Status: StatusExact, Name: trimmed, Column: column}, true
	}
	for _, name := range r.names {
		if strings.ToLower(name) == lower {
			return Match{Status: StatusExact, Name: name, Column: r.table[name]}, true
		}
	}
	return Match{}, false
}

// Resolve matches a name as it is being typed. A case-insensitive
// full match is exact; otherwise any names containing the text are
// offered as candidates.
func (r *Resolver) Resolve(text string) Match {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Match{Status: StatusNone}
	}
	lower := strings.ToLower(trimmed)

	if match, ok := r.exact(trimmed, lower); ok {
		return match
	}

	var candidates []string
	for _, name := range r.names {
		if strings.Contains(strings.ToLower(name), lower) {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) > 0 {
		return Match{Status: StatusAmbiguous, Candidates: candidates}
	}
	return Match{Status: StatusNone}
}

// Commit matches a name once typing is done. Exact matches win; failing
// that, a single name starting with or containing the text is accepted
// outright, several stay ambiguous and none is a miss.
func (r *Resolver) Commit(text string) Match {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Match{Status: StatusNone}
	}
	lower := strings.ToLower(trimmed)

	if match, ok := r.exact(trimmed, lower); ok {
		return match
	}

	var candidates []string
	for _, name := range r.names {
		nameLower := strings.ToLower(name)
		if strings.HasPrefix(nameLower, lower) || strings.Contains(nameLower, lower) {
			candidates = append(candidates, name)
		}
	}

	switch len(candidates) {
	case 0:
		return Match{Status: StatusNone}
	case 1:
		name := candidates[0]
		return Match{Status: StatusExact, Name: name, Column: r.table[name]}
	default:
		return Match{Status: StatusAmbiguous, Candidates: candidates}
	}
}
