package deps

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/enorganic/requirements/pkg/errors"
)

// OrderMode selects how [Order] arranges names.
type OrderMode int

const (
	// DependencyOrder emits dependencies before their dependents, breaking
	// ties and cycles alphabetically.
	DependencyOrder OrderMode = iota
	// Alphabetical sorts case-insensitively.
	Alphabetical
	// Discovered keeps the first-seen order of the closure walk.
	Discovered
)

var orderModeNames = map[OrderMode]string{
	DependencyOrder: "dependency",
	Alphabetical:    "alphabetical",
	Discovered:      "discovered",
}

func (m OrderMode) String() string {
	if s, ok := orderModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("OrderMode(%d)", int(m))
}

// ParseOrderMode parses "dependency", "alphabetical" or "discovered".
func ParseOrderMode(s string) (OrderMode, error) {
	for m, name := range orderModeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown order %q (want dependency, alphabetical or discovered)", s)
}

// Order arranges names according to mode and reverses the result when
// reverse is set. edges returns the direct requirement names of a name;
// targets outside names are ignored. The input slice is not modified.
//
// DependencyOrder repeatedly emits the alphabetically first remaining name
// whose remaining requirements all reach it back (a cycle) or have already
// been emitted. A round that emits nothing is an invariant violation and
// panics; it cannot happen for any input graph.
func Order(names []string, edges func(string) []string, mode OrderMode, reverse bool) []string {
	var out []string
	switch mode {
	case Alphabetical:
		out = sortFolded(names)
	case Discovered:
		out = slices.Clone(names)
	default:
		out = peel(sortFolded(names), edges)
	}
	if reverse {
		slices.Reverse(out)
	}
	return out
}

// sortFolded sorts case-insensitively with a byte-wise tie-break.
func sortFolded(names []string) []string {
	fold := cases.Fold()
	keys := make(map[string]string, len(names))
	for _, n := range names {
		keys[n] = fold.String(n)
	}
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		if c := strings.Compare(keys[a], keys[b]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return out
}

func peel(sorted []string, edges func(string) []string) []string {
	remaining := make(map[string]bool, len(sorted))
	for _, n := range sorted {
		remaining[n] = true
	}
	out := make([]string, 0, len(sorted))

	for len(sorted) > 0 {
		idx := slices.IndexFunc(sorted, func(n string) bool {
			return ready(n, edges, remaining)
		})
		if idx < 0 {
			panic(fmt.Sprintf("deps: no orderable name among %v", sorted))
		}
		n := sorted[idx]
		out = append(out, n)
		sorted = slices.Delete(sorted, idx, idx+1)
		delete(remaining, n)
	}
	return out
}

// ready reports whether every remaining requirement of n is part of a cycle
// through n.
func ready(n string, edges func(string) []string, remaining map[string]bool) bool {
	for _, t := range edgesOf(edges, n) {
		if t == n || !remaining[t] {
			continue
		}
		if !reaches(t, n, edges, remaining) {
			return false
		}
	}
	return true
}

// reaches runs a breadth-first search from "from" to "to" through remaining
// names only.
func reaches(from, to string, edges func(string) []string, remaining map[string]bool) bool {
	seen := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range edgesOf(edges, cur) {
			if next == to {
				return true
			}
			if remaining[next] && !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func edgesOf(edges func(string) []string, n string) []string {
	if edges == nil {
		return nil
	}
	return edges(n)
}
