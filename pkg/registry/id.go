package registry

import (
	"fmt"
	"strconv"
	"strings"
)

// RootMarker is the first segment of every path id.
const RootMarker = "R"

// ID is a positional path identifier such as "R/0/1/2". Two components have
// the same identity across renders exactly when they resolve to the same ID.
type ID string

// Root returns the id of the root host node.
func Root() ID {
	return RootMarker
}

// Child returns the id of the i-th child slot.
func (id ID) Child(i int) ID {
	return ID(string(id) + "/" + strconv.Itoa(i))
}

// Parent returns the enclosing id. The root has no parent.
func (id ID) Parent() (ID, bool) {
	i := strings.LastIndexByte(string(id), '/')
	if i < 0 {
		return "", false
	}
	return id[:i], true
}

// IsRoot reports whether id is the root id.
func (id ID) IsRoot() bool {
	return id == RootMarker
}

// Segments returns the positional segments after the root marker.
func (id ID) Segments() []int {
	parts := strings.Split(string(id), "/")
	out := make([]int, 0, len(parts)-1)
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return out
		}
		out = append(out, n)
	}
	return out
}

// Depth returns the number of positional segments.
func (id ID) Depth() int {
	return strings.Count(string(id), "/")
}

// SlotUnder returns the index of the child slot of parent that id lives in:
// for parent "R/0" and id "R/0/3/1" it returns 3. It reports false when id
// is not strictly below parent.
func (id ID) SlotUnder(parent ID) (int, bool) {
	prefix := string(parent) + "/"
	if !strings.HasPrefix(string(id), prefix) {
		return 0, false
	}
	rest := string(id)[len(prefix):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Less orders ids by their segments, so "R/2" sorts before "R/10".
func (id ID) Less(other ID) bool {
	a, b := id.Segments(), other.Segments()
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Parse validates s as a path id.
func Parse(s string) (ID, error) {
	parts := strings.Split(s, "/")
	if parts[0] != RootMarker {
		return "", fmt.Errorf("registry: path id %q does not start with %q", s, RootMarker)
	}
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || strconv.Itoa(n) != p {
			return "", fmt.Errorf("registry: path id %q has invalid segment %q", s, p)
		}
	}
	return ID(s), nil
}
