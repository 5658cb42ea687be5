package forms

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment addresses one child inside a container: a string key for Group
// children, a numeric index for Array children.
type Segment struct {
	key     string
	index   int
	indexed bool
}

// Name builds a key segment addressing a Group child.
func Name(key string) Segment {
	return Segment{key: key}
}

// Index builds a positional segment addressing an Array child.
func Index(i int) Segment {
	return Segment{index: i, indexed: true}
}

// IsIndex reports whether the segment addresses an Array position.
func (s Segment) IsIndex() bool { return s.indexed }

// Key returns the group key, empty for index segments.
func (s Segment) Key() string { return s.key }

// Pos returns the array position, zero for key segments.
func (s Segment) Pos() int { return s.index }

// String renders the segment the way dotted paths spell it.
func (s Segment) String() string {
	if s.indexed {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path is the ordered segment sequence from the form root to a node. Paths
// are derived state: they are recomputed from the live parent chain on every
// read and must never be cached across structural edits.
type Path []Segment

// String renders the path in dotted notation ("address.city", "tags.0").
func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// Child returns a copy of the path extended with one segment.
func (p Path) Child(seg Segment) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, p...)
	return append(out, seg)
}

// ParsePath converts dotted notation into a Path. Purely numeric segments
// become index segments.
func ParsePath(raw string) Path {
	trimmed := strings.Trim(strings.TrimSpace(raw), ".")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ".")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		if idx, err := strconv.Atoi(part); err == nil {
			path = append(path, Index(idx))
			continue
		}
		path = append(path, Name(part))
	}
	return path
}

// Find walks a path from the given container and returns the addressed node.
func Find(root Container, path Path) (Node, error) {
	if root == nil {
		return nil, fmt.Errorf("forms: find: root container is nil")
	}
	var current Node = root
	for i, seg := range path {
		container, ok := current.(Container)
		if !ok {
			return nil, fmt.Errorf("forms: find: %q is not a container", Path(path[:i]).String())
		}
		child, ok := container.Child(seg)
		if !ok {
			return nil, fmt.Errorf("forms: find: no node at %q", Path(path[:i+1]).String())
		}
		current = child
	}
	return current, nil
}
