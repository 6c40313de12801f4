package esguard

import (
	"strconv"
	"strings"
)

// Path locates a value inside a document. Segments are either string keys or
// int list indexes.
type Path []any

// Field appends a key segment.
func (p Path) Field(name string) Path {
	return append(p.clone(), name)
}

// Index appends a list index segment.
func (p Path) Index(i int) Path {
	return append(p.clone(), i)
}

// Pointer renders the path as an RFC 6901 JSON Pointer; the root is "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		switch s := seg.(type) {
		case int:
			b.WriteString(strconv.Itoa(s))
		case string:
			// escape '~' -> '~0', '/' -> '~1'
			b.WriteString(pointerEscaper.Replace(s))
		}
	}
	return b.String()
}

func (p Path) String() string { return p.Pointer() }

// ParsePointer converts a JSON Pointer back into a Path. Numeric tokens become
// indexes.
func ParsePointer(ptr string) Path {
	if ptr == "" || ptr == "/" {
		return Path{}
	}
	var out Path
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		if i, err := strconv.Atoi(tok); err == nil {
			out = append(out, i)
			continue
		}
		out = append(out, pointerUnescaper.Replace(tok))
	}
	return out
}

func (p Path) clone() Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return out
}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)
