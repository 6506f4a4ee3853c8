package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// Path is a parsed dotted path such as spec.template.spec.containers[0].image
type Path []Segment

// ParsePath parses dot notation with bracketed sequence indexes.
// Keys may not contain '.', '[' or ']'.
func ParsePath(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var p Path
	for _, part := range strings.Split(s, ".") {
		key := part
		var idxs []int
		if i := strings.IndexByte(part, '['); i >= 0 {
			key = part[:i]
			rest := part[i:]
			for rest != "" {
				if rest[0] != '[' {
					return nil, fmt.Errorf("%w: %q: unexpected %q", ErrInvalidPath, s, rest)
				}
				end := strings.IndexByte(rest, ']')
				if end < 0 {
					return nil, fmt.Errorf("%w: %q: unterminated index", ErrInvalidPath, s)
				}
				n, err := strconv.Atoi(rest[1:end])
				if err != nil || n < 0 {
					return nil, fmt.Errorf("%w: %q: bad index %q", ErrInvalidPath, s, rest[1:end])
				}
				idxs = append(idxs, n)
				rest = rest[end+1:]
			}
		}
		if strings.ContainsAny(key, "]") {
			return nil, fmt.Errorf("%w: %q: unexpected ']'", ErrInvalidPath, s)
		}
		if key == "" && len(idxs) == 0 {
			return nil, fmt.Errorf("%w: %q: empty segment", ErrInvalidPath, s)
		}
		if key != "" {
			p = append(p, Segment{Key: key})
		}
		for _, n := range idxs {
			p = append(p, Segment{Index: n, IsIndex: true})
		}
	}
	return p, nil
}

// MustParsePath is ParsePath for static catalog entries; it panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path back to dot notation.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if !seg.IsIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.String())
	}
	return b.String()
}

// SchemaPath renders the path the way the Kubernetes field walker expects:
// keys only, with "[]" marking a step into a list.
func (p Path) SchemaPath() string {
	var parts []string
	for _, seg := range p {
		if seg.IsIndex {
			if len(parts) > 0 && !strings.HasSuffix(parts[len(parts)-1], "[]") {
				parts[len(parts)-1] += "[]"
			}
			continue
		}
		parts = append(parts, seg.Key)
	}
	return strings.Join(parts, ".")
}
