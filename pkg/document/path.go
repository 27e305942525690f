package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: either a mapping key or an array index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// Path is a parsed document address.
type Path []Segment

// ParsePath parses dotted/indexed path syntax.
func ParsePath(raw string) (Path, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	var (
		out  Path
		name strings.Builder
		// expectName is true right after a dot or at the start, where a key is
		// mandatory.
		expectName = true
	)

	flushName := func(pos int) error {
		if name.Len() == 0 {
			if expectName {
				return fmt.Errorf("%w: empty segment at offset %d in %q", ErrInvalidPath, pos, raw)
			}
			return nil
		}
		out = append(out, Segment{Key: name.String()})
		name.Reset()
		expectName = false
		return nil
	}

	for i := 0; i < len(trimmed); i++ {
		ch := trimmed[i]
		switch ch {
		case '.':
			if err := flushName(i); err != nil {
				return nil, err
			}
			expectName = true
		case '[':
			if err := flushName(i); err != nil {
				return nil, err
			}
			end := strings.IndexByte(trimmed[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed index in %q", ErrInvalidPath, raw)
			}
			digits := trimmed[i+1 : i+end]
			idx, err := strconv.Atoi(digits)
			if err != nil || idx < 0 || strings.HasPrefix(digits, "+") {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrInvalidPath, digits, raw)
			}
			out = append(out, Segment{Index: idx, IsIndex: true})
			i += end
			if next := i + 1; next < len(trimmed) && trimmed[next] != '.' && trimmed[next] != '[' {
				return nil, fmt.Errorf("%w: unexpected %q after index in %q", ErrInvalidPath, trimmed[next], raw)
			}
		case ']':
			return nil, fmt.Errorf("%w: unbalanced ']' in %q", ErrInvalidPath, raw)
		default:
			name.WriteByte(ch)
		}
	}

	if expectName && name.Len() == 0 {
		return nil, fmt.Errorf("%w: trailing dot in %q", ErrInvalidPath, raw)
	}
	if err := flushName(len(trimmed)); err != nil {
		return nil, err
	}
	return out, nil
}

// MustParsePath is ParsePath for static paths; it panics on bad syntax.
func MustParsePath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the path back into its textual form.
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
