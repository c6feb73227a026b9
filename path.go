package buildgen

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
)

// Separator is the single separator used to render segments, independent of
// the host platform.
const Separator = "/"

var (
	// ErrNotRelative is returned when text that should be relative starts with the separator.
	ErrNotRelative = errors.New("path is not relative")
	// ErrNotAbsolute is returned when text that should be absolute lacks the leading separator.
	ErrNotAbsolute = errors.New("path is not absolute")
	// ErrShapeMismatch is returned when text does not have the segments a path type requires.
	ErrShapeMismatch = errors.New("path does not match shape")
)

// Render joins segments with Separator. Absolute paths get a leading
// separator; an empty absolute path renders as "/" and any other empty path
// as ".".
func Render(category Category, segments []string) string {
	joined := strings.Join(segments, Separator)
	if category == Absolute {
		return Separator + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}

// Split is the inverse of Render for segments that are non-empty and do not
// contain the separator. Empty and "." elements are dropped.
func Split(text string) []string {
	parts := strings.Split(text, Separator)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}

// Clean splits every part at the separator and keeps the non-empty, non-"."
// elements, so that the result renders to text Split maps back to it.
func Clean(parts ...string) []string {
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" && p != "." && !strings.Contains(p, Separator) {
			segments = append(segments, p)
			continue
		}
		segments = append(segments, Split(p)...)
	}
	return segments
}

// CompareSegments orders two segment sequences lexicographically, element by
// element, with a shorter prefix ordered first.
func CompareSegments(a, b []string) int {
	return slices.Compare(a, b)
}

// JoinSegments returns a fresh slice holding base followed by rel's segments.
// The tail is cleaned since rel may be implemented outside this package.
func JoinSegments(base []string, rel RelativePath) []string {
	tail := Clean(rel.Segments()...)
	out := make([]string, 0, len(base)+len(tail))
	out = append(out, base...)
	return append(out, tail...)
}

// Match checks text against the shape of a path type and returns the values
// of its dynamic segments in order. An empty element of shape marks a dynamic
// segment; every other element must appear literally.
func Match(category Category, text string, shape []string) ([]string, error) {
	if category == Absolute {
		if !strings.HasPrefix(text, Separator) {
			return nil, errors.Wrapf(ErrNotAbsolute, "parse %q", text)
		}
	} else if strings.HasPrefix(text, Separator) {
		return nil, errors.Wrapf(ErrNotRelative, "parse %q", text)
	}
	segments := Split(text)
	if len(segments) != len(shape) {
		return nil, errors.Wrapf(ErrShapeMismatch, "parse %q: want %d segments, got %d", text, len(shape), len(segments))
	}
	var values []string
	for i, want := range shape {
		if want == "" {
			values = append(values, segments[i])
			continue
		}
		if segments[i] != want {
			return nil, errors.Wrapf(ErrShapeMismatch, "parse %q: segment %d is %q, want %q", text, i, segments[i], want)
		}
	}
	return values, nil
}

// Rel is an untyped relative path, mostly used as the argument of a
// generated Join method.
type Rel struct {
	segments []string
}

// NewRel builds a relative path from segments. Segments holding the
// separator are split and empty ones dropped, as ParseRelative would.
func NewRel(segments ...string) Rel {
	return Rel{segments: Clean(segments...)}
}

// ParseRelative converts text into a relative path. It is the explicit
// conversion step from an unchecked string.
func ParseRelative(text string) (Rel, error) {
	if strings.HasPrefix(text, Separator) {
		return Rel{}, errors.Wrapf(ErrNotRelative, "parse %q", text)
	}
	return Rel{segments: Split(text)}, nil
}

func (r Rel) Segments() []string   { return slices.Clone(r.segments) }
func (r Rel) Category() Category   { return Relative }
func (r Rel) RelativeTag()         {}
func (r Rel) String() string       { return Render(Relative, r.segments) }
func (r Rel) Equal(other Rel) bool { return slices.Equal(r.segments, other.segments) }

// Join appends rel onto r.
func (r Rel) Join(rel RelativePath) Rel {
	return Rel{segments: JoinSegments(r.segments, rel)}
}

// Abs is an untyped absolute path.
type Abs struct {
	segments []string
}

// NewAbs builds an absolute path from segments, cleaned like NewRel's.
func NewAbs(segments ...string) Abs {
	return Abs{segments: Clean(segments...)}
}

// ParseAbsolute converts text starting with the separator into an absolute path.
func ParseAbsolute(text string) (Abs, error) {
	if !strings.HasPrefix(text, Separator) {
		return Abs{}, errors.Wrapf(ErrNotAbsolute, "parse %q", text)
	}
	return Abs{segments: Split(text)}, nil
}

func (a Abs) Segments() []string   { return slices.Clone(a.segments) }
func (a Abs) Category() Category   { return Absolute }
func (a Abs) AbsoluteTag()         {}
func (a Abs) String() string       { return Render(Absolute, a.segments) }
func (a Abs) Equal(other Abs) bool { return slices.Equal(a.segments, other.segments) }

// Join appends rel onto a; the result stays absolute.
func (a Abs) Join(rel RelativePath) Abs {
	return Abs{segments: JoinSegments(a.segments, rel)}
}

// ResolveRoot joins a root value with the rendering of segments bound to it.
func ResolveRoot(root string, segments []string) string {
	if len(segments) == 0 {
		return root
	}
	rendered := strings.Join(segments, Separator)
	if root == "" {
		return rendered
	}
	return strings.TrimSuffix(root, Separator) + Separator + rendered
}
