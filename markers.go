// Package buildgen provides the runtime support imported by code that the
// `buildgen` tool generates.
//
// Generated path wrapper types carry their category as a marker method
// (AbsoluteTag, RelativeTag or RootName). The interfaces below select on those
// markers, so the Go compiler rejects, for example, joining an absolute path
// onto another path: Join only accepts a RelativePath.
//
// Generated argument builders render into Tokens.
package buildgen

import "fmt"

// Category classifies a path wrapper type.
type Category int

const (
	// Absolute paths render with a leading separator.
	Absolute Category = iota + 1
	// Relative paths can be joined onto any other path.
	Relative
	// RootBound paths are relative to a named root that is resolved later.
	RootBound
)

func (c Category) String() string {
	switch c {
	case Absolute:
		return "absolute"
	case Relative:
		return "relative"
	case RootBound:
		return "root"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Path is implemented by every generated path wrapper type.
type Path interface {
	Segments() []string
	Category() Category
}

// RelativePath is a Path whose category is Relative.
type RelativePath interface {
	Path
	RelativeTag()
}

// AbsolutePath is a Path whose category is Absolute.
type AbsolutePath interface {
	Path
	AbsoluteTag()
}

// RootBoundPath is a Path bound to the named root it returns.
type RootBoundPath interface {
	Path
	RootName() string
}

// MarshalText renders the category name, used by `buildgen scan`.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
