package metadata

import (
	"fmt"
	"go/token"
	"slices"
	"sort"

	"github.com/podhmo/buildgen"
)

// File holds every validated spec found in one package (one generation batch).
type File struct {
	Package string      // Go package name of the generated file
	Roots   []*RootDecl // Declared roots, in declaration order
	Paths   []*PathSpec // Path wrapper specs, in declaration order
	Args    []*ArgSpec  // Argument builder specs, in declaration order
}

// Empty reports whether nothing needs to be generated.
func (f *File) Empty() bool {
	return len(f.Roots) == 0 && len(f.Paths) == 0 && len(f.Args) == 0
}

// RootDecl is a named root that RootBound paths refer to.
type RootDecl struct {
	Name     string         // Root name used in `root=` (e.g. "project")
	TypeName string         // Go type that carries the root value (e.g. "ProjectRoot")
	Emit     bool           // True when the root type must be generated (layout files)
	Pos      token.Position `json:"-"`
}

// SegmentKind distinguishes fixed and caller-supplied segments.
type SegmentKind int

const (
	Literal SegmentKind = iota + 1
	Dynamic
)

func (k SegmentKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("SegmentKind(%d)", int(k))
	}
}

func (k SegmentKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Segment is one element of a path spec.
type Segment struct {
	Field  string         // Source field name (e.g. "Package")
	Kind   SegmentKind    // Literal or Dynamic
	Text   string         // Fixed text for literal segments
	GoType string         // Parameter type for dynamic segments (e.g. "string", "PackageName")
	Pos    token.Position `json:"-"`
}

// PathSpec describes one path wrapper type to generate.
type PathSpec struct {
	Name       string            // Name of the annotated definition (e.g. "SourceDir")
	TypeName   string            // Name of the generated wrapper type (e.g. "SourceDirPath")
	Doc        string            // Doc comment of the definition, without directives
	Category   buildgen.Category // Absolute, Relative or RootBound
	Root       string            // Root name; set iff Category is RootBound
	RootType   string            // Go type of the resolved root
	Segments   []Segment
	FromSchema bool           // True when the definition is a Go struct, enabling a Path() method on it
	Pos        token.Position `json:"-"`
}

// DynamicSegments returns the segments supplied by the constructor, in declaration order.
func (p *PathSpec) DynamicSegments() []Segment {
	var out []Segment
	for _, s := range p.Segments {
		if s.Kind == Dynamic {
			out = append(out, s)
		}
	}
	return out
}

// Shape renders the path with dynamic segments as {Field}, e.g.
// "<project>/src/{Package}" or "/etc/{Name}".
func (p *PathSpec) Shape() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		if s.Kind == Dynamic {
			parts[i] = "{" + s.Field + "}"
		} else {
			parts[i] = s.Text
		}
	}
	if p.Category == buildgen.RootBound {
		return buildgen.ResolveRoot("<"+p.Root+">", parts)
	}
	return buildgen.Render(p.Category, parts)
}

// FlagKind classifies an argument field.
type FlagKind int

const (
	Positional FlagKind = iota + 1
	Switch              // boolean flag, emitted iff true
	Valued              // flag followed by its value
)

func (k FlagKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case Switch:
		return "switch"
	case Valued:
		return "flag"
	default:
		return fmt.Sprintf("FlagKind(%d)", int(k))
	}
}

func (k FlagKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ArgField is one field of an argument spec.
type ArgField struct {
	Field    string   // Source field name (e.g. "OutputDir")
	FlagName string   // Emitted flag name (e.g. "--output-dir"); empty for positionals
	Kind     FlagKind // Positional, Switch or Valued
	GoType   string   // Field type as written (e.g. "string", "[]string")
	ElemType string   // Element type when Repeated
	Repeated bool     // Slice-typed valued flag: one flag/value pair per element
	Order    *int     // Explicit order index
	Default  *string  // Default value literal as written in the annotation
	HelpText string   // Field comment
	Index    int      // Declaration index within ArgSpec.Fields
	Pos      token.Position `json:"-"`
}

// ArgSpec describes one argument builder type to generate.
type ArgSpec struct {
	Name       string // Name of the annotated definition (e.g. "Compile")
	TypeName   string // Name of the generated builder type (e.g. "CompileArgs")
	Command    string // Program name shown by Usage()
	Doc        string
	Fields     []ArgField
	FromSchema bool           // True when an Args() method can be generated on the definition
	Pos        token.Position `json:"-"`
}

// Positionals returns positional fields in effective order.
func (a *ArgSpec) Positionals() []ArgField {
	return effectiveOrder(a.Fields, func(f ArgField) bool { return f.Kind == Positional })
}

// Flags returns switch and valued fields in effective order.
func (a *ArgSpec) Flags() []ArgField {
	return effectiveOrder(a.Fields, func(f ArgField) bool { return f.Kind != Positional })
}

// effectiveOrder puts fields with an explicit order index first, ascending by
// index, followed by the remaining fields in declaration order.
func effectiveOrder(fields []ArgField, keep func(ArgField) bool) []ArgField {
	var explicit, implicit []ArgField
	for _, f := range fields {
		if !keep(f) {
			continue
		}
		if f.Order != nil {
			explicit = append(explicit, f)
		} else {
			implicit = append(implicit, f)
		}
	}
	sort.SliceStable(explicit, func(i, j int) bool { return *explicit[i].Order < *explicit[j].Order })
	return slices.Concat(explicit, implicit)
}
