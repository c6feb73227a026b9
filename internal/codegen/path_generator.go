package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/podhmo/buildgen"
	"github.com/podhmo/buildgen/internal/metadata"
)

// GeneratePathType renders the wrapper type of one path spec.
func GeneratePathType(spec *metadata.PathSpec) string {
	t := spec.TypeName
	category := categoryExpr(spec.Category)

	// constructor parameters, one per dynamic segment in declaration order
	names := nameSet{}
	var params, fields, parsed []string
	locals := map[string]string{}
	for i, seg := range spec.DynamicSegments() {
		name := names.take(localName(seg.Field))
		locals[seg.Field] = name
		params = append(params, name+" "+seg.GoType)
		fields = append(fields, "s."+seg.Field)
		if seg.GoType == "string" {
			parsed = append(parsed, fmt.Sprintf("values[%d]", i))
		} else {
			parsed = append(parsed, fmt.Sprintf("%s(values[%d])", seg.GoType, i))
		}
	}

	var elems, shape []string
	for _, seg := range spec.Segments {
		if seg.Kind == metadata.Literal {
			elems = append(elems, strconv.Quote(seg.Text))
			shape = append(shape, strconv.Quote(seg.Text))
			continue
		}
		shape = append(shape, `""`)
		if seg.GoType == "string" {
			elems = append(elems, locals[seg.Field])
		} else {
			elems = append(elems, "string("+locals[seg.Field]+")")
		}
	}

	var sb strings.Builder

	writeDoc(&sb, t, spec.Doc, fmt.Sprintf("%s is the %s path %s.", t, spec.Category, spec.Shape()))
	fmt.Fprintf(&sb, "type %s struct {\n\tsegments []string\n}\n\n", t)

	fmt.Fprintf(&sb, "// New%s builds %s.\n", t, spec.Shape())
	fmt.Fprintf(&sb, "func New%s(%s) %s {\n", t, strings.Join(params, ", "), t)
	switch {
	case len(elems) == 0:
		fmt.Fprintf(&sb, "\treturn %s{}\n}\n\n", t)
	case len(params) > 0:
		// caller values may hold the separator or be empty
		fmt.Fprintf(&sb, "\treturn %s{segments: buildgen.Clean(%s)}\n}\n\n", t, strings.Join(elems, ", "))
	default:
		fmt.Fprintf(&sb, "\treturn %s{segments: []string{%s}}\n}\n\n", t, strings.Join(elems, ", "))
	}

	if spec.FromSchema {
		fmt.Fprintf(&sb, "// Path returns the %s described by s.\n", t)
		fmt.Fprintf(&sb, "func (s %s) Path() %s {\n\treturn New%s(%s)\n}\n\n", spec.Name, t, t, strings.Join(fields, ", "))
	}

	// parse, the checked conversion from text
	fmt.Fprintf(&sb, "// Parse%s converts text shaped like %s into a %s.\n", t, strconv.Quote(buildgen.Render(relativeFor(spec.Category), shapeParts(spec))), t)
	fmt.Fprintf(&sb, "func Parse%s(text string) (%s, error) {\n", t, t)
	valuesVar := "values"
	if len(parsed) == 0 {
		valuesVar = "_"
	}
	fmt.Fprintf(&sb, "\t%s, err := buildgen.Match(%s, text, []string{%s})\n", valuesVar, category, strings.Join(shape, ", "))
	fmt.Fprintf(&sb, "\tif err != nil {\n\t\treturn %s{}, err\n\t}\n", t)
	fmt.Fprintf(&sb, "\treturn New%s(%s), nil\n}\n\n", t, strings.Join(parsed, ", "))

	fmt.Fprintf(&sb, "// Segments returns a copy of the segments of p.\n")
	fmt.Fprintf(&sb, "func (p %s) Segments() []string {\n\treturn slices.Clone(p.segments)\n}\n\n", t)

	fmt.Fprintf(&sb, "func (p %s) Category() buildgen.Category {\n\treturn %s\n}\n\n", t, category)

	switch spec.Category {
	case buildgen.Absolute:
		fmt.Fprintf(&sb, "func (p %s) AbsoluteTag() {}\n\n", t)
	case buildgen.Relative:
		fmt.Fprintf(&sb, "func (p %s) RelativeTag() {}\n\n", t)
	case buildgen.RootBound:
		fmt.Fprintf(&sb, "// RootName returns the name of the root p is bound to.\n")
		fmt.Fprintf(&sb, "func (p %s) RootName() string {\n\treturn %s\n}\n\n", t, strconv.Quote(spec.Root))
	}

	fmt.Fprintf(&sb, "// Join appends rel onto p; the result keeps the category of p.\n")
	fmt.Fprintf(&sb, "func (p %s) Join(rel buildgen.RelativePath) %s {\n\treturn %s{segments: buildgen.JoinSegments(p.segments, rel)}\n}\n\n", t, t, t)

	fmt.Fprintf(&sb, "func (p %s) Equal(other %s) bool {\n\treturn slices.Equal(p.segments, other.segments)\n}\n\n", t, t)
	fmt.Fprintf(&sb, "func (p %s) Compare(other %s) int {\n\treturn buildgen.CompareSegments(p.segments, other.segments)\n}\n\n", t, t)
	fmt.Fprintf(&sb, "func (p %s) String() string {\n\treturn buildgen.Render(%s, p.segments)\n}\n", t, category)

	if spec.Category == buildgen.RootBound {
		fmt.Fprintf(&sb, "\n// Resolve renders p below the value of its root.\n")
		fmt.Fprintf(&sb, "func (p %s) Resolve(root %s) string {\n\treturn buildgen.ResolveRoot(string(root), p.segments)\n}\n", t, spec.RootType)
	}
	return sb.String()
}

// GenerateRootType renders the string type of a root declared outside Go source.
func GenerateRootType(root *metadata.RootDecl) string {
	return fmt.Sprintf("// %s is the value of the %s root.\ntype %s string\n", root.TypeName, root.Name, root.TypeName)
}

func categoryExpr(c buildgen.Category) string {
	switch c {
	case buildgen.Absolute:
		return "buildgen.Absolute"
	case buildgen.Relative:
		return "buildgen.Relative"
	default:
		return "buildgen.RootBound"
	}
}

// relativeFor keeps absolute paths absolute; root-bound paths parse like relative ones.
func relativeFor(c buildgen.Category) buildgen.Category {
	if c == buildgen.Absolute {
		return c
	}
	return buildgen.Relative
}

func shapeParts(spec *metadata.PathSpec) []string {
	parts := make([]string, len(spec.Segments))
	for i, s := range spec.Segments {
		if s.Kind == metadata.Dynamic {
			parts[i] = "{" + s.Field + "}"
		} else {
			parts[i] = s.Text
		}
	}
	return parts
}
