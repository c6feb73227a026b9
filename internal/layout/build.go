package layout

import (
	"go/token"
	"go/types"
	"slices"

	"github.com/podhmo/buildgen"
	"github.com/podhmo/buildgen/internal/analyzer"
	"github.com/podhmo/buildgen/internal/casing"
	"github.com/podhmo/buildgen/internal/diag"
	"github.com/podhmo/buildgen/internal/metadata"
)

// LoadFile reads a layout file and builds its specs.
func LoadFile(path string, opts analyzer.Options) (*metadata.File, diag.List, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	file, diags := Build(doc, path, opts)
	return file, diags, nil
}

// frame carries what children inherit from their parent.
type frame struct {
	category buildgen.Category
	root     string
	segments []metadata.Segment
}

type builder struct {
	opts      analyzer.Options
	pos       token.Position
	roots     analyzer.RootIndex
	file      *metadata.File
	diags     diag.List
	generated map[string]string
}

// Build validates a decoded document. Paths are visited depth-first in
// document order; a rejected path also drops its children.
func Build(doc *Document, filename string, opts analyzer.Options) (*metadata.File, diag.List) {
	b := &builder{
		opts:      opts,
		pos:       token.Position{Filename: filename},
		roots:     analyzer.RootIndex{},
		file:      &metadata.File{Package: doc.Package},
		generated: map[string]string{},
	}

	for _, r := range doc.Roots {
		if owner, dup := b.generated[r.Type]; dup {
			b.diags.Add(diag.New(diag.Structural, b.pos, r.Name, "", "root type %s is already declared for root %s", r.Type, owner))
			continue
		}
		b.generated[r.Type] = r.Name
		decl := &metadata.RootDecl{Name: r.Name, TypeName: r.Type, Emit: true, Pos: b.pos}
		b.roots[r.Name] = append(b.roots[r.Name], decl)
		b.file.Roots = append(b.file.Roots, decl)
	}
	for _, n := range doc.Paths {
		b.node(n, nil)
	}
	return b.file, b.diags
}

func (b *builder) node(n Node, parent *frame) {
	spec, dg := b.spec(n, parent)
	if dg == nil {
		if owner, dup := b.generated[spec.TypeName]; dup {
			dg = diag.New(diag.Structural, b.pos, n.Name, "", "generated type %s is also generated for %s", spec.TypeName, owner).
				WithHint("set type: on one of the paths")
		}
	}
	if dg != nil {
		b.diags.Add(dg)
		return
	}
	b.generated[spec.TypeName] = spec.Name
	b.file.Paths = append(b.file.Paths, spec)

	inherited := &frame{category: spec.Category, root: spec.Root, segments: spec.Segments}
	for _, child := range n.Children {
		b.node(child, inherited)
	}
}

func (b *builder) spec(n Node, parent *frame) (*metadata.PathSpec, *diag.Diagnostic) {
	fail := func(kind diag.Kind, field, format string, args ...any) *diag.Diagnostic {
		return diag.New(kind, b.pos, n.Name, field, format, args...)
	}

	// annotation syntax
	var category buildgen.Category
	if n.Category != "" {
		c, ok := analyzer.ParseCategory(n.Category)
		if !ok {
			return nil, fail(diag.InvalidCategory, "category", "unknown category %q", n.Category).
				WithHint("use absolute, relative or root")
		}
		category = c
	}
	rootName := n.Root
	if parent == nil {
		if category == 0 {
			return nil, fail(diag.AnnotationSyntax, "category", "path %s has no category", n.Name).
				WithHint("top-level paths need category: absolute, relative or root")
		}
	} else {
		if category != 0 && category != parent.category {
			return nil, fail(diag.AnnotationSyntax, "category", "child %s cannot change the category %s inherited from its parent", n.Name, parent.category)
		}
		category = parent.category
		if rootName != "" && rootName != parent.root {
			return nil, fail(diag.AnnotationSyntax, "root", "child %s cannot change the root %q inherited from its parent", n.Name, parent.root)
		}
		rootName = parent.root
	}
	if rootName != "" && category != buildgen.RootBound {
		return nil, fail(diag.AnnotationSyntax, "root", "root %s is only valid with category root, not %s", rootName, category)
	}

	typeName := n.Name + b.opts.PathSuffix
	if n.Type != "" {
		typeName = n.Type
	}
	spec := &metadata.PathSpec{
		Name:     n.Name,
		TypeName: typeName,
		Doc:      n.Doc,
		Category: category,
		Pos:      b.pos,
	}
	if parent != nil {
		spec.Segments = slices.Clone(parent.segments)
	}
	for _, s := range n.Segments {
		seg := metadata.Segment{Field: s.Name, Pos: b.pos}
		switch s.Kind {
		case "dynamic":
			if s.Text != "" {
				return nil, fail(diag.AnnotationSyntax, s.Name, "text is only valid on literal segments")
			}
			if param := casing.Convert(s.Name, casing.Snake, casing.Camel); !token.IsIdentifier(param) {
				return nil, fail(diag.AnnotationSyntax, s.Name, "dynamic segment name %q does not form a Go identifier", s.Name)
			}
			seg.Kind = metadata.Dynamic
			seg.GoType = "string"
			if s.Type != "" {
				if !token.IsIdentifier(s.Type) {
					return nil, fail(diag.AnnotationSyntax, s.Name, "type %q must be a type declared in package %s", s.Type, b.file.Package)
				}
				if _, builtin := types.Universe.Lookup(s.Type).(*types.TypeName); builtin && s.Type != "string" {
					return nil, fail(diag.AnnotationSyntax, s.Name, "dynamic segment %s must be string-kinded, found %s", s.Name, s.Type)
				}
				seg.GoType = s.Type
			}
		default:
			if s.Type != "" {
				return nil, fail(diag.AnnotationSyntax, s.Name, "type is only valid on dynamic segments")
			}
			seg.Kind = metadata.Literal
			seg.Text = s.Name
			if s.Text != "" {
				seg.Text = s.Text
			}
			if problem := analyzer.CheckLiteralText(seg.Text); problem != "" {
				return nil, fail(diag.AnnotationSyntax, s.Name, "literal segment %s: %s", s.Name, problem)
			}
		}
		spec.Segments = append(spec.Segments, seg)
	}

	// cross-field
	if dg := analyzer.CheckSegments(spec); dg != nil {
		return nil, dg
	}
	if category == buildgen.RootBound {
		root, dg := analyzer.ResolveRoot(spec, rootName, b.pos, b.roots)
		if dg != nil {
			return nil, dg
		}
		spec.Root = root.Name
		spec.RootType = root.TypeName
	}
	return spec, nil
}
