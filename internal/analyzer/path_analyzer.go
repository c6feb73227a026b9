package analyzer

import (
	"go/ast"
	"go/token"
	"slices"
	"strings"

	"github.com/podhmo/buildgen"
	"github.com/podhmo/buildgen/internal/casing"
	"github.com/podhmo/buildgen/internal/diag"
	"github.com/podhmo/buildgen/internal/metadata"
	"github.com/podhmo/buildgen/internal/utils/astutils"
)

// ParseCategory maps the annotation spelling of a category to its value.
func ParseCategory(text string) (buildgen.Category, bool) {
	switch text {
	case "absolute":
		return buildgen.Absolute, true
	case "relative":
		return buildgen.Relative, true
	case "root":
		return buildgen.RootBound, true
	}
	return 0, false
}

// analyzePath validates a `//buildgen:path` definition. Each exported field
// becomes a segment, in declaration order:
//
//	type SourceDir struct {
//		Src     struct{} `seg:"literal"`
//		Package string   // dynamic
//	}
func (a *analyzer) analyzePath(def *definition, roots RootIndex) (*metadata.PathSpec, *diag.Diagnostic) {
	name := def.name()
	d := def.directive
	dpos := a.fset.Position(d.Comment.Pos())

	// structural
	st, dg := a.structType(def)
	if dg != nil {
		return nil, dg
	}

	// annotation syntax: the directive itself, then each field
	if dg := a.rejectBareArgs(def); dg != nil {
		return nil, dg
	}
	if dg := a.rejectUnknownKeys(def, "category", "root", "name"); dg != nil {
		return nil, dg
	}
	catText, ok := d.Args["category"]
	if !ok {
		return nil, diag.New(diag.AnnotationSyntax, dpos, name, "", "//buildgen:path requires category=").
			WithHint("use category=absolute, category=relative or category=root")
	}
	category, ok := ParseCategory(catText)
	if !ok {
		return nil, diag.New(diag.InvalidCategory, dpos, name, "", "unknown category %q", catText).
			WithHint("use absolute, relative or root")
	}
	rootName, hasRoot := d.Args["root"]
	if hasRoot && category != buildgen.RootBound {
		return nil, diag.New(diag.AnnotationSyntax, dpos, name, "",
			"root=%s is only valid with category=root, not category=%s", rootName, category)
	}
	typeName := name + a.opts.PathSuffix
	if n, ok := d.Args["name"]; ok {
		if !token.IsIdentifier(n) || !token.IsExported(n) {
			return nil, diag.New(diag.AnnotationSyntax, dpos, name, "", "name=%q is not an exported Go identifier", n)
		}
		typeName = n
	}

	spec := &metadata.PathSpec{
		Name:       name,
		TypeName:   typeName,
		Doc:        astutils.DocWithoutDirectives(def.doc),
		Category:   category,
		FromSchema: !hasField(st, "Path"),
		Pos:        a.fset.Position(def.spec.Pos()),
	}
	for _, field := range st.Fields.List {
		segs, dg := a.pathSegments(name, field)
		if dg != nil {
			return nil, dg
		}
		spec.Segments = append(spec.Segments, segs...)
	}

	// cross-field
	if dg := CheckSegments(spec); dg != nil {
		return nil, dg
	}
	if category == buildgen.RootBound {
		root, dg := ResolveRoot(spec, rootName, dpos, roots)
		if dg != nil {
			return nil, dg
		}
		spec.Root = root.Name
		spec.RootType = root.TypeName
	}
	return spec, nil
}

// pathSegments reads the segments declared by one struct field.
func (a *analyzer) pathSegments(def string, field *ast.Field) ([]metadata.Segment, *diag.Diagnostic) {
	typeName := astutils.ExprToTypeName(field.Type)
	if len(field.Names) == 0 {
		return nil, diag.New(diag.AnnotationSyntax, a.fieldPos(field, nil), def, typeName,
			"embedded field %s cannot be a path segment", typeName)
	}
	tag, err := lookupTag(field, "seg")
	if err != nil {
		return nil, diag.New(diag.AnnotationSyntax, a.fieldPos(field, field.Names[0]), def, field.Names[0].Name, "%v", err)
	}
	if tag.Skip() {
		return nil, nil
	}

	var segs []metadata.Segment
	for _, ident := range field.Names {
		if !ident.IsExported() {
			continue
		}
		pos := a.fieldPos(field, ident)
		fail := func(format string, args ...any) *diag.Diagnostic {
			return diag.New(diag.AnnotationSyntax, pos, def, ident.Name, format, args...)
		}

		kind := ""
		if tag != nil {
			kind = tag.Kind
		}
		if kind == "" {
			if typeName != "string" {
				return nil, fail("field %s has no seg tag and is not a string", ident.Name).
					WithHint("tag it `seg:\"literal\"` or `seg:\"dynamic\"`, or `seg:\"-\"` to skip it")
			}
			kind = "dynamic"
		}
		if tag != nil {
			for _, k := range tag.Keys {
				if k != "text" {
					return nil, fail("unknown seg option %q", k).WithHint("the only seg option is text=")
				}
			}
		}

		seg := metadata.Segment{Field: ident.Name, Pos: pos}
		switch kind {
		case "literal":
			seg.Kind = metadata.Literal
			seg.Text = casing.Convert(ident.Name, casing.Pascal, a.opts.SegmentStyle)
			if text, ok := tag.Option("text"); ok {
				seg.Text = text
			}
			if dg := CheckLiteralText(seg.Text); dg != "" {
				return nil, fail("literal segment %s: %s", ident.Name, dg)
			}
		case "dynamic":
			if _, ok := tag.Option("text"); ok {
				return nil, fail("text= is only valid on literal segments")
			}
			if !a.stringKinded(field.Type) {
				return nil, fail("dynamic segment %s must be string-kinded, found %s", ident.Name, typeName).
					WithHint("use string or a named type whose underlying type is string")
			}
			seg.Kind = metadata.Dynamic
			seg.GoType = typeName
		default:
			return nil, fail("unknown segment kind %q", kind).
				WithHint("use literal, dynamic or -")
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// CheckLiteralText describes what is wrong with a literal segment text, or
// returns "" when it is usable.
func CheckLiteralText(text string) string {
	switch {
	case text == "":
		return "text is empty"
	case text == "." || text == "..":
		return "text cannot be " + text
	case strings.Contains(text, buildgen.Separator):
		return "text contains the separator " + buildgen.Separator
	}
	return ""
}

// CheckSegments rejects a field name used for two segments.
func CheckSegments(spec *metadata.PathSpec) *diag.Diagnostic {
	seen := map[string]bool{}
	for _, s := range spec.Segments {
		if seen[s.Field] {
			return diag.New(diag.DuplicateSegment, s.Pos, spec.Name, s.Field, "segment %s is declared twice", s.Field)
		}
		seen[s.Field] = true
	}
	return nil
}

// ResolveRoot finds the single root a RootBound spec refers to.
func ResolveRoot(spec *metadata.PathSpec, rootName string, pos token.Position, roots RootIndex) (*metadata.RootDecl, *diag.Diagnostic) {
	if rootName == "" {
		dg := diag.New(diag.AmbiguousRoot, pos, spec.Name, "", "category=root requires root=<name>")
		if names := roots.names(); len(names) > 0 {
			slices.Sort(names)
			dg.WithHint("declared roots: %s", strings.Join(names, ", "))
		} else {
			dg.WithHint("declare one with //buildgen:root <name> on a string type")
		}
		return nil, dg
	}
	root, candidates := roots.resolve(rootName)
	if root != nil {
		return root, nil
	}
	if len(candidates) == 0 {
		return nil, diag.New(diag.AmbiguousRoot, pos, spec.Name, "", "root %q is not declared", rootName).
			WithHint("declare it with //buildgen:root %s on a string type", rootName)
	}
	types := make([]string, len(candidates))
	for i, c := range candidates {
		types[i] = c.TypeName
	}
	return nil, diag.New(diag.AmbiguousRoot, pos, spec.Name, "", "root %q is declared by %s", rootName, strings.Join(types, " and "))
}
