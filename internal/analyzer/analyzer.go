// Package analyzer turns annotated Go type declarations into validated
// metadata.File values.
//
// Three directives are recognized on type declarations:
//
//	//buildgen:root <name>
//	//buildgen:path category=<absolute|relative|root> [root=<name>] [name=<Type>]
//	//buildgen:args [name=<Type>] [command=<prog>]
//
// Each definition is validated in three phases: structural shape, per-field
// annotation syntax, then cross-field semantics. The first failure of a
// definition is reported and that definition is dropped; the remaining
// definitions are still analyzed.
package analyzer

import (
	"cmp"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"slices"
	"strings"

	"github.com/podhmo/buildgen/internal/casing"
	"github.com/podhmo/buildgen/internal/diag"
	"github.com/podhmo/buildgen/internal/metadata"
	"github.com/podhmo/buildgen/internal/utils/astutils"
)

// Options controls the naming conventions applied while analyzing.
type Options struct {
	FlagStyle    casing.Style // Casing of derived flag names
	FlagPrefix   string       // Prefix of derived flag names
	SegmentStyle casing.Style // Casing of derived literal segment text
	PathSuffix   string       // Suffix of generated path type names
	ArgsSuffix   string       // Suffix of generated argument builder names
}

// DefaultOptions returns the conventions used when no configuration is given.
func DefaultOptions() Options {
	return Options{
		FlagStyle:    casing.Kebab,
		FlagPrefix:   "--",
		SegmentStyle: casing.Kebab,
		PathSuffix:   "Path",
		ArgsSuffix:   "Args",
	}
}

const (
	directiveRoot = "root"
	directivePath = "path"
	directiveArgs = "args"
)

// definition is a type declaration carrying exactly one buildgen directive.
type definition struct {
	directive *astutils.Directive
	spec      *ast.TypeSpec
	doc       *ast.CommentGroup
}

func (d *definition) name() string { return d.spec.Name.Name }

type analyzer struct {
	fset     *token.FileSet
	opts     Options
	declared map[string]ast.Expr // type declarations of the package, by name
}

// Analyze inspects the files of one package and returns the metadata of every
// definition that passed validation, along with one diagnostic per rejected
// definition.
func Analyze(fset *token.FileSet, files []*ast.File, opts Options) (*metadata.File, diag.List) {
	a := &analyzer{fset: fset, opts: opts, declared: map[string]ast.Expr{}}
	result := &metadata.File{}
	var diags diag.List

	files = slices.Clone(files)
	slices.SortStableFunc(files, func(x, y *ast.File) int {
		return cmp.Compare(fset.Position(x.Pos()).Filename, fset.Position(y.Pos()).Filename)
	})

	var defs []*definition
	for _, file := range files {
		if result.Package == "" && file.Name != nil {
			result.Package = file.Name.Name
		}
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				diags.Add(a.misplaced(d.Doc, d.Name.Name, d.Pos()))
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					diags.Add(a.misplaced(d.Doc, valueDeclName(d), d.Pos()))
					continue
				}
				if d.Lparen.IsValid() {
					diags.Add(a.groupDirective(d))
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					a.declared[ts.Name.Name] = ts.Type
					doc := ts.Doc
					if doc == nil && !d.Lparen.IsValid() {
						doc = d.Doc
					}
					def, dg := a.definition(ts, doc)
					if dg != nil {
						diags.Add(dg)
						continue
					}
					if def != nil {
						defs = append(defs, def)
					}
				}
			}
		}
	}

	// Roots first, so that paths may refer to roots declared later in the package.
	roots := RootIndex{}
	for _, def := range defs {
		if def.directive.Name != directiveRoot {
			continue
		}
		root, dg := a.analyzeRoot(def)
		if dg != nil {
			diags.Add(dg)
			continue
		}
		roots[root.Name] = append(roots[root.Name], root)
		result.Roots = append(result.Roots, root)
	}

	generated := map[string]string{}
	claim := func(typeName, owner string, pos token.Position) *diag.Diagnostic {
		if prev, ok := generated[typeName]; ok {
			return diag.New(diag.Structural, pos, owner, "", "generated type %s is also generated for %s", typeName, prev).
				WithHint("set name=<Type> on one of the definitions")
		}
		if _, ok := a.declared[typeName]; ok {
			return diag.New(diag.Structural, pos, owner, "", "generated type %s collides with a type declared in package %s", typeName, result.Package).
				WithHint("set name=<Type> to pick another name")
		}
		generated[typeName] = owner
		return nil
	}

	for _, def := range defs {
		switch def.directive.Name {
		case directivePath:
			spec, dg := a.analyzePath(def, roots)
			if dg == nil {
				dg = claim(spec.TypeName, spec.Name, spec.Pos)
			}
			if dg != nil {
				slog.Debug("path definition rejected", "name", def.name(), "kind", dg.Kind)
				diags.Add(dg)
				continue
			}
			slog.Debug("path definition accepted", "name", spec.Name, "type", spec.TypeName, "category", spec.Category, "segments", len(spec.Segments))
			result.Paths = append(result.Paths, spec)
		case directiveArgs:
			spec, dg := a.analyzeArgs(def)
			if dg == nil {
				dg = claim(spec.TypeName, spec.Name, spec.Pos)
			}
			if dg != nil {
				slog.Debug("args definition rejected", "name", def.name(), "kind", dg.Kind)
				diags.Add(dg)
				continue
			}
			slog.Debug("args definition accepted", "name", spec.Name, "type", spec.TypeName, "fields", len(spec.Fields))
			result.Args = append(result.Args, spec)
		}
	}
	return result, diags
}

// definition extracts the single buildgen directive of a type declaration.
// It returns (nil, nil) for declarations without directives.
func (a *analyzer) definition(ts *ast.TypeSpec, doc *ast.CommentGroup) (*definition, *diag.Diagnostic) {
	name := ts.Name.Name
	directives, err := astutils.ParseDirectives(doc)
	if err != nil {
		return nil, diag.New(diag.AnnotationSyntax, a.fset.Position(ts.Pos()), name, "", "%v", err)
	}
	if len(directives) == 0 {
		return nil, nil
	}
	for _, d := range directives {
		switch d.Name {
		case directiveRoot, directivePath, directiveArgs:
		default:
			return nil, diag.New(diag.AnnotationSyntax, a.fset.Position(d.Comment.Pos()), name, "",
				"unknown directive //buildgen:%s", d.Name).
				WithHint("use //buildgen:root, //buildgen:path or //buildgen:args")
		}
	}
	if len(directives) > 1 {
		return nil, diag.New(diag.Structural, a.fset.Position(directives[1].Comment.Pos()), name, "",
			"%s carries both //buildgen:%s and //buildgen:%s; a type can define only one thing",
			name, directives[0].Name, directives[1].Name)
	}
	return &definition{directive: directives[0], spec: ts, doc: doc}, nil
}

// misplaced reports a directive written on something other than a type declaration.
func (a *analyzer) misplaced(doc *ast.CommentGroup, name string, pos token.Pos) *diag.Diagnostic {
	if doc == nil {
		return nil
	}
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, astutils.DirectivePrefix) {
			return diag.New(diag.Structural, a.fset.Position(pos), name, "",
				"%s is not a type declaration and cannot be annotated", name)
		}
	}
	return nil
}

// groupDirective reports a directive written on a parenthesized type group,
// where it would otherwise apply to none of the types.
func (a *analyzer) groupDirective(d *ast.GenDecl) *diag.Diagnostic {
	if d.Doc == nil {
		return nil
	}
	name := "type"
	if len(d.Specs) > 0 {
		name = d.Specs[0].(*ast.TypeSpec).Name.Name
	}
	for _, c := range d.Doc.List {
		if strings.HasPrefix(c.Text, astutils.DirectivePrefix) {
			return diag.New(diag.Structural, a.fset.Position(c.Pos()), name, "",
				"directive on a grouped type declaration applies to none of its types").
				WithHint("move it onto the doc comment of one type in the group")
		}
	}
	return nil
}

// stringKinded reports whether values of the type expr convert to and from
// string. Types declared outside the analyzed files are assumed to.
func (a *analyzer) stringKinded(expr ast.Expr) bool {
	seen := map[string]bool{}
	for {
		switch t := expr.(type) {
		case *ast.Ident:
			under, ok := a.declared[t.Name]
			if !ok {
				if obj, ok := types.Universe.Lookup(t.Name).(*types.TypeName); ok {
					return obj.Name() == "string"
				}
				return true
			}
			if seen[t.Name] {
				return false
			}
			seen[t.Name] = true
			expr = under
		case *ast.ParenExpr:
			expr = t.X
		case *ast.SelectorExpr:
			return true
		default:
			return false
		}
	}
}

func valueDeclName(d *ast.GenDecl) string {
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.ValueSpec:
			if len(s.Names) > 0 {
				return s.Names[0].Name
			}
		case *ast.ImportSpec:
			return "import"
		}
	}
	return d.Tok.String()
}

func (a *analyzer) rejectBareArgs(def *definition) *diag.Diagnostic {
	d := def.directive
	if len(d.Bare) == 0 {
		return nil
	}
	return diag.New(diag.AnnotationSyntax, a.fset.Position(d.Comment.Pos()), def.name(), "",
		"unexpected argument %q in //buildgen:%s", d.Bare[0], d.Name).
		WithHint("arguments are written as key=value")
}

func (a *analyzer) rejectUnknownKeys(def *definition, allowed ...string) *diag.Diagnostic {
	d := def.directive
	for _, k := range d.Keys {
		if !slices.Contains(allowed, k) {
			return diag.New(diag.AnnotationSyntax, a.fset.Position(d.Comment.Pos()), def.name(), "",
				"unknown argument %q in //buildgen:%s", k, d.Name).
				WithHint("expected one of %s", strings.Join(allowed, ", "))
		}
	}
	return nil
}

// structType returns the struct body of a definition or a Structural diagnostic.
func (a *analyzer) structType(def *definition) (*ast.StructType, *diag.Diagnostic) {
	pos := a.fset.Position(def.spec.Pos())
	if def.spec.TypeParams != nil && len(def.spec.TypeParams.List) > 0 {
		return nil, diag.New(diag.Structural, pos, def.name(), "",
			"//buildgen:%s cannot annotate generic type %s", def.directive.Name, def.name())
	}
	st, ok := def.spec.Type.(*ast.StructType)
	if !ok {
		return nil, diag.New(diag.Structural, pos, def.name(), "",
			"//buildgen:%s must annotate a struct type, %s is %s", def.directive.Name, def.name(), exprString(def.spec.Type))
	}
	return st, nil
}

// hasField reports whether st declares a field called name, which would
// collide with a generated method of the same name.
func hasField(st *ast.StructType, name string) bool {
	for _, f := range st.Fields.List {
		for _, n := range f.Names {
			if n.Name == name {
				return true
			}
		}
	}
	return false
}

// fieldPos locates a field at its tag when it has one, otherwise at its name.
func (a *analyzer) fieldPos(field *ast.Field, ident *ast.Ident) token.Position {
	if field.Tag != nil {
		return a.fset.Position(field.Tag.Pos())
	}
	if ident != nil {
		return a.fset.Position(ident.Pos())
	}
	return a.fset.Position(field.Pos())
}
