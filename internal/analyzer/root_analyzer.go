package analyzer

import (
	"go/ast"
	"go/token"
	"strings"

	"github.com/podhmo/buildgen/internal/diag"
	"github.com/podhmo/buildgen/internal/metadata"
)

// RootIndex maps a root name to every type declaring it.
type RootIndex map[string][]*metadata.RootDecl

// resolve finds the single root named name.
func (idx RootIndex) resolve(name string) (*metadata.RootDecl, []*metadata.RootDecl) {
	decls := idx[name]
	if len(decls) == 1 {
		return decls[0], nil
	}
	return nil, decls
}

func (idx RootIndex) names() []string {
	var names []string
	for name := range idx {
		names = append(names, name)
	}
	return names
}

// analyzeRoot reads `//buildgen:root <name>` on a string-kinded named type,
// e.g. `type ProjectRoot string`.
func (a *analyzer) analyzeRoot(def *definition) (*metadata.RootDecl, *diag.Diagnostic) {
	d := def.directive
	pos := a.fset.Position(def.spec.Pos())

	ident, ok := def.spec.Type.(*ast.Ident)
	if !ok || ident.Name != "string" {
		return nil, diag.New(diag.Structural, pos, def.name(), "",
			"//buildgen:root must annotate a string type, found %s", exprString(def.spec.Type)).
			WithHint("declare the root as `type %s string`", def.name())
	}
	if dg := a.rejectUnknownKeys(def, "name"); dg != nil {
		return nil, dg
	}

	name, hasName := d.Args["name"]
	switch {
	case hasName && len(d.Bare) > 0:
		return nil, diag.New(diag.AnnotationSyntax, a.fset.Position(d.Comment.Pos()), def.name(), "",
			"root name given twice (%q and name=%q)", d.Bare[0], name)
	case !hasName && len(d.Bare) == 1:
		name = d.Bare[0]
	case len(d.Bare) > 1:
		return nil, diag.New(diag.AnnotationSyntax, a.fset.Position(d.Comment.Pos()), def.name(), "",
			"//buildgen:root takes a single name, got %s", strings.Join(d.Bare, " "))
	}
	if name == "" {
		return nil, diag.New(diag.AnnotationSyntax, a.fset.Position(d.Comment.Pos()), def.name(), "",
			"//buildgen:root requires a root name").
			WithHint("write //buildgen:root <name>")
	}
	if !token.IsIdentifier(name) {
		return nil, diag.New(diag.AnnotationSyntax, a.fset.Position(d.Comment.Pos()), def.name(), "",
			"root name %q must be an identifier", name)
	}
	return &metadata.RootDecl{Name: name, TypeName: def.name(), Pos: pos}, nil
}

func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StructType:
		return "a struct"
	case *ast.InterfaceType:
		return "an interface"
	case *ast.FuncType:
		return "a func type"
	case *ast.Ident:
		return t.Name
	}
	return "an unsupported type"
}
