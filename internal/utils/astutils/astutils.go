package astutils

import (
	"fmt"
	"go/ast"
	"strings"
)

// DirectivePrefix starts every buildgen annotation comment.
const DirectivePrefix = "//buildgen:"

// Directive is one `//buildgen:<name> args...` comment line.
type Directive struct {
	Name    string            // e.g. "path", "args", "root"
	Args    map[string]string // key=value arguments
	Keys    []string          // argument keys in written order
	Bare    []string          // arguments without '=' (e.g. the root name in `//buildgen:root project`)
	Comment *ast.Comment
}

// ParseDirectives extracts buildgen directives from a comment group.
// A malformed argument (e.g. `=value`) is reported as an error.
func ParseDirectives(doc *ast.CommentGroup) ([]*Directive, error) {
	if doc == nil {
		return nil, nil
	}
	var directives []*Directive
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, DirectivePrefix) {
			continue
		}
		body := strings.TrimPrefix(c.Text, DirectivePrefix)
		fields := strings.Fields(body)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty directive %q", c.Text)
		}
		d := &Directive{Name: fields[0], Args: map[string]string{}, Comment: c}
		for _, f := range fields[1:] {
			key, value, hasEq := strings.Cut(f, "=")
			if !hasEq {
				d.Bare = append(d.Bare, f)
				continue
			}
			if key == "" {
				return nil, fmt.Errorf("directive %q: argument %q has no key", c.Text, f)
			}
			if _, dup := d.Args[key]; dup {
				return nil, fmt.Errorf("directive %q: argument %q given twice", c.Text, key)
			}
			d.Args[key] = value
			d.Keys = append(d.Keys, key)
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// DocWithoutDirectives returns the doc comment text with directive lines removed.
func DocWithoutDirectives(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	var lines []string
	for _, c := range doc.List {
		if strings.HasPrefix(c.Text, DirectivePrefix) || strings.HasPrefix(c.Text, "//go:") {
			continue
		}
		text := strings.TrimPrefix(c.Text, "//")
		lines = append(lines, strings.TrimSpace(text))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FieldComment prefers the doc comment above a field over its trailing comment.
func FieldComment(field *ast.Field) string {
	if field.Doc != nil {
		if text := strings.TrimSpace(field.Doc.Text()); text != "" {
			return text
		}
	}
	if field.Comment != nil {
		return strings.TrimSpace(field.Comment.Text())
	}
	return ""
}

// ExprToTypeName converts an ast.Expr (representing a type) to its string representation.
func ExprToTypeName(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr: // For types like `pkg.Type`
		return fmt.Sprintf("%s.%s", ExprToTypeName(t.X), t.Sel.Name)
	case *ast.StarExpr: // For pointer types like `*Type`
		return "*" + ExprToTypeName(t.X)
	case *ast.ArrayType:
		if t.Len != nil {
			return "[...]" + ExprToTypeName(t.Elt)
		}
		return "[]" + ExprToTypeName(t.Elt)
	case *ast.MapType:
		return fmt.Sprintf("map[%s]%s", ExprToTypeName(t.Key), ExprToTypeName(t.Value))
	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return "struct{}"
		}
		return "struct{...}"
	default:
		return fmt.Sprintf("<unsupported_type_expr: %T>", expr)
	}
}

// IsPointerType checks if an ast.Expr represents a pointer type.
func IsPointerType(expr ast.Expr) bool {
	_, ok := expr.(*ast.StarExpr)
	return ok
}

// SliceElem returns the element type of a slice type expression, or nil.
func SliceElem(expr ast.Expr) ast.Expr {
	if at, ok := expr.(*ast.ArrayType); ok && at.Len == nil {
		return at.Elt
	}
	return nil
}

// ScalarKind is the kind of a predeclared scalar type.
type ScalarKind int

const (
	NotScalar ScalarKind = iota
	StringKind
	BoolKind
	IntKind
	UintKind
	FloatKind
)

var scalarKinds = map[string]ScalarKind{
	"string": StringKind,
	"bool":   BoolKind,
	"int":    IntKind, "int8": IntKind, "int16": IntKind, "int32": IntKind, "int64": IntKind,
	"uint": UintKind, "uint8": UintKind, "uint16": UintKind, "uint32": UintKind, "uint64": UintKind,
	"float32": FloatKind, "float64": FloatKind,
	"byte": UintKind, "rune": IntKind,
}

// BuiltinScalar reports the scalar kind of a predeclared type name.
func BuiltinScalar(typeName string) ScalarKind {
	return scalarKinds[typeName]
}

// BitSize returns the bit size used for strconv parsing of a numeric type
// name; 0 means the platform size.
func BitSize(typeName string) int {
	switch typeName {
	case "int8", "uint8", "byte":
		return 8
	case "int16", "uint16":
		return 16
	case "int32", "uint32", "rune", "float32":
		return 32
	case "int64", "uint64", "float64":
		return 64
	default:
		return 0
	}
}
