package astutils

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
)

func parseAndFindFirstFuncArgType(t *testing.T, code string, funcName string) ast.Expr {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", code, 0)
	if err != nil {
		t.Fatalf("Failed to parse code: %v", err)
	}
	var targetExpr ast.Expr
	ast.Inspect(f, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FuncDecl); ok && fn.Name.Name == funcName {
			if fn.Type.Params != nil && len(fn.Type.Params.List) > 0 {
				targetExpr = fn.Type.Params.List[0].Type
				return false
			}
		}
		return true
	})
	if targetExpr == nil {
		t.Fatalf("Could not find func %s or its first argument type", funcName)
	}
	return targetExpr
}

func TestExprToTypeName(t *testing.T) {
	testCases := []struct {
		name     string
		code     string
		funcName string
		expected string
	}{
		{"Ident", `package main; type MyType string; func T(a MyType){}`, "T", "MyType"},
		{"StarExpr", `package main; type MyType string; func T(a *MyType){}`, "T", "*MyType"},
		{"SelectorExpr", `package main; import "io"; func T(a io.Reader){}`, "T", "io.Reader"},
		{"ArrayTypeSlice", `package main; type MyType string; func T(a []MyType){}`, "T", "[]MyType"},
		{"ArrayTypePointerSlice", `package main; type MyType string; func T(a []*MyType){}`, "T", "[]*MyType"},
		{"MapType", `package main; func T(a map[string]int){}`, "T", "map[string]int"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expr := parseAndFindFirstFuncArgType(t, tc.code, tc.funcName)
			actual := ExprToTypeName(expr)
			if actual != tc.expected {
				t.Errorf("Expected type name '%s', got '%s'", tc.expected, actual)
			}
		})
	}
}

func TestIsPointerType(t *testing.T) {
	codeIsPtr := `package main; type MyType int; func PtrFunc(a *MyType){}`
	codeIsNotPtr := `package main; type MyType int; func NonPtrFunc(a MyType){}`

	exprIsPtr := parseAndFindFirstFuncArgType(t, codeIsPtr, "PtrFunc")
	if !IsPointerType(exprIsPtr) {
		t.Error("Expected IsPointerType to be true for *MyType")
	}

	exprIsNotPtr := parseAndFindFirstFuncArgType(t, codeIsNotPtr, "NonPtrFunc")
	if IsPointerType(exprIsNotPtr) {
		t.Error("Expected IsPointerType to be false for MyType")
	}
}

func parseDoc(t *testing.T, code string) *ast.CommentGroup {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "test.go", code, parser.ParseComments)
	if err != nil {
		t.Fatalf("Failed to parse code: %v", err)
	}
	gd, ok := f.Decls[0].(*ast.GenDecl)
	if !ok {
		t.Fatalf("Expected a GenDecl, got %T", f.Decls[0])
	}
	return gd.Doc
}

func TestParseDirectives(t *testing.T) {
	code := `package p

// SourceDir is where sources live.
//buildgen:path category=root root=project name=SrcPath
//buildgen:root project
type SourceDir struct{}
`
	directives, err := ParseDirectives(parseDoc(t, code))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(directives) != 2 {
		t.Fatalf("Expected 2 directives, got %d", len(directives))
	}

	path := directives[0]
	if path.Name != "path" {
		t.Errorf("Expected directive name 'path', got %q", path.Name)
	}
	if got := strings.Join(path.Keys, ","); got != "category,root,name" {
		t.Errorf("Expected keys in written order, got %q", got)
	}
	if path.Args["root"] != "project" || path.Args["name"] != "SrcPath" {
		t.Errorf("Unexpected args: %v", path.Args)
	}

	root := directives[1]
	if len(root.Bare) != 1 || root.Bare[0] != "project" {
		t.Errorf("Expected bare argument 'project', got %v", root.Bare)
	}
}

func TestParseDirectivesErrors(t *testing.T) {
	testCases := []struct {
		name string
		code string
	}{
		{"Empty", "package p\n\n//buildgen:\ntype T struct{}\n"},
		{"NoKey", "package p\n\n//buildgen:path =absolute\ntype T struct{}\n"},
		{"Duplicated", "package p\n\n//buildgen:path category=absolute category=relative\ntype T struct{}\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseDirectives(parseDoc(t, tc.code)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestDocWithoutDirectives(t *testing.T) {
	code := `package p

// Compile drives the compiler.
//
//go:generate buildgen emit
//buildgen:args command=cc
type Compile struct{}
`
	if got := DocWithoutDirectives(parseDoc(t, code)); got != "Compile drives the compiler." {
		t.Errorf("Unexpected doc %q", got)
	}
}

func TestBuiltinScalar(t *testing.T) {
	testCases := []struct {
		typeName string
		kind     ScalarKind
		bits     int
	}{
		{"string", StringKind, 0},
		{"bool", BoolKind, 0},
		{"int", IntKind, 0},
		{"int32", IntKind, 32},
		{"uint8", UintKind, 8},
		{"float64", FloatKind, 64},
		{"Mode", NotScalar, 0},
		{"time.Duration", NotScalar, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.typeName, func(t *testing.T) {
			if got := BuiltinScalar(tc.typeName); got != tc.kind {
				t.Errorf("Expected kind %d, got %d", tc.kind, got)
			}
			if got := BitSize(tc.typeName); got != tc.bits {
				t.Errorf("Expected bit size %d, got %d", tc.bits, got)
			}
		})
	}
}
