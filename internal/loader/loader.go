// Package loader reads the Go files of the package buildgen is pointed at.
package loader

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/podhmo/buildgen/internal/codegen"
	"golang.org/x/tools/go/packages"
)

// Target is the set of files analyzed together, plus where their output goes.
type Target struct {
	Fset    *token.FileSet
	Files   []*ast.File
	Dir     string // Directory receiving the generated file
	Package string // Package name of the files
}

// Load resolves path, a package directory or a single .go file.
func Load(ctx context.Context, path string) (*Target, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	if info.IsDir() {
		return LoadDir(ctx, path)
	}

	fset := token.NewFileSet()
	file, err := LoadFile(fset, path)
	if err != nil {
		return nil, err
	}
	return &Target{Fset: fset, Files: []*ast.File{file}, Dir: filepath.Dir(path), Package: file.Name.Name}, nil
}

// LoadFile parses the given Go source file and returns its AST.
func LoadFile(fset *token.FileSet, filename string) (*ast.File, error) {
	slog.Debug("LoadFile: start", "filename", filename)
	defer slog.Debug("LoadFile: end", "filename", filename)

	file, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, &ParseError{Path: filename, Err: err}
	}
	return file, nil
}

// LoadDir loads the non-test files of the package in dir with go/packages.
// A file previously written by buildgen is left out, so that its types are
// not mistaken for hand-written declarations.
func LoadDir(ctx context.Context, dir string) (*Target, error) {
	slog.Debug("LoadDir: start", "dir", dir)
	defer slog.Debug("LoadDir: end", "dir", dir)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", dir)
	}
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:     abs,
		Fset:    fset,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			return parser.ParseFile(fset, filename, src, parser.ParseComments|parser.AllErrors)
		},
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, errors.Wrapf(err, "loading package in %s", dir)
	}
	if len(pkgs) == 0 {
		return nil, &PackageNotFoundError{Path: dir}
	}
	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		// list errors mean there is no package; parse errors make the ASTs unusable
		switch e.Kind {
		case packages.ListError:
			if len(pkg.GoFiles) == 0 {
				return nil, &PackageNotFoundError{Path: dir}
			}
			return nil, errors.Wrapf(errors.New(e.Msg), "loading package in %s", dir)
		case packages.ParseError:
			return nil, &ParseError{Path: e.Pos, Err: errors.New(e.Msg)}
		}
	}
	if len(pkg.Syntax) == 0 {
		return nil, &PackageNotFoundError{Path: dir}
	}

	target := &Target{Fset: fset, Dir: abs, Package: pkg.Name}
	for _, f := range pkg.Syntax {
		if IsGenerated(f) {
			slog.Debug("\tSkipping generated file", "file", fset.Position(f.Pos()).Filename)
			continue
		}
		target.Files = append(target.Files, f)
	}
	slices.SortFunc(target.Files, func(x, y *ast.File) int {
		return strings.Compare(fset.Position(x.Pos()).Filename, fset.Position(y.Pos()).Filename)
	})
	slog.Debug("\tLoaded package", "name", pkg.Name, "files", len(target.Files))
	return target, nil
}

// IsGenerated reports whether f was written by buildgen.
func IsGenerated(f *ast.File) bool {
	if len(f.Comments) == 0 || len(f.Comments[0].List) == 0 {
		return false
	}
	first := f.Comments[0].List[0]
	return first.Pos() < f.Package && first.Text == codegen.GeneratedHeader
}
