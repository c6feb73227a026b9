// Package layout reads path specs from declarative layout files instead of Go
// source. A layout declares roots and a tree of paths; children extend their
// parent's segments and inherit its category and root.
//
//	package: layout
//	roots:
//	  - {name: project, type: ProjectRoot}
//	paths:
//	  - name: SourceDir
//	    category: root
//	    root: project
//	    segments: [{name: src}, {name: pkg, kind: dynamic}]
//	    children:
//	      - name: MainFile
//	        segments: [{name: main, text: main.go}]
//
// YAML, TOML and CUE documents are all checked against the same embedded CUE
// schema before the semantic checks shared with the Go source analyzer run.
package layout

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// schemaDefinition is the root definition documents are unified with.
const schemaDefinition = "#Layout"

// ErrSchema marks documents that do not match the layout schema.
var ErrSchema = errors.New("layout does not match schema")

// Format is the syntax of a layout file.
type Format int

const (
	YAML Format = iota + 1
	TOML
	CUE
)

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	case CUE:
		return "cue"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".cue":
		return CUE, nil
	}
	return 0, errors.WithHint(
		errors.Newf("unsupported layout file %s", path),
		"use a .yaml, .yml, .toml or .cue file",
	)
}

// Document is a decoded layout file.
type Document struct {
	Package string `json:"package"`
	Roots   []Root `json:"roots,omitempty"`
	Paths   []Node `json:"paths,omitempty"`
}

// Root declares a named root; its type is emitted as `type <Type> string`.
type Root struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Node is one path spec and its children.
type Node struct {
	Name     string    `json:"name"`
	Type     string    `json:"type,omitempty"`
	Doc      string    `json:"doc,omitempty"`
	Category string    `json:"category,omitempty"`
	Root     string    `json:"root,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	Children []Node    `json:"children,omitempty"`
}

// Segment is a literal (default) or dynamic path element.
type Segment struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"` // literal text, defaults to Name
	Type string `json:"type,omitempty"` // parameter type of a dynamic segment, defaults to string
}

// ReadFile reads and decodes the layout file at path.
func ReadFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading layout %s", path)
	}
	return Decode(data, format, path)
}

// Decode parses data in the given format and validates it against the
// layout schema.
func Decode(data []byte, format Format, filename string) (*Document, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, errors.Wrap(err, "internal error: compiling layout schema")
	}
	def := schema.LookupPath(cue.ParsePath(schemaDefinition))
	if err := def.Err(); err != nil {
		return nil, errors.Wrapf(err, "internal error: schema definition %s not found", schemaDefinition)
	}

	var value cue.Value
	switch format {
	case CUE:
		value = ctx.CompileBytes(data, cue.Filename(filename))
	case YAML:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", filename)
		}
		value = ctx.Encode(raw)
	case TOML:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", filename)
		}
		value = ctx.Encode(raw)
	default:
		return nil, errors.Newf("unknown layout format %d", int(format))
	}
	if err := value.Err(); err != nil {
		return nil, errors.Wrapf(formatCUEError(err), "parsing %s", filename)
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.Mark(errors.Wrapf(formatCUEError(err), "%s", filename), ErrSchema)
	}
	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return nil, errors.Mark(errors.Wrapf(formatCUEError(err), "%s", filename), ErrSchema)
	}
	slog.Debug("layout decoded", "file", filename, "format", format, "roots", len(doc.Roots), "paths", len(doc.Paths))
	return &doc, nil
}

// formatCUEError flattens CUE errors into "path: message" lines.
func formatCUEError(err error) error {
	list := cueerrors.Errors(err)
	if len(list) == 0 {
		return err
	}
	lines := make([]string, 0, len(list))
	for _, e := range list {
		path := strings.Join(cueerrors.Path(e), ".")
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path != "" {
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	return errors.Newf("%s", strings.Join(lines, "; "))
}
