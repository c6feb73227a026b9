package analyzer

import (
	"go/ast"
	"go/token"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/podhmo/buildgen/internal/casing"
	"github.com/podhmo/buildgen/internal/diag"
	"github.com/podhmo/buildgen/internal/metadata"
	"github.com/podhmo/buildgen/internal/utils/astutils"
)

// analyzeArgs validates a `//buildgen:args` definition:
//
//	type Compile struct {
//		Input   string `arg:"positional"`
//		Output  string `arg:"flag,name=-o"`
//		Verbose bool   // switch, emitted as --verbose
//	}
func (a *analyzer) analyzeArgs(def *definition) (*metadata.ArgSpec, *diag.Diagnostic) {
	name := def.name()
	d := def.directive
	dpos := a.fset.Position(d.Comment.Pos())

	st, dg := a.structType(def)
	if dg != nil {
		return nil, dg
	}

	if dg := a.rejectBareArgs(def); dg != nil {
		return nil, dg
	}
	if dg := a.rejectUnknownKeys(def, "name", "command"); dg != nil {
		return nil, dg
	}
	typeName := name + a.opts.ArgsSuffix
	if n, ok := d.Args["name"]; ok {
		if !token.IsIdentifier(n) || !token.IsExported(n) {
			return nil, diag.New(diag.AnnotationSyntax, dpos, name, "", "name=%q is not an exported Go identifier", n)
		}
		typeName = n
	}
	command := casing.ToKebabCase(name)
	if c, ok := d.Args["command"]; ok {
		if c == "" {
			return nil, diag.New(diag.AnnotationSyntax, dpos, name, "", "command= is empty")
		}
		command = c
	}

	spec := &metadata.ArgSpec{
		Name:       name,
		TypeName:   typeName,
		Command:    command,
		Doc:        astutils.DocWithoutDirectives(def.doc),
		FromSchema: !hasField(st, "Args"),
		Pos:        a.fset.Position(def.spec.Pos()),
	}
	for _, field := range st.Fields.List {
		fields, dg := a.argFields(name, field, len(spec.Fields))
		if dg != nil {
			return nil, dg
		}
		spec.Fields = append(spec.Fields, fields...)
	}

	if dg := CheckArgFields(spec); dg != nil {
		return nil, dg
	}
	return spec, nil
}

// argFields reads the argument fields declared by one struct field.
func (a *analyzer) argFields(def string, field *ast.Field, index int) ([]metadata.ArgField, *diag.Diagnostic) {
	typeName := astutils.ExprToTypeName(field.Type)
	if len(field.Names) == 0 {
		return nil, diag.New(diag.AnnotationSyntax, a.fieldPos(field, nil), def, typeName,
			"embedded field %s cannot be an argument", typeName)
	}
	tag, err := lookupTag(field, "arg")
	if err != nil {
		return nil, diag.New(diag.AnnotationSyntax, a.fieldPos(field, field.Names[0]), def, field.Names[0].Name, "%v", err)
	}
	if tag.Skip() {
		return nil, nil
	}

	var out []metadata.ArgField
	for _, ident := range field.Names {
		if !ident.IsExported() {
			continue
		}
		pos := a.fieldPos(field, ident)
		fail := func(format string, args ...any) *diag.Diagnostic {
			return diag.New(diag.AnnotationSyntax, pos, def, ident.Name, format, args...)
		}

		f := metadata.ArgField{
			Field:    ident.Name,
			GoType:   typeName,
			HelpText: astutils.FieldComment(field),
			Index:    index + len(out),
			Pos:      pos,
		}
		if elem := astutils.SliceElem(field.Type); elem != nil {
			f.Repeated = true
			f.ElemType = astutils.ExprToTypeName(elem)
			if !isPlainType(elem) {
				return nil, fail("unsupported element type %s for field %s", f.ElemType, ident.Name)
			}
		} else if !isPlainType(field.Type) {
			return nil, fail("unsupported type %s for field %s", typeName, ident.Name).
				WithHint("use a named or builtin type, or a slice of one")
		}

		kind := ""
		if tag != nil {
			kind = tag.Kind
		}
		switch kind {
		case "positional":
			f.Kind = metadata.Positional
		case "switch":
			f.Kind = metadata.Switch
		case "flag":
			f.Kind = metadata.Valued
		case "":
			if typeName == "bool" {
				f.Kind = metadata.Switch
			} else {
				f.Kind = metadata.Valued
			}
		default:
			return nil, fail("unknown argument kind %q", kind).
				WithHint("use positional, switch, flag or -")
		}
		if f.Kind == metadata.Switch && typeName != "bool" {
			return nil, fail("switch %s must be bool, found %s", ident.Name, typeName)
		}

		if f.Kind != metadata.Positional {
			f.FlagName = a.opts.FlagPrefix + casing.Convert(ident.Name, casing.Pascal, a.opts.FlagStyle)
		}
		if tag != nil {
			for _, k := range tag.Keys {
				v := tag.Opts[k]
				switch k {
				case "name":
					if f.Kind == metadata.Positional {
						return nil, fail("positional %s cannot have a flag name", ident.Name)
					}
					if v == "" || strings.IndexFunc(v, unicode.IsSpace) >= 0 {
						return nil, fail("flag name %q must be non-empty and contain no spaces", v)
					}
					f.FlagName = v
				case "order":
					n, err := strconv.Atoi(v)
					if err != nil || n < 0 {
						return nil, fail("order=%q is not a non-negative integer", v)
					}
					f.Order = &n
				case "default":
					f.Default = &v
				default:
					return nil, fail("unknown arg option %q", k).
						WithHint("arg options are name=, order= and default=")
				}
			}
		}
		out = append(out, f)
	}
	return out, nil
}

// isPlainType accepts identifiers and qualified identifiers (string, Mode, time.Duration).
func isPlainType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := t.X.(*ast.Ident)
		return ok
	}
	return false
}

// CheckArgFields runs the cross-field checks of an argument spec in
// declaration order: flag name uniqueness, order index uniqueness within
// positionals and within flags, and default value validity.
func CheckArgFields(spec *metadata.ArgSpec) *diag.Diagnostic {
	flagOwners := map[string]string{}
	positionalOrders := map[int]string{}
	flagOrders := map[int]string{}
	for _, f := range spec.Fields {
		if f.Kind != metadata.Positional {
			if owner, dup := flagOwners[f.FlagName]; dup {
				return diag.New(diag.ConflictingFlagName, f.Pos, spec.Name, f.Field,
					"flag %s is already used by field %s", f.FlagName, owner).
					WithHint("give one of the fields another name=")
			}
			flagOwners[f.FlagName] = f.Field
		}
		if f.Order != nil {
			orders := flagOrders
			if f.Kind == metadata.Positional {
				orders = positionalOrders
			}
			if owner, dup := orders[*f.Order]; dup {
				return diag.New(diag.DuplicateOrder, f.Pos, spec.Name, f.Field,
					"order=%d is already used by field %s", *f.Order, owner)
			}
			orders[*f.Order] = f.Field
		}
		if f.Default != nil {
			if err := CheckDefault(f); err != nil {
				return diag.New(diag.InvalidDefault, f.Pos, spec.Name, f.Field, "%v", err)
			}
		}
	}
	return nil
}

// CheckDefault reports whether the default literal of f can be represented
// in the field's type. Only builtin scalar types accept defaults.
func CheckDefault(f metadata.ArgField) error {
	value := *f.Default
	if f.Repeated {
		return errors.Newf("field %s is repeated and cannot have a default", f.Field)
	}
	switch astutils.BuiltinScalar(f.GoType) {
	case astutils.StringKind:
		return nil
	case astutils.BoolKind:
		if value != "true" && value != "false" {
			return errors.Newf("default %q of %s is not true or false", value, f.Field)
		}
	case astutils.IntKind:
		if _, err := strconv.ParseInt(value, 10, bits(f.GoType)); err != nil {
			return errors.Newf("default %q of %s is not a valid %s", value, f.Field, f.GoType)
		}
	case astutils.UintKind:
		if _, err := strconv.ParseUint(value, 10, bits(f.GoType)); err != nil {
			return errors.Newf("default %q of %s is not a valid %s", value, f.Field, f.GoType)
		}
	case astutils.FloatKind:
		v, err := strconv.ParseFloat(value, bits(f.GoType))
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return errors.Newf("default %q of %s is not a valid %s", value, f.Field, f.GoType)
		}
	default:
		return errors.Newf("field %s has type %s; defaults are only supported on builtin scalar types", f.Field, f.GoType)
	}
	return nil
}

func bits(typeName string) int {
	if n := astutils.BitSize(typeName); n != 0 {
		return n
	}
	return 64
}
