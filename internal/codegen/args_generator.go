package codegen

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/podhmo/buildgen/internal/casing"
	"github.com/podhmo/buildgen/internal/help"
	"github.com/podhmo/buildgen/internal/metadata"
)

// GenerateArgsType renders the builder type of one argument spec.
//
// The builder holds one unexported field per argument field (plus a "set"
// marker for valued flags), chainable setters, and a Finalize method that
// emits positionals first and flags second, each group in effective order.
func GenerateArgsType(spec *metadata.ArgSpec) string {
	vars := fieldVars(spec)
	byField := make(map[string]FieldVar, len(vars))
	for _, v := range vars {
		byField[v.Field] = v
	}
	t := spec.TypeName

	var sb strings.Builder

	// type declaration
	writeDoc(&sb, t, spec.Doc, fmt.Sprintf("%s builds the command line of %s.", t, spec.Command))
	fmt.Fprintf(&sb, "type %s struct {\n", t)
	for _, v := range vars {
		sb.WriteString(GetFieldHandler(v.ArgField).GenerateFieldDeclarationCode(v).Declarations)
	}
	sb.WriteString("}\n\n")

	// constructor applying defaults
	fmt.Fprintf(&sb, "// New%s returns a builder with every default applied.\n", t)
	fmt.Fprintf(&sb, "func New%s() *%s {\n", t, t)
	fmt.Fprintf(&sb, "\tb := &%s{}\n", t)
	for _, v := range vars {
		sb.WriteString(GetFieldHandler(v.ArgField).GenerateDefaultValueInitializationCode(v, "b").Logic)
	}
	sb.WriteString("\treturn b\n}\n\n")

	// setters, in declaration order
	for _, v := range vars {
		if code := GetFieldHandler(v.ArgField).GenerateSetterCode(v, t).Declarations; code != "" {
			sb.WriteString(code)
			sb.WriteString("\n")
		}
	}

	if spec.FromSchema {
		fmt.Fprintf(&sb, "// Args returns a %s holding every non-zero field of s.\n", t)
		if slices.ContainsFunc(spec.Fields, func(f metadata.ArgField) bool { return f.Default != nil }) {
			fmt.Fprintf(&sb, "// Zero fields are skipped, so the defaults of New%s stay in effect;\n", t)
			sb.WriteString("// use the setters to turn a default switch off or to zero a defaulted flag.\n")
		}
		fmt.Fprintf(&sb, "func (s %s) Args() *%s {\n", spec.Name, t)
		fmt.Fprintf(&sb, "\tb := New%s()\n", t)
		for _, v := range vars {
			sb.WriteString(GetFieldHandler(v.ArgField).GenerateSchemaAssignmentCode(v, "s", "b").Logic)
		}
		sb.WriteString("\treturn b\n}\n\n")
	}

	// finalize
	positionals := spec.Positionals()
	flags := spec.Flags()
	sb.WriteString("// Finalize renders the arguments, excluding the program name.\n")
	fmt.Fprintf(&sb, "func (b *%s) Finalize() buildgen.Tokens {\n", t)
	fmt.Fprintf(&sb, "\ttokens := make(buildgen.Tokens, 0, %d)\n", tokenCapacity(positionals, flags))
	for _, f := range positionals {
		v := byField[f.Field]
		sb.WriteString(GetFieldHandler(v.ArgField).GenerateFinalizeCode(v, "b", "tokens").Logic)
	}
	for _, f := range flags {
		v := byField[f.Field]
		sb.WriteString(GetFieldHandler(v.ArgField).GenerateFinalizeCode(v, "b", "tokens").Logic)
	}
	sb.WriteString("\treturn tokens\n}\n\n")

	sb.WriteString("// Command returns the program name shown in the usage text.\n")
	fmt.Fprintf(&sb, "func (b *%s) Command() string {\n\treturn %s\n}\n\n", t, strconv.Quote(spec.Command))

	fmt.Fprintf(&sb, "// Usage returns the help text of %s.\n", spec.Command)
	fmt.Fprintf(&sb, "func (b *%s) Usage() string {\n\treturn %s\n}\n", t, stringLiteral(help.GenerateHelp(spec)))
	return sb.String()
}

// fieldVars assigns builder field names in declaration order.
func fieldVars(spec *metadata.ArgSpec) []FieldVar {
	names := nameSet{}
	vars := make([]FieldVar, len(spec.Fields))
	for i := range spec.Fields {
		f := &spec.Fields[i]
		vars[i] = FieldVar{ArgField: f, Var: names.take(localName(f.Field))}
	}
	for i := range vars {
		if tracksSet(vars[i].ArgField) {
			vars[i].SetVar = names.take(vars[i].Var + "Set")
		}
	}
	return vars
}

func tokenCapacity(positionals, flags []metadata.ArgField) int {
	n := 0
	for _, f := range positionals {
		if !f.Repeated {
			n++
		}
	}
	for _, f := range flags {
		switch {
		case f.Repeated:
		case f.Kind == metadata.Switch:
			n++
		default:
			n += 2
		}
	}
	return n
}

func placeholder(f *metadata.ArgField) string {
	return "<" + casing.Convert(f.Field, casing.Pascal, casing.Kebab) + ">"
}

// stringLiteral prefers a raw string literal for readability.
func stringLiteral(s string) string {
	if strings.Contains(s, "`") || strings.Contains(s, "\r") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

// writeDoc writes a doc comment for name, falling back when doc is empty.
// A doc that does not start with name gets the fallback sentence first.
func writeDoc(sb *strings.Builder, name, doc, fallback string) {
	lines := []string{fallback}
	if doc != "" {
		lines = strings.Split(strings.TrimRight(doc, "\n"), "\n")
		if !strings.HasPrefix(doc, name+" ") {
			lines = append([]string{fallback, ""}, lines...)
		}
	}
	for _, l := range lines {
		if l == "" {
			sb.WriteString("//\n")
			continue
		}
		fmt.Fprintf(sb, "// %s\n", l)
	}
}
