package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/podhmo/buildgen/internal/casing"
	"github.com/podhmo/buildgen/internal/metadata"
)

// GenerateHelp renders the usage text of an argument spec. The text is
// embedded into the generated builder's Usage method and printed by
// `buildgen describe`.
func GenerateHelp(spec *metadata.ArgSpec) string {
	if spec == nil {
		return "<error>"
	}

	var sb strings.Builder
	generateHelp(&sb, spec)
	return sb.String()
}

// UsageLine renders the one-line synopsis, listing tokens in the order
// Finalize emits them: positionals first, then flags.
func UsageLine(spec *metadata.ArgSpec) string {
	parts := []string{spec.Command}
	for _, f := range spec.Positionals() {
		p := "<" + placeholder(f) + ">"
		if f.Repeated {
			p += "..."
		}
		if f.Default != nil {
			p = "[" + p + "]"
		}
		parts = append(parts, p)
	}
	for _, f := range spec.Flags() {
		var p string
		switch {
		case f.Kind == metadata.Switch:
			p = "[" + f.FlagName + "]"
		case f.Repeated:
			p = fmt.Sprintf("[%s <%s>]...", f.FlagName, placeholder(f))
		default:
			p = fmt.Sprintf("[%s <%s>]", f.FlagName, placeholder(f))
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

func generateHelp(w io.Writer, spec *metadata.ArgSpec) {
	if spec.Doc != "" {
		fmt.Fprintf(w, "%s - %s\n\n", spec.Command, strings.ReplaceAll(spec.Doc, "\n", "\n"+strings.Repeat(" ", len(spec.Command)+3)))
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", UsageLine(spec))

	positionals := spec.Positionals()
	flags := spec.Flags()

	// Find max length of names for alignment across both sections
	maxNameLen := 0
	for _, f := range positionals {
		maxNameLen = max(maxNameLen, len(placeholder(f)))
	}
	for _, f := range flags {
		maxNameLen = max(maxNameLen, len(f.FlagName))
	}

	if len(positionals) > 0 {
		fmt.Fprintln(w, "\nArguments:")
		for _, f := range positionals {
			writeEntry(w, maxNameLen, placeholder(f), f)
		}
	}
	if len(flags) > 0 {
		fmt.Fprintln(w, "\nFlags:")
		for _, f := range flags {
			writeEntry(w, maxNameLen, f.FlagName, f)
		}
	}
}

func writeEntry(w io.Writer, width int, name string, f metadata.ArgField) {
	indicator := typeIndicator(f)
	helpText := strings.ReplaceAll(f.HelpText, "\n", "\n"+strings.Repeat(" ", width+14))
	if f.Default != nil {
		if f.GoType == "string" {
			helpText += fmt.Sprintf(" (default: %q)", *f.Default)
		} else {
			helpText += fmt.Sprintf(" (default: %s)", *f.Default)
		}
	}
	line := fmt.Sprintf("  %-*s %-10s %s", width, name, indicator, strings.TrimSpace(helpText))
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}

// typeIndicator mirrors the Go type of a field, pluralized for repeated fields.
func typeIndicator(f metadata.ArgField) string {
	if f.Kind == metadata.Switch {
		return ""
	}
	baseType := f.GoType
	if f.Repeated {
		baseType = f.ElemType
	}
	parts := strings.Split(baseType, ".")
	indicator := strings.ToLower(parts[len(parts)-1])
	if f.Repeated {
		indicator += "s"
	}
	return indicator
}

func placeholder(f metadata.ArgField) string {
	return casing.Convert(f.Field, casing.Pascal, casing.Kebab)
}
