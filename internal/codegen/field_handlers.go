package codegen

import (
	"fmt"
	"strconv"

	"github.com/podhmo/buildgen/internal/metadata"
)

// formatExpr renders the expression turning a value of goType into its
// command-line text.
func formatExpr(goType, expr string) string {
	if goType == "string" {
		return expr
	}
	return fmt.Sprintf("buildgen.FormatArg(%s)", expr)
}

// defaultLiteral renders a default as a Go literal of the field's type.
func defaultLiteral(f *metadata.ArgField) string {
	if f.GoType == "string" {
		return strconv.Quote(*f.Default)
	}
	return *f.Default
}

func scalarSetter(f FieldVar, builderTypeName, what string) FieldCodeSnippets {
	body := fmt.Sprintf("\tb.%s = v\n", f.Var)
	if f.SetVar != "" {
		body += fmt.Sprintf("\tb.%s = true\n", f.SetVar)
	}
	return FieldCodeSnippets{
		Declarations: fmt.Sprintf("// Set%s sets %s.\nfunc (b *%s) Set%s(v %s) *%s {\n%s\treturn b\n}\n",
			f.Field, what, builderTypeName, f.Field, f.GoType, builderTypeName, body),
	}
}

func sliceSetter(f FieldVar, builderTypeName, what string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Declarations: fmt.Sprintf("// Set%s replaces %s.\nfunc (b *%s) Set%s(v ...%s) *%s {\n\tb.%s = slices.Clone(v)\n\treturn b\n}\n",
			f.Field, what, builderTypeName, f.Field, f.ElemType, builderTypeName, f.Var),
	}
}

func nonZeroAssignment(f FieldVar, schemaVarName, builderVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\tif !buildgen.IsZero(%s.%s) {\n\t\t%s.Set%s(%s.%s)\n\t}\n",
			schemaVarName, f.Field, builderVarName, f.Field, schemaVarName, f.Field),
	}
}

func sliceAssignment(f FieldVar, schemaVarName, builderVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\tif len(%s.%s) > 0 {\n\t\t%s.Set%s(%s.%s...)\n\t}\n",
			schemaVarName, f.Field, builderVarName, f.Field, schemaVarName, f.Field),
	}
}

// PositionalHandler handles a single positional argument.
type PositionalHandler struct{}

func (h *PositionalHandler) GenerateFieldDeclarationCode(f FieldVar) FieldCodeSnippets {
	return FieldCodeSnippets{Declarations: fmt.Sprintf("\t%s %s\n", f.Var, f.GoType)}
}

func (h *PositionalHandler) GenerateSetterCode(f FieldVar, builderTypeName string) FieldCodeSnippets {
	return scalarSetter(f, builderTypeName, "the positional argument "+placeholder(f.ArgField))
}

func (h *PositionalHandler) GenerateDefaultValueInitializationCode(f FieldVar, builderVarName string) FieldCodeSnippets {
	if f.Default == nil {
		return FieldCodeSnippets{}
	}
	return FieldCodeSnippets{Logic: fmt.Sprintf("\t%s.%s = %s\n", builderVarName, f.Var, defaultLiteral(f.ArgField))}
}

func (h *PositionalHandler) GenerateSchemaAssignmentCode(f FieldVar, schemaVarName string, builderVarName string) FieldCodeSnippets {
	return nonZeroAssignment(f, schemaVarName, builderVarName)
}

func (h *PositionalHandler) GenerateFinalizeCode(f FieldVar, builderVarName string, tokensVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\t%s = append(%s, %s)\n", tokensVarName, tokensVarName, formatExpr(f.GoType, builderVarName+"."+f.Var)),
	}
}

// PositionalSliceHandler handles a positional argument that takes one token per element.
type PositionalSliceHandler struct{}

func (h *PositionalSliceHandler) GenerateFieldDeclarationCode(f FieldVar) FieldCodeSnippets {
	return FieldCodeSnippets{Declarations: fmt.Sprintf("\t%s %s\n", f.Var, f.GoType)}
}

func (h *PositionalSliceHandler) GenerateSetterCode(f FieldVar, builderTypeName string) FieldCodeSnippets {
	return sliceSetter(f, builderTypeName, "the positional arguments "+placeholder(f.ArgField))
}

func (h *PositionalSliceHandler) GenerateDefaultValueInitializationCode(f FieldVar, builderVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{} // slices carry no default
}

func (h *PositionalSliceHandler) GenerateSchemaAssignmentCode(f FieldVar, schemaVarName string, builderVarName string) FieldCodeSnippets {
	return sliceAssignment(f, schemaVarName, builderVarName)
}

func (h *PositionalSliceHandler) GenerateFinalizeCode(f FieldVar, builderVarName string, tokensVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\tfor _, v := range %s.%s {\n\t\t%s = append(%s, %s)\n\t}\n",
			builderVarName, f.Var, tokensVarName, tokensVarName, formatExpr(f.ElemType, "v")),
	}
}

// SwitchHandler handles a boolean flag, emitted only when true.
type SwitchHandler struct{}

func (h *SwitchHandler) GenerateFieldDeclarationCode(f FieldVar) FieldCodeSnippets {
	return FieldCodeSnippets{Declarations: fmt.Sprintf("\t%s %s\n", f.Var, f.GoType)}
}

func (h *SwitchHandler) GenerateSetterCode(f FieldVar, builderTypeName string) FieldCodeSnippets {
	return scalarSetter(f, builderTypeName, "whether "+f.FlagName+" is passed")
}

func (h *SwitchHandler) GenerateDefaultValueInitializationCode(f FieldVar, builderVarName string) FieldCodeSnippets {
	if f.Default == nil || *f.Default != "true" {
		return FieldCodeSnippets{}
	}
	return FieldCodeSnippets{Logic: fmt.Sprintf("\t%s.%s = true\n", builderVarName, f.Var)}
}

func (h *SwitchHandler) GenerateSchemaAssignmentCode(f FieldVar, schemaVarName string, builderVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\tif %s.%s {\n\t\t%s.Set%s(true)\n\t}\n", schemaVarName, f.Field, builderVarName, f.Field),
	}
}

func (h *SwitchHandler) GenerateFinalizeCode(f FieldVar, builderVarName string, tokensVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\tif %s.%s {\n\t\t%s = append(%s, %s)\n\t}\n",
			builderVarName, f.Var, tokensVarName, tokensVarName, strconv.Quote(f.FlagName)),
	}
}

// ValuedFlagHandler handles a flag followed by its value, omitted unless set or defaulted.
type ValuedFlagHandler struct{}

func (h *ValuedFlagHandler) GenerateFieldDeclarationCode(f FieldVar) FieldCodeSnippets {
	return FieldCodeSnippets{Declarations: fmt.Sprintf("\t%s %s\n\t%s bool\n", f.Var, f.GoType, f.SetVar)}
}

func (h *ValuedFlagHandler) GenerateSetterCode(f FieldVar, builderTypeName string) FieldCodeSnippets {
	return scalarSetter(f, builderTypeName, "the value passed with "+f.FlagName)
}

func (h *ValuedFlagHandler) GenerateDefaultValueInitializationCode(f FieldVar, builderVarName string) FieldCodeSnippets {
	if f.Default == nil {
		return FieldCodeSnippets{}
	}
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\t%s.%s = %s\n\t%s.%s = true\n", builderVarName, f.Var, defaultLiteral(f.ArgField), builderVarName, f.SetVar),
	}
}

func (h *ValuedFlagHandler) GenerateSchemaAssignmentCode(f FieldVar, schemaVarName string, builderVarName string) FieldCodeSnippets {
	return nonZeroAssignment(f, schemaVarName, builderVarName)
}

func (h *ValuedFlagHandler) GenerateFinalizeCode(f FieldVar, builderVarName string, tokensVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\tif %s.%s {\n\t\t%s = append(%s, %s, %s)\n\t}\n",
			builderVarName, f.SetVar, tokensVarName, tokensVarName, strconv.Quote(f.FlagName), formatExpr(f.GoType, builderVarName+"."+f.Var)),
	}
}

// RepeatedFlagHandler handles a slice-typed flag, emitting one flag/value pair per element.
type RepeatedFlagHandler struct{}

func (h *RepeatedFlagHandler) GenerateFieldDeclarationCode(f FieldVar) FieldCodeSnippets {
	return FieldCodeSnippets{Declarations: fmt.Sprintf("\t%s %s\n", f.Var, f.GoType)}
}

func (h *RepeatedFlagHandler) GenerateSetterCode(f FieldVar, builderTypeName string) FieldCodeSnippets {
	return sliceSetter(f, builderTypeName, "the values passed with "+f.FlagName)
}

func (h *RepeatedFlagHandler) GenerateDefaultValueInitializationCode(f FieldVar, builderVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{}
}

func (h *RepeatedFlagHandler) GenerateSchemaAssignmentCode(f FieldVar, schemaVarName string, builderVarName string) FieldCodeSnippets {
	return sliceAssignment(f, schemaVarName, builderVarName)
}

func (h *RepeatedFlagHandler) GenerateFinalizeCode(f FieldVar, builderVarName string, tokensVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{
		Logic: fmt.Sprintf("\tfor _, v := range %s.%s {\n\t\t%s = append(%s, %s, %s)\n\t}\n",
			builderVarName, f.Var, tokensVarName, tokensVarName, strconv.Quote(f.FlagName), formatExpr(f.ElemType, "v")),
	}
}

// UnsupportedKindHandler leaves a marker comment for fields of an unknown kind.
type UnsupportedKindHandler struct{}

func (h *UnsupportedKindHandler) GenerateFieldDeclarationCode(f FieldVar) FieldCodeSnippets {
	return FieldCodeSnippets{Declarations: fmt.Sprintf("\t// %s: unsupported kind %s\n", f.Field, f.Kind)}
}

func (h *UnsupportedKindHandler) GenerateSetterCode(f FieldVar, builderTypeName string) FieldCodeSnippets {
	return FieldCodeSnippets{}
}

func (h *UnsupportedKindHandler) GenerateDefaultValueInitializationCode(f FieldVar, builderVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{}
}

func (h *UnsupportedKindHandler) GenerateSchemaAssignmentCode(f FieldVar, schemaVarName string, builderVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{}
}

func (h *UnsupportedKindHandler) GenerateFinalizeCode(f FieldVar, builderVarName string, tokensVarName string) FieldCodeSnippets {
	return FieldCodeSnippets{Logic: fmt.Sprintf("\t// %s: unsupported kind %s\n", f.Field, f.Kind)}
}
