package codegen

import (
	"github.com/podhmo/buildgen/internal/metadata"
)

// FieldCodeSnippets holds different parts of generated code for an argument field.
// For instance, a valued flag needs a struct field plus a "was set" marker
// (Declarations) and statements inside a method body (Logic).
type FieldCodeSnippets struct {
	Declarations string // e.g., builder struct fields, setter methods
	Logic        string // e.g., statements inside New/Args/Finalize
}

// FieldVar pairs an argument field with the builder struct fields that hold
// its state.
type FieldVar struct {
	*metadata.ArgField
	Var    string // e.g. "output"
	SetVar string // e.g. "outputSet"; empty unless the field tracks whether it was set
}

// FieldHandler defines the contract for the kind-specific code generation handlers.
type FieldHandler interface {
	// Generates the builder struct fields that hold the value.
	GenerateFieldDeclarationCode(f FieldVar) FieldCodeSnippets

	// Generates the chainable Set<Field> method.
	// builderTypeName is the name of the generated builder type (e.g. "CompileArgs").
	GenerateSetterCode(f FieldVar, builderTypeName string) FieldCodeSnippets

	// Generates default value assignment inside New<Builder>().
	// builderVarName is the name of the variable holding the builder (e.g., "b").
	GenerateDefaultValueInitializationCode(f FieldVar, builderVarName string) FieldCodeSnippets

	// Generates the statement copying a non-zero schema field into the builder.
	// schemaVarName is the receiver of the schema's Args() method (e.g., "s").
	GenerateSchemaAssignmentCode(f FieldVar, schemaVarName string, builderVarName string) FieldCodeSnippets

	// Generates the statements appending the field's tokens inside Finalize().
	// tokensVarName is the name of the buildgen.Tokens variable (e.g., "tokens").
	GenerateFinalizeCode(f FieldVar, builderVarName string, tokensVarName string) FieldCodeSnippets
}

// GetFieldHandler is a factory function that returns the appropriate FieldHandler
// based on the kind of the field.
func GetFieldHandler(f *metadata.ArgField) FieldHandler {
	switch f.Kind {
	case metadata.Positional:
		if f.Repeated {
			return &PositionalSliceHandler{}
		}
		return &PositionalHandler{}
	case metadata.Switch:
		return &SwitchHandler{}
	case metadata.Valued:
		if f.Repeated {
			return &RepeatedFlagHandler{}
		}
		return &ValuedFlagHandler{}
	default:
		return &UnsupportedKindHandler{}
	}
}

// tracksSet reports whether the builder records if f was set; only single
// valued flags are omitted when unset.
func tracksSet(f *metadata.ArgField) bool {
	return f.Kind == metadata.Valued && !f.Repeated
}
