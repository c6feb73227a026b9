package codegen

import (
	"fmt"
	"go/token"
	"go/types"

	"github.com/podhmo/buildgen/internal/casing"
)

// reserved holds identifiers the generated file refers to, which a local
// name must not shadow.
var reserved = map[string]bool{
	"buildgen": true,
	"slices":   true,
	"b":        true,
	"s":        true,
	"p":        true,
}

// localName derives an unexported identifier from a field name.
// Example: "OutputDir" -> "outputDir", "Type" -> "typeValue"
func localName(field string) string {
	name := casing.Convert(field, casing.Pascal, casing.Camel)
	switch {
	case token.IsKeyword(name) || types.Universe.Lookup(name) != nil || reserved[name]:
		return name + "Value"
	case !token.IsIdentifier(name):
		return "v" + field
	}
	return name
}

// nameSet hands out local names that are unique within one generated type.
type nameSet map[string]bool

func (ns nameSet) take(base string) string {
	name := base
	for i := 2; ns[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	ns[name] = true
	return name
}
