package metadata

import (
	"encoding/json"
	"testing"

	"github.com/podhmo/buildgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(i int) *int { return &i }

func fieldNames(fields []ArgField) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Field
	}
	return names
}

func TestArgSpecEffectiveOrder(t *testing.T) {
	spec := &ArgSpec{
		Name: "Compile",
		Fields: []ArgField{
			{Field: "Input", Kind: Positional},
			{Field: "Verbose", Kind: Switch},
			{Field: "Output", Kind: Positional, Order: intp(2)},
			{Field: "Jobs", Kind: Valued},
			{Field: "Mode", Kind: Positional, Order: intp(1)},
			{Field: "Target", Kind: Valued, Order: intp(0)},
		},
	}

	t.Run("positionals", func(t *testing.T) {
		assert.Equal(t, []string{"Mode", "Output", "Input"}, fieldNames(spec.Positionals()))
	})
	t.Run("flags", func(t *testing.T) {
		assert.Equal(t, []string{"Target", "Verbose", "Jobs"}, fieldNames(spec.Flags()))
	})
	t.Run("declaration order is kept without explicit indices", func(t *testing.T) {
		plain := &ArgSpec{Fields: []ArgField{
			{Field: "B", Kind: Positional},
			{Field: "A", Kind: Positional},
		}}
		assert.Equal(t, []string{"B", "A"}, fieldNames(plain.Positionals()))
	})
}

func TestPathSpecDynamicSegments(t *testing.T) {
	spec := &PathSpec{
		Name:     "SourceDir",
		Category: buildgen.RootBound,
		Segments: []Segment{
			{Field: "Src", Kind: Literal, Text: "src"},
			{Field: "Package", Kind: Dynamic, GoType: "string"},
			{Field: "Main", Kind: Literal, Text: "main"},
			{Field: "File", Kind: Dynamic, GoType: "string"},
		},
	}
	dyn := spec.DynamicSegments()
	require.Len(t, dyn, 2)
	assert.Equal(t, "Package", dyn[0].Field)
	assert.Equal(t, "File", dyn[1].Field)
}

func TestFileEmpty(t *testing.T) {
	f := &File{Roots: []*RootDecl{{Name: "project", TypeName: "ProjectRoot"}}}
	assert.False(t, f.Empty())
	assert.True(t, (&File{}).Empty())
}

func TestKindsMarshalAsNames(t *testing.T) {
	b, err := json.Marshal(struct {
		Category buildgen.Category
		Segment  SegmentKind
		Flag     FlagKind
	}{buildgen.RootBound, Dynamic, Switch})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Category":"root","Segment":"dynamic","Flag":"switch"}`, string(b))
}

func TestPathSpecShape(t *testing.T) {
	segs := []Segment{
		{Field: "Src", Kind: Literal, Text: "src"},
		{Field: "Package", Kind: Dynamic, GoType: "string"},
	}
	testCases := []struct {
		name     string
		spec     PathSpec
		expected string
	}{
		{"Relative", PathSpec{Category: buildgen.Relative, Segments: segs}, "src/{Package}"},
		{"Absolute", PathSpec{Category: buildgen.Absolute, Segments: segs}, "/src/{Package}"},
		{"RootBound", PathSpec{Category: buildgen.RootBound, Root: "project", Segments: segs}, "<project>/src/{Package}"},
		{"EmptyRelative", PathSpec{Category: buildgen.Relative}, "."},
		{"EmptyRootBound", PathSpec{Category: buildgen.RootBound, Root: "project"}, "<project>"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.spec.Shape())
		})
	}
}
