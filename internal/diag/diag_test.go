package diag

import (
	"go/token"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticError(t *testing.T) {
	pos := token.Position{Filename: "defs.go", Line: 12, Column: 2}
	d := New(ConflictingFlagName, pos, "Build", "Output", "flag %q already used by field %s", "--out", "Target")

	assert.Equal(t, `defs.go:12:2: ConflictingFlagName: flag "--out" already used by field Target`, d.Error())
	assert.True(t, errors.Is(d, ErrConflictingFlagName))
	assert.False(t, errors.Is(d, ErrInvalidDefault))
}

func TestDiagnosticLocationWithoutPosition(t *testing.T) {
	d := New(InvalidCategory, token.Position{}, "SourceDir", "", "unknown category %q", "floating")
	assert.Equal(t, "SourceDir", d.Location())

	d.Field = "category"
	assert.Equal(t, "SourceDir.category", d.Location())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "AmbiguousRoot", AmbiguousRoot.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
	assert.Nil(t, Kind(99).Sentinel())
}

func TestListErr(t *testing.T) {
	var l List
	l.Add(nil)
	require.NoError(t, l.Err())

	first := New(DuplicateSegment, token.Position{}, "A", "Src", "segment field %q declared twice", "Src").
		WithHint("rename one of the fields")
	l.Add(first)

	err := l.Err()
	require.Error(t, err)
	var got *Diagnostic
	require.True(t, errors.As(err, &got))
	assert.Equal(t, first, got)
	assert.Contains(t, errors.FlattenHints(err), "rename one of the fields")

	l.Add(New(AmbiguousRoot, token.Position{}, "B", "", "root %q is not declared", "project"))
	err = l.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 definitions rejected")
	assert.True(t, errors.Is(err, ErrDuplicateSegment))
	assert.Len(t, l, 2)
	assert.Contains(t, l.String(), "AmbiguousRoot")
}
