package buildgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryString(t *testing.T) {
	testCases := []struct {
		category Category
		expected string
	}{
		{Absolute, "absolute"},
		{Relative, "relative"},
		{RootBound, "root"},
		{Category(42), "Category(42)"},
	}
	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.category.String())
		})
	}
}

func TestRenderAndSplit(t *testing.T) {
	testCases := []struct {
		name     string
		category Category
		segments []string
		rendered string
	}{
		{"relative", Relative, []string{"src", "main"}, "src/main"},
		{"absolute", Absolute, []string{"usr", "lib"}, "/usr/lib"},
		{"root bound", RootBound, []string{"src"}, "src"},
		{"empty relative", Relative, nil, "."},
		{"empty absolute", Absolute, nil, "/"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Render(tc.category, tc.segments)
			assert.Equal(t, tc.rendered, got)
			// round trip
			if len(tc.segments) == 0 {
				assert.Empty(t, Split(got))
			} else {
				assert.Equal(t, tc.segments, Split(got))
			}
		})
	}
}

func TestCompareSegments(t *testing.T) {
	assert.Equal(t, 0, CompareSegments([]string{"a", "b"}, []string{"a", "b"}))
	assert.Equal(t, -1, CompareSegments([]string{"a"}, []string{"a", "b"}))
	assert.Equal(t, 1, CompareSegments([]string{"b"}, []string{"a", "z"}))
}

func TestAbsJoinRelative(t *testing.T) {
	base := NewAbs("opt", "tool")
	joined := base.Join(NewRel("bin", "run"))

	assert.Equal(t, Absolute, joined.Category())
	assert.Equal(t, []string{"opt", "tool", "bin", "run"}, joined.Segments())
	assert.Equal(t, "/opt/tool/bin/run", joined.String())
	// operands are untouched
	assert.Equal(t, []string{"opt", "tool"}, base.Segments())
}

func TestRelJoinRelative(t *testing.T) {
	joined := NewRel("src", "main").Join(NewRel("lib"))
	assert.Equal(t, []string{"src", "main", "lib"}, joined.Segments())
	assert.True(t, joined.Equal(NewRel("src", "main", "lib")))
}

func TestParseRelative(t *testing.T) {
	rel, err := ParseRelative("src/./main/")
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "main"}, rel.Segments())

	_, err = ParseRelative("/etc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotRelative)
}

func TestParseAbsolute(t *testing.T) {
	abs, err := ParseAbsolute("/etc/hosts")
	require.NoError(t, err)
	assert.Equal(t, []string{"etc", "hosts"}, abs.Segments())

	_, err = ParseAbsolute("etc")
	assert.ErrorIs(t, err, ErrNotAbsolute)
}

func TestSegmentsAreCopied(t *testing.T) {
	segs := []string{"a", "b"}
	rel := NewRel(segs...)
	segs[0] = "changed"
	got := rel.Segments()
	got[1] = "changed"
	assert.Equal(t, []string{"a", "b"}, rel.Segments())
}

func TestNewSplitsSegments(t *testing.T) {
	rel := NewRel("a/b", "", ".", "c")
	assert.Equal(t, []string{"a", "b", "c"}, rel.Segments())
	parsed, err := ParseRelative("a/b")
	require.NoError(t, err)
	assert.True(t, NewRel("a/b").Equal(parsed))

	for _, segs := range [][]string{{"x", "", "y"}, {"x/y"}, {"", ""}, {"x//y/"}} {
		rel := NewRel(segs...)
		back, err := ParseRelative(rel.String())
		require.NoError(t, err)
		assert.True(t, rel.Equal(back), "%q renders as %q", segs, rel.String())

		abs := NewAbs(segs...)
		backAbs, err := ParseAbsolute(abs.String())
		require.NoError(t, err)
		assert.True(t, abs.Equal(backAbs), "%q renders as %q", segs, abs.String())
	}

	assert.Equal(t, "/etc/x", NewAbs("etc").Join(NewRel("", "x/")).String())
}

func TestClean(t *testing.T) {
	assert.Equal(t, []string{"src", "pkg", "lib"}, Clean("src", "pkg/lib"))
	assert.Equal(t, []string{"a", "b"}, Clean("", "a", ".", "/b/"))
	assert.Empty(t, Clean())
}

func TestResolveRoot(t *testing.T) {
	testCases := []struct {
		name     string
		root     string
		segments []string
		expected string
	}{
		{"simple", "/work/project", []string{"src", "main"}, "/work/project/src/main"},
		{"trailing separator", "/work/project/", []string{"src"}, "/work/project/src"},
		{"root itself", "/work/project", nil, "/work/project"},
		{"empty root", "", []string{"src"}, "src"},
		{"filesystem root", "/", []string{"etc"}, "/etc"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ResolveRoot(tc.root, tc.segments))
		})
	}
}

func TestMatch(t *testing.T) {
	values, err := Match(RootBound, "src/util/lib.go", []string{"src", "", "lib.go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"util"}, values)

	values, err = Match(Absolute, "/etc", []string{"etc"})
	require.NoError(t, err)
	assert.Empty(t, values)

	testCases := []struct {
		name     string
		category Category
		text     string
		shape    []string
		target   error
	}{
		{"TooShort", Relative, "src", []string{"src", ""}, ErrShapeMismatch},
		{"LiteralMismatch", Relative, "lib/x", []string{"src", ""}, ErrShapeMismatch},
		{"AbsoluteWithoutSlash", Absolute, "etc", []string{"etc"}, ErrNotAbsolute},
		{"RelativeWithSlash", Relative, "/src", []string{"src"}, ErrNotRelative},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Match(tc.category, tc.text, tc.shape)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
		})
	}
}
