package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/podhmo/buildgen/internal/codegen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoSource = `package demo

// ProjectRoot is the checkout.
//
//buildgen:root project
type ProjectRoot string

// Src holds the sources.
//
//buildgen:path category=root root=project
type Src struct {
	Src struct{} ` + "`seg:\"literal\"`" + `
}

// Echo prints its input.
//
//buildgen:args command=echo
type Echo struct {
	Input   string ` + "`arg:\"positional\"`" + `
	Verbose bool
}
`

const rejectedSource = `package demo

//buildgen:path category=floating
type Dir struct{}
`

const demoLayout = `package: demo
roots:
  - name: project
    type: ProjectRoot
paths:
  - name: Tmp
    category: absolute
    segments:
      - {name: tmp}
`

type result struct {
	code   int
	stdout string
	stderr string
}

// execute runs the CLI in-process with the given arguments.
func execute(t *testing.T, args ...string) result {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEmit(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", demoSource)
	out := filepath.Join(dir, "demo_buildgen.go")

	r := execute(t, "emit", defs)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "wrote")
	assert.Contains(t, r.stdout, out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), codegen.GeneratedHeader))
	assert.Contains(t, string(content), "package demo")
	assert.Contains(t, string(content), "type SrcPath struct")
	assert.Contains(t, string(content), "type EchoArgs struct")

	r = execute(t, "emit", defs)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "unchanged")

	again, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, content, again, "output must be deterministic")
}

func TestEmit_ConfigFlags(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", demoSource)

	r := execute(t, "emit", "--args-suffix", "Cmd", "--output", "zz_{package}.go", "--header", "see defs.go", defs)
	require.Equal(t, 0, r.code, r.stderr)

	content, err := os.ReadFile(filepath.Join(dir, "zz_demo.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type EchoCmd struct")
	assert.Contains(t, string(content), "// see defs.go")
	assert.NoFileExists(t, filepath.Join(dir, "demo_buildgen.go"))
}

func TestEmit_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", demoSource)
	writeFile(t, dir, "buildgen.yaml", "path_suffix: Dir\n")

	r := execute(t, "emit", defs)
	require.Equal(t, 0, r.code, r.stderr)

	content, err := os.ReadFile(filepath.Join(dir, "demo_buildgen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type SrcDir struct")
}

func TestEmit_Diagnostics(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", rejectedSource)

	r := execute(t, "emit", defs)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "defs.go:")
	assert.Contains(t, r.stderr, "InvalidCategory")
	assert.Contains(t, r.stderr, `unknown category "floating"`)
	assert.Contains(t, r.stderr, "hint:")
	assert.Contains(t, r.stderr, "1 definition(s) rejected")
	assert.NoFileExists(t, filepath.Join(dir, "demo_buildgen.go"))
}

func TestEmit_RemovesStaleOutput(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", "package demo\n\ntype Plain struct{}\n")
	stale := writeFile(t, dir, "demo_buildgen.go", codegen.GeneratedHeader+"\n\npackage demo\n")

	r := execute(t, "emit", defs)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "removed")
	assert.NoFileExists(t, stale)

	handwritten := writeFile(t, dir, "demo_buildgen.go", "package demo\n")
	r = execute(t, "emit", defs)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "not generated by buildgen")
	assert.FileExists(t, handwritten)
}

func TestEmit_Layout(t *testing.T) {
	dir := t.TempDir()
	layoutFile := writeFile(t, dir, "paths.yaml", demoLayout)

	r := execute(t, "emit", "--layout", layoutFile)
	require.Equal(t, 0, r.code, r.stderr)

	content, err := os.ReadFile(filepath.Join(dir, "demo_buildgen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type ProjectRoot string")
	assert.Contains(t, string(content), "type TmpPath struct")

	r = execute(t, "emit", "--layout", layoutFile, dir)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "cannot be combined with --layout")
}

func TestEmit_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{"missing target", []string{"emit", filepath.Join(t.TempDir(), "missing.go")}, "missing.go"},
		{"bad flag style", []string{"emit", "--flag-style", "shouty", "."}, "flag_style"},
		{"unknown layout format", []string{"emit", "--layout", "paths.json"}, "paths.json"},
		{"too many args", []string{"emit", "a", "b"}, "accepts at most 1 arg"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := execute(t, tc.args...)
			assert.NotEqual(t, 0, r.code)
			assert.Contains(t, r.stderr, tc.want)
		})
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", demoSource)

	r := execute(t, "scan", defs)
	require.Equal(t, 0, r.code, r.stderr)

	var got struct {
		Package string
		Roots   []struct{ Name, TypeName string }
		Paths   []struct{ TypeName, Category string }
		Args    []struct{ TypeName, Command string }
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &got), r.stdout)
	assert.Equal(t, "demo", got.Package)
	require.Len(t, got.Roots, 1)
	assert.Equal(t, "project", got.Roots[0].Name)
	require.Len(t, got.Paths, 1)
	assert.Equal(t, "SrcPath", got.Paths[0].TypeName)
	assert.Equal(t, "root", got.Paths[0].Category)
	require.Len(t, got.Args, 1)
	assert.Equal(t, "echo", got.Args[0].Command)

	assert.NoFileExists(t, filepath.Join(dir, "demo_buildgen.go"), "scan must not write")
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", demoSource)

	r := execute(t, "describe", defs)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Paths:")
	assert.Contains(t, r.stdout, "SrcPath")
	assert.Contains(t, r.stdout, "<project>/src")
	assert.Contains(t, r.stdout, "Commands:")
	assert.Contains(t, r.stdout, "echo <")
	assert.Contains(t, r.stdout, "[--verbose]")
	assert.NotContains(t, r.stdout, "Usage:")

	r = execute(t, "describe", "--long", defs)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Usage:")
	assert.Contains(t, r.stdout, "Echo prints its input.")
}

func TestVersion(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "v1.2.3"
	r := execute(t, "version")
	require.Equal(t, 0, r.code)
	assert.Equal(t, "buildgen v1.2.3\n", r.stdout)
}

func TestVerboseLogging(t *testing.T) {
	dir := t.TempDir()
	defs := writeFile(t, dir, "defs.go", demoSource)

	r := execute(t, "--verbose", "emit", defs)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stderr, "WriteFile: start")
}

func TestWatchable(t *testing.T) {
	output := filepath.Join(t.TempDir(), "demo_buildgen.go")
	testCases := []struct {
		path string
		want bool
	}{
		{filepath.Join(filepath.Dir(output), "defs.go"), true},
		{filepath.Join(filepath.Dir(output), "paths.yaml"), true},
		{filepath.Join(filepath.Dir(output), "layout.cue"), true},
		{filepath.Join(filepath.Dir(output), "buildgen.toml"), true},
		{output, false},
		{filepath.Join(filepath.Dir(output), "defs_test.go"), false},
		{filepath.Join(filepath.Dir(output), ".defs.go.swp"), false},
		{filepath.Join(filepath.Dir(output), "README.md"), false},
	}
	for _, tc := range testCases {
		t.Run(filepath.Base(tc.path), func(t *testing.T) {
			assert.Equal(t, tc.want, watchable(tc.path, output))
		})
	}
}
