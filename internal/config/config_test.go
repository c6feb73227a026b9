package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/podhmo/buildgen/internal/analyzer"
	"github.com/podhmo/buildgen/internal/casing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(NewViper(), t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, c.File)

	opts, err := c.AnalyzerOptions()
	require.NoError(t, err)
	assert.Equal(t, analyzer.DefaultOptions(), opts)
	assert.Equal(t, filepath.Join("pkg", "demo_buildgen.go"), c.OutputPath("pkg", "demo"))
}

func TestLoad_Sources(t *testing.T) {
	testCases := []struct {
		name     string
		files    map[string]string
		env      map[string]string
		explicit string
		check    func(t *testing.T, c *Config)
	}{
		{
			name:  "yaml in dir",
			files: map[string]string{"buildgen.yaml": "flag_style: snake\nflag_prefix: \"-\"\n"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "snake", c.FlagStyle)
				assert.Equal(t, "-", c.FlagPrefix)
				assert.Equal(t, "kebab", c.SegmentStyle)
			},
		},
		{
			name:  "toml in dir",
			files: map[string]string{"buildgen.toml": "path_suffix = \"Dir\"\noutput = \"zz_{package}.go\"\n"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "Dir", c.PathSuffix)
				assert.Equal(t, filepath.Join("d", "zz_demo.go"), c.OutputPath("d", "demo"))
			},
		},
		{
			name:  "env overrides file",
			files: map[string]string{"buildgen.yaml": "args_suffix: Cmd\n"},
			env:   map[string]string{"BUILDGEN_ARGS_SUFFIX": "Command"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "Command", c.ArgsSuffix)
			},
		},
		{
			name:     "explicit file",
			files:    map[string]string{"custom.yaml": "segment_style: snake\n", "buildgen.yaml": "segment_style: camel\n"},
			explicit: "custom.yaml",
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "snake", c.SegmentStyle)
				assert.Equal(t, "custom.yaml", filepath.Base(c.File))
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
			}
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			explicit := ""
			if tc.explicit != "" {
				explicit = filepath.Join(dir, tc.explicit)
			}
			c, err := Load(NewViper(), dir, explicit)
			require.NoError(t, err)
			tc.check(t, c)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(NewViper(), t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("unknown style", func(t *testing.T) {
		t.Setenv("BUILDGEN_FLAG_STYLE", "shouty")
		_, err := Load(NewViper(), t.TempDir(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "flag_style")
	})
	t.Run("bad suffix", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "buildgen.yaml"), []byte("path_suffix: \"-x\"\n"), 0o644))
		_, err := Load(NewViper(), dir, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path_suffix")
	})
}

func TestAnalyzerOptions(t *testing.T) {
	c := &Config{FlagStyle: "camel", FlagPrefix: "-", SegmentStyle: "pascal", PathSuffix: "P", ArgsSuffix: "A"}
	opts, err := c.AnalyzerOptions()
	require.NoError(t, err)
	assert.Equal(t, analyzer.Options{
		FlagStyle:    casing.Camel,
		FlagPrefix:   "-",
		SegmentStyle: casing.Pascal,
		PathSuffix:   "P",
		ArgsSuffix:   "A",
	}, opts)
}
