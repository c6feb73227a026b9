package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/podhmo/buildgen/internal/analyzer"
	"github.com/podhmo/buildgen/internal/codegen"
	"github.com/podhmo/buildgen/internal/config"
	"github.com/podhmo/buildgen/internal/diag"
	"github.com/podhmo/buildgen/internal/layout"
	"github.com/podhmo/buildgen/internal/loader"
	"github.com/podhmo/buildgen/internal/metadata"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sourceFlags selects where specs come from: a Go package (the positional
// argument) or a layout file.
type sourceFlags struct {
	layout string
}

// configFlags maps config keys to their command-line flags.
var configFlags = []struct {
	key   string
	usage string
}{
	{config.KeyFlagStyle, "casing of derived flag names (kebab, snake, camel, pascal)"},
	{config.KeyFlagPrefix, "prefix of derived flag names"},
	{config.KeySegmentStyle, "casing of derived literal segments"},
	{config.KeyPathSuffix, "suffix of generated path type names"},
	{config.KeyArgsSuffix, "suffix of generated argument builder type names"},
	{config.KeyOutput, "output file; {package} is replaced by the package name"},
	{config.KeyHeader, "extra comment placed below the generated-code marker"},
}

func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

func addSourceFlags(cmd *cobra.Command, sf *sourceFlags) {
	cmd.Flags().StringVar(&sf.layout, "layout", "", "read path specs from a .yaml, .toml or .cue layout file instead of Go sources")
	for _, f := range configFlags {
		// Defaults live in config.SetDefaults; an unset flag does not override them.
		cmd.Flags().String(flagName(f.key), "", f.usage)
	}
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for _, f := range configFlags {
		if err := v.BindPFlag(f.key, cmd.Flags().Lookup(flagName(f.key))); err != nil {
			return errors.Wrapf(err, "binding --%s", flagName(f.key))
		}
	}
	return nil
}

// target resolves the positional argument, defaulting to the current
// directory.
func (sf *sourceFlags) target(args []string) (string, error) {
	if sf.layout != "" {
		if len(args) > 0 {
			return "", errors.New("a package argument cannot be combined with --layout")
		}
		return "", nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return ".", nil
}

// source is one loaded generation batch.
type source struct {
	File   *metadata.File
	Diags  diag.List
	Dir    string // directory receiving the generated file
	Config *config.Config
}

// OutputPath is where the batch's generated file goes.
func (s *source) OutputPath() string {
	return s.Config.OutputPath(s.Dir, s.File.Package)
}

func (a *app) load(cmd *cobra.Command, sf *sourceFlags, target string) (*source, error) {
	dir := target
	if sf.layout != "" {
		dir = filepath.Dir(sf.layout)
	} else if info, err := os.Stat(target); err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}

	v := config.NewViper()
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v, dir, a.configFile)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.AnalyzerOptions()
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		slog.Debug("config loaded", "file", cfg.File)
	}

	src := &source{Dir: dir, Config: cfg}
	if sf.layout != "" {
		src.File, src.Diags, err = layout.LoadFile(sf.layout, opts)
		if err != nil {
			return nil, err
		}
		return src, nil
	}

	t, err := loader.Load(cmd.Context(), target)
	if err != nil {
		return nil, err
	}
	src.Dir = t.Dir
	src.File, src.Diags = analyzer.Analyze(t.Fset, t.Files, opts)
	if src.File.Package == "" {
		src.File.Package = t.Package
	}
	return src, nil
}

// rejected renders diags and turns them into the command's failure.
func (a *app) rejected(diags diag.List) error {
	renderDiagnostics(a.stderr, diags)
	return &ExitError{Code: 1, Err: errors.Newf("%d definition(s) rejected", len(diags))}
}

func newEmitCmd(a *app) *cobra.Command {
	sf := &sourceFlags{}
	cmd := &cobra.Command{
		Use:   "emit [dir|file]",
		Short: "Generate the <package>_buildgen.go file",
		Long: `Analyze the annotated declarations of a package (or a layout file) and
write the generated types. Nothing is written when any definition is
rejected; every diagnostic is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sf.target(args)
			if err != nil {
				return err
			}
			return a.emit(cmd, sf, target)
		},
	}
	addSourceFlags(cmd, sf)
	return cmd
}

func (a *app) emit(cmd *cobra.Command, sf *sourceFlags, target string) error {
	src, err := a.load(cmd, sf, target)
	if err != nil {
		return err
	}
	if len(src.Diags) > 0 {
		return a.rejected(src.Diags)
	}

	out := src.OutputPath()
	if src.File.Empty() {
		removed, err := codegen.RemoveStale(out)
		if err != nil {
			return err
		}
		if removed {
			fmt.Fprintln(a.stdout, WarningStyle.Render("removed"), out)
		} else {
			slog.Info("nothing to generate", "dir", src.Dir)
		}
		return nil
	}

	content, err := codegen.GenerateFile(src.File, codegen.FileOptions{Filename: out, Header: src.Config.Header})
	if err != nil {
		return err
	}
	written, err := codegen.WriteFile(out, content)
	if err != nil {
		return err
	}
	if written {
		fmt.Fprintln(a.stdout, SuccessStyle.Render("wrote"), out)
	} else {
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("unchanged"), out)
	}
	slog.Debug("emit done", "roots", len(src.File.Roots), "paths", len(src.File.Paths), "args", len(src.File.Args))
	return nil
}
