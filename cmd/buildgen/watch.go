package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/podhmo/buildgen/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	sf := &sourceFlags{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [dir|file]",
		Short: "Re-run emit whenever the package sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sf.target(args)
			if err != nil {
				return err
			}
			return a.watch(cmd, sf, target, debounce)
		},
	}
	addSourceFlags(cmd, sf)
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before re-generating")
	return cmd
}

func (a *app) watch(cmd *cobra.Command, sf *sourceFlags, target string, debounce time.Duration) error {
	reemit := func() {
		if err := a.emit(cmd, sf, target); err != nil {
			fmt.Fprintln(a.stderr, WarningStyle.Render("!"), err)
		}
	}

	// The first pass also tells us where the output goes, which must not
	// retrigger the watcher.
	src, err := a.load(cmd, sf, target)
	if err != nil {
		return err
	}
	output, err := filepath.Abs(src.OutputPath())
	if err != nil {
		return err
	}
	reemit()

	// Directories rather than files: editors often replace a file on save,
	// which drops a watch on the file itself.
	paths := []string{src.Dir}
	if src.Config.File != "" {
		if dir := filepath.Dir(src.Config.File); filepath.Clean(dir) != filepath.Clean(src.Dir) {
			paths = append(paths, dir)
		}
	}

	w, err := watch.New(watch.Config{
		Paths:    paths,
		Debounce: debounce,
		Match:    func(path string) bool { return watchable(path, output) },
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(a.stdout, "%s %d change(s), regenerating\n", CmdStyle.Render("→"), len(changed))
			reemit()
			return nil
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s watching %s (Ctrl+C to stop)\n", CmdStyle.Render("→"), strings.Join(paths, ", "))
	return w.Run(cmd.Context())
}

// watchable reports whether a change to path can affect the generated output.
func watchable(path, output string) bool {
	if abs, err := filepath.Abs(path); err == nil && abs == output {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "_test.go") {
		return false
	}
	switch filepath.Ext(base) {
	case ".go", ".yaml", ".yml", ".toml", ".cue":
		return true
	}
	return false
}
