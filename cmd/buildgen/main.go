// Command buildgen generates typed path wrappers and argument builders from
// annotated Go declarations or layout files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/cockroachdb/errors"
	"github.com/podhmo/buildgen/internal/logging"
	"github.com/spf13/cobra"
)

// Version is set via -ldflags.
var Version = "dev"

// ExitError signals a non-zero exit code without calling os.Exit in RunE.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// app holds the state shared by all subcommands.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, ErrorStyle.Render("error:"), err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:   "buildgen",
		Short: "Generate typed path and argument builder types",
		Long: TitleStyle.Render("buildgen") + SubtitleStyle.Render(" - typed paths and command lines for build tools") + `

buildgen reads //buildgen:root, //buildgen:path and //buildgen:args
annotations (or a layout file) and writes <package>_buildgen.go next to
the sources. Run it through go:generate:

  //go:generate go run github.com/podhmo/buildgen/cmd/buildgen emit .`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(a.stderr, logging.Level(a.verbose))
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is buildgen.{yaml,toml} in the target directory)")

	root.AddCommand(
		newEmitCmd(a),
		newScanCmd(a),
		newDescribeCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the buildgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.stdout, "buildgen", versionString())
		},
	}
}

func versionString() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}
