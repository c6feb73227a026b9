package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/podhmo/buildgen/internal/help"
	"github.com/spf13/cobra"
)

func newScanCmd(a *app) *cobra.Command {
	sf := &sourceFlags{}
	cmd := &cobra.Command{
		Use:   "scan [dir|file]",
		Short: "Print the accepted specs as JSON",
		Long: `Print the roots, path specs and argument specs that emit would generate,
as JSON. Rejected definitions are reported on stderr and make the command
fail after the JSON is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sf.target(args)
			if err != nil {
				return err
			}
			src, err := a.load(cmd, sf, target)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(src.File, "", "  ")
			if err != nil {
				return errors.Wrap(err, "marshalling specs to JSON")
			}
			fmt.Fprintln(a.stdout, string(data))
			if len(src.Diags) > 0 {
				return a.rejected(src.Diags)
			}
			return nil
		},
	}
	addSourceFlags(cmd, sf)
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	sf := &sourceFlags{}
	var long bool
	cmd := &cobra.Command{
		Use:   "describe [dir|file]",
		Short: "Show path shapes and usage lines of the accepted specs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sf.target(args)
			if err != nil {
				return err
			}
			src, err := a.load(cmd, sf, target)
			if err != nil {
				return err
			}

			if len(src.File.Paths) > 0 {
				fmt.Fprintln(a.stdout, TitleStyle.Render("Paths:"))
				width := 0
				for _, p := range src.File.Paths {
					width = max(width, len(p.TypeName))
				}
				for _, p := range src.File.Paths {
					fmt.Fprintf(a.stdout, "  %-*s  %-9s  %s\n", width, p.TypeName, p.Category, p.Shape())
				}
			}
			if len(src.File.Args) > 0 {
				if len(src.File.Paths) > 0 {
					fmt.Fprintln(a.stdout)
				}
				fmt.Fprintln(a.stdout, TitleStyle.Render("Commands:"))
				for _, spec := range src.File.Args {
					if long {
						fmt.Fprintf(a.stdout, "  %s\n", CmdStyle.Render(spec.TypeName))
						for _, line := range strings.Split(strings.TrimRight(help.GenerateHelp(spec), "\n"), "\n") {
							fmt.Fprintf(a.stdout, "    %s\n", line)
						}
						continue
					}
					fmt.Fprintf(a.stdout, "  %s  %s\n", CmdStyle.Render(spec.TypeName), help.UsageLine(spec))
				}
			}
			if len(src.Diags) > 0 {
				return a.rejected(src.Diags)
			}
			return nil
		},
	}
	addSourceFlags(cmd, sf)
	cmd.Flags().BoolVar(&long, "long", false, "print the full help text of each command")
	return cmd
}
