package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/chriserin/smartui/internal/parser"
	"github.com/chriserin/smartui/internal/runner"
	"github.com/chriserin/smartui/internal/ui"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|dir>...",
	Short: "Parse scenario files without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return RunCheck(cmd.OutOrStdout(), args, format)
	},
}

func init() {
	checkCmd.Flags().String("format", "auto", "scenario syntax: auto, dsl, json or yaml")
	rootCmd.AddCommand(checkCmd)
}

// RunCheck parses every file named in args, scanning directories. format
// forces one syntax for all of them; "auto" detects it per file.
func RunCheck(w io.Writer, args []string, format string) error {
	syntax, err := parser.ParseSyntax(format)
	if err != nil {
		return err
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			found, err := runner.ScanDir(arg)
			if err != nil {
				return err
			}
			paths = append(paths, found...)
			continue
		}
		paths = append(paths, arg)
	}

	bad := 0
	for _, path := range paths {
		sc, err := parser.LoadAs(path, syntax)
		if err != nil {
			bad++
			ui.ResultLine(w, "error", path)
			ui.DetailLine(w, err.Error())
			continue
		}
		ui.OKLine(w, fmt.Sprintf("%s (%d pages)", path, len(sc.Pages)))
	}

	if bad > 0 {
		return fmt.Errorf("%d of %d files could not be parsed", bad, len(paths))
	}
	return nil
}
