package cmd

import (
	"fmt"
	"io"

	"github.com/chriserin/smartui/internal/parser"
	"github.com/spf13/cobra"
)

var (
	showJSONFlag   bool
	showFormatFlag string
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a scenario file in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0], showJSONFlag, showFormatFlag)
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSONFlag, "json", false, "print JSON instead of the line format")
	showCmd.Flags().StringVar(&showFormatFlag, "format", "auto", "syntax of the input file: auto, dsl, json or yaml")
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, path string, asJSON bool, format string) error {
	syntax, err := parser.ParseSyntax(format)
	if err != nil {
		return err
	}
	sc, err := parser.LoadAs(path, syntax)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := parser.FormatJSON(sc)
		if err != nil {
			return fmt.Errorf("formatting %s: %w", path, err)
		}
		_, err = w.Write(out)
		return err
	}

	out, err := parser.FormatDSL(sc)
	if err != nil {
		return fmt.Errorf("formatting %s: %w", path, err)
	}
	_, err = io.WriteString(w, out)
	return err
}
