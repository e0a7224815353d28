package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/hhfacts/format"
	"github.com/dhamidi/hhfacts/hack/syntax"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var check bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file and dump its full-fidelity syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read %s: %w", filename, err)
			}

			env := a.env(cmd, filename)
			tree, errs, err := syntax.Parse(data, env.Options()...)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}

			switch outputFormat {
			case "json":
				enc := format.NewSyntaxJSONEncoder(a.stdout, string(data))
				if err := enc.Encode(tree, errs); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "tree":
				fmt.Fprint(a.stdout, tree.String())
				lines := syntax.NewLineIndex(string(data))
				for _, e := range errs {
					p := lines.Position(e.Offset)
					a.warnf("%s:%d:%d: %s", filename, p.Line+1, p.Column+1, e.Message)
				}
			case "none":
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if check {
				if tree.Text() != string(data) {
					return fmt.Errorf("%s: syntax tree does not reproduce the input", filename)
				}
				if len(errs) > 0 {
					return fmt.Errorf("%s: %d syntax errors", filename, len(errs))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (json, tree, none)")
	cmd.Flags().BoolVar(&check, "check", false, "fail when the tree does not reproduce the input or has syntax errors")
	addCompatFlags(cmd)

	return cmd
}
