package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/hhfacts/format"
	"github.com/dhamidi/hhfacts/hack/facts"
)

func newExtractCmd(a *app) *cobra.Command {
	var filePaths []string
	var parseOnly bool
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Print the facts of each file",
		Long: `Print one facts record per file. With --parse-only, print true or false
depending on whether the file could be parsed. Files that cannot be
tokenized print {}.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files := append(append([]string{}, filePaths...), args...)
			if len(files) == 0 {
				return fmt.Errorf("no input files")
			}

			encoder, err := format.NewEncoder(outputFormat, a.stdout)
			if err != nil {
				return err
			}

			log := commonlog.GetLogger("hhfacts.extract")
			for _, file := range files {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read %s: %w", file, err)
				}
				env := a.env(cmd, file)

				if parseOnly {
					fmt.Fprintln(a.stdout, facts.ParseOnly(data, env))
					continue
				}

				f, err := facts.FromText(data, env)
				if err != nil {
					log.Warningf("%s: %v", file, err)
					f = nil
				}
				if err := encoder.Encode(f); err != nil {
					return fmt.Errorf("encode %s: %w", file, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&filePaths, "file-path", nil, "file to extract (repeatable)")
	cmd.Flags().BoolVar(&parseOnly, "parse-only", false, "only report whether each file parses")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format ("+strings.Join(format.Names, ", ")+")")
	addCompatFlags(cmd)

	return cmd
}
