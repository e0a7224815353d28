package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dhamidi/hhfacts/format"
	"github.com/dhamidi/hhfacts/store"
)

func newQueryCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Answer questions from the facts database",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "facts database (default from store.path)")

	// withStore opens the database for the duration of one subcommand.
	withStore := func(run func(st *store.Store, arg string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(a.storePath(dbPath))
			if err != nil {
				return err
			}
			defer st.Close()
			return run(st, args[0])
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "type <name>",
		Short: "Show which files declare a type",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(st *store.Store, name string) error {
			locations, err := st.FindType(name)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no type named %s", name)
			}
			if err != nil {
				return err
			}
			rows := make([][]string, len(locations))
			for i, l := range locations {
				rows[i] = []string{l.Name, string(l.Kind), joinFlags(l.Flags), l.Path}
			}
			renderTable(a.stdout, []string{"Type", "Kind", "Flags", "File"}, rows)
			return nil
		}),
	})

	var factsFormat string
	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Print the stored facts of a file",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(st *store.Store, path string) error {
			f, err := st.FileFacts(path)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("%s is not indexed", path)
			}
			if err != nil {
				return err
			}
			enc, err := format.NewEncoder(factsFormat, a.stdout)
			if err != nil {
				return err
			}
			return enc.Encode(f)
		}),
	}
	fileCmd.Flags().StringVarP(&factsFormat, "format", "f", "line", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.AddCommand(fileCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "subtypes <name>",
		Short: "List types that directly extend, implement, use or require a type",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(st *store.Store, name string) error {
			relations, err := st.Subtypes(name)
			if err != nil {
				return err
			}
			rows := make([][]string, len(relations))
			for i, r := range relations {
				rows[i] = []string{r.Type, r.Relation, r.Base, r.Path}
			}
			renderTable(a.stdout, []string{"Type", "Relation", "Base", "File"}, rows)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "attr <name>",
		Short: "List declarations carrying an attribute",
		Args:  cobra.ExactArgs(1),
		RunE: withStore(func(st *store.Store, name string) error {
			uses, err := st.WithAttribute(name)
			if err != nil {
				return err
			}
			rows := make([][]string, len(uses))
			for i, u := range uses {
				owner := u.Owner
				if u.OwnerKind == store.OwnerFile {
					owner = "-"
				}
				rows[i] = []string{owner, u.OwnerKind, u.Name, formatArgs(u.Args), u.Path}
			}
			renderTable(a.stdout, []string{"Declaration", "Kind", "Attribute", "Arguments", "File"}, rows)
			return nil
		}),
	})

	return cmd
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.AppendBulk(rows)
	table.Render()
}

func joinFlags[T ~string](flags []T) string {
	if len(flags) == 0 {
		return "-"
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

func formatArgs(args []any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		if s, ok := arg.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
		} else {
			parts[i] = fmt.Sprint(arg)
		}
	}
	return strings.Join(parts, ", ")
}
