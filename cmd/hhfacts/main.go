package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/hhfacts/config"
	"github.com/dhamidi/hhfacts/hack/parser"
)

const version = "0.1.0"

// app carries what every command shares: the loaded configuration and
// the global flags.
type app struct {
	project string
	verbose int
	logFile string
	cfg     *config.Config
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	if err := newRootCmd(&app{stdout: os.Stdout, stderr: os.Stderr}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "hhfacts",
		Short:        "Extract declaration facts from Hack and PHP sources",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader(a.project).Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.configureLogging()
			return nil
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVarP(&a.project, "project", "C", ".", "project root holding "+config.FileName)
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newExtractCmd(a))
	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newIndexCmd(a))
	rootCmd.AddCommand(newQueryCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

// configureLogging applies flags over the configured log settings.
func (a *app) configureLogging() {
	verbosity := a.cfg.Log.Verbosity
	if a.verbose > 0 {
		verbosity = a.verbose
	}
	path := a.cfg.Log.File
	if a.logFile != "" {
		path = a.logFile
	}
	if path == "" {
		commonlog.Configure(verbosity, nil)
		return
	}
	commonlog.Configure(verbosity, &path)
}

// env returns the configured parser environment with flag overrides.
func (a *app) env(cmd *cobra.Command, filename string) parser.Env {
	env := a.cfg.Env()
	if f := cmd.Flags().Lookup("php5-compat"); f != nil && f.Changed {
		env.PHP5CompatMode = f.Value.String() == "true"
	}
	if f := cmd.Flags().Lookup("hhvm-compat"); f != nil && f.Changed {
		env.HHVMCompatMode = f.Value.String() == "true"
	}
	env.Filename = filename
	return env
}

func addCompatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("php5-compat", true, "accept PHP 5 constructs (overrides parser.php5_compat)")
	cmd.Flags().Bool("hhvm-compat", true, "accept Hack constructs in <?php files (overrides parser.hhvm_compat)")
}

// storePath resolves the store location against the project root unless
// a flag gave one.
func (a *app) storePath(flag string) string {
	if flag != "" {
		return flag
	}
	path := a.cfg.Store.Path
	if path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.project, path)
}

func (a *app) warnf(format string, args ...any) {
	fmt.Fprintf(a.stderr, format+"\n", args...)
}
