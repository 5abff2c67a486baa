package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/marek-kar/aihealth/pkg/analysis"
	"github.com/marek-kar/aihealth/pkg/config"
	"github.com/marek-kar/aihealth/pkg/probe"
	"github.com/marek-kar/aihealth/pkg/render"
	"github.com/marek-kar/aihealth/pkg/store"
)

// errNotExcellent makes the process exit 1 without printing anything extra;
// the summary has already been shown.
var errNotExcellent = errors.New("system status is not excellent")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errNotExcellent) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aihealth",
		Short:         "Health check for the AI subsystems of a project",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	check := newCheckCmd()
	root.RunE = check.RunE
	root.Flags().AddFlagSet(check.Flags())
	root.AddCommand(check, newShowCmd())

	return root
}

type checkFlags struct {
	root      string
	config    string
	envFile   string
	reportDir string
	python    string
	noSave    bool
	format    string
	noColor   bool
	logLevel  string
}

func newCheckCmd() *cobra.Command {
	var f checkFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run every probe, print a summary and save the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(f.logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			opts, err := resolveOptions(cmd, f)
			if err != nil {
				return err
			}
			logger.Debug("options resolved", "root", opts.Root, "python", opts.Python, "report_dir", opts.ReportPath())

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			out := cmd.OutOrStdout()
			engine := analysis.DefaultEngine(opts, probe.ExecRunner{Logger: logger})
			engine.Logger = logger
			if f.format != string(render.FormatJSON) {
				engine.Observer = render.NewConsole(out, !f.noColor && isTerminal(out))
			}
			if !f.noSave {
				engine.Saver = store.New(opts.ReportPath())
			}

			res, err := engine.Run(ctx)
			if err != nil {
				return err
			}
			if f.format == string(render.FormatJSON) {
				if err := render.New(render.FormatJSON).Render(out, res.Report); err != nil {
					return fmt.Errorf("render report: %w", err)
				}
				if res.Path != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Report saved: %s\n", res.Path)
				}
			}
			if !res.Success() {
				return errNotExcellent
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.root, "root", "", "project root to check (default: current directory)")
	cmd.Flags().StringVar(&f.config, "config", "", "YAML file overriding the default checks")
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "dotenv file with AIHEALTH_* overrides (default: <root>/.env)")
	cmd.Flags().StringVar(&f.reportDir, "report-dir", "", "directory for saved reports, relative to the root")
	cmd.Flags().StringVar(&f.python, "python", "", "python interpreter used for imports and scripts")
	cmd.Flags().BoolVar(&f.noSave, "no-save", false, "do not write the report file")
	cmd.Flags().StringVar(&f.format, "format", "console", "output format: console or json")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable styled output")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	return cmd
}

func resolveOptions(cmd *cobra.Command, f checkFlags) (config.Options, error) {
	opts := config.Default()
	if f.config != "" {
		if err := config.LoadFile(f.config, &opts); err != nil {
			return opts, err
		}
	}

	envFile := f.envFile
	if envFile == "" {
		root := opts.Root
		if cmd.Flags().Changed("root") {
			root = f.root
		}
		envFile = filepath.Join(root, ".env")
	}
	if err := config.ApplyEnv(envFile, &opts); err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		opts.Root = f.root
	}
	if flags.Changed("report-dir") {
		opts.ReportDir = f.reportDir
	}
	if flags.Changed("python") {
		opts.Python = f.python
	}
	if f.format != "console" && f.format != string(render.FormatJSON) {
		return opts, fmt.Errorf("invalid --format value %q", f.format)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid configuration: %w", err)
	}
	return opts, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level value: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func newShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <report.json>",
		Short: "Render a saved health report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := render.Format(format)
			if f != render.FormatTable && f != render.FormatJSON {
				return fmt.Errorf("invalid --format value %q", format)
			}
			report, err := store.Load(args[0])
			if err != nil {
				return err
			}
			return render.New(f).Render(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(render.FormatTable), "output format: table or json")

	return cmd
}
