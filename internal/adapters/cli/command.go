package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"arbmerge/internal/application"
	"arbmerge/internal/config"
	"arbmerge/internal/infrastructure/filesystem"
	"arbmerge/internal/infrastructure/i18n"
	"arbmerge/internal/ports/input"
	"arbmerge/pkg/jsonfmt"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1
	ExitUsage  = 2
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

type flags struct {
	configPath    string
	root          string
	source        string
	output        string
	locale        string
	uiLang        string
	allDuplicates bool
	dryRun        bool
	quiet         bool
}

// exitError carries the process exit code up to Execute.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	// flag and argument errors
	fmt.Fprintf(stderr, "arbmerge: %v\n", err)
	fmt.Fprintln(stderr, cmd.UsageString())
	return ExitUsage
}

// NewRootCommand builds the arbmerge command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "arbmerge",
		Short: "Merge per-feature ARB files into one catalog",
		Long: "Merge every feature-module translation file matching a glob into a single\n" +
			"catalog for one locale. A key defined twice aborts the merge and leaves the\n" +
			"destination untouched.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd, f, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	fs := root.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "TOML configuration file (default ./"+config.DefaultFile+" when present)")
	fs.StringVar(&f.root, "root", "", "project directory the pattern and output are relative to")
	fs.StringVarP(&f.source, "source", "s", "", "glob of source files, ** allowed")
	fs.StringVarP(&f.output, "output", "o", "", "merged catalog to write")
	fs.StringVarP(&f.locale, "locale", "l", "", "locale written under @@locale")
	fs.StringVar(&f.uiLang, "ui-lang", "", "language of console messages (en, fr)")
	fs.BoolVar(&f.allDuplicates, "all-duplicates", false, "report every duplicate key instead of stopping at the first")
	fs.BoolVar(&f.dryRun, "dry-run", false, "print the merged catalog instead of writing it")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only print one line per source file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "arbmerge %s\n", Version)
		},
	})

	return root
}

// overrides applies the flags the user actually set.
func (f *flags) overrides(cmd *cobra.Command) config.Option {
	changed := cmd.Flags().Changed
	return func(c *config.Config) {
		if changed("root") {
			c.Root = f.root
		}
		if changed("source") {
			c.SourcePattern = f.source
		}
		if changed("output") {
			c.Output = f.output
		}
		if changed("locale") {
			c.Locale = f.locale
		}
		if changed("ui-lang") {
			c.UILang = f.uiLang
		}
		if changed("all-duplicates") {
			c.CollectDuplicates = f.allDuplicates
		}
		if changed("quiet") {
			c.Quiet = f.quiet
		}
	}
}

func runMerge(cmd *cobra.Command, f *flags, stdout, stderr io.Writer) error {
	translator := i18n.NewTranslator("en")

	cfg, err := config.Load(f.configPath, config.UILanguages(translator.Languages()...), f.overrides(cmd))
	if err != nil {
		for _, msg := range errorMessages(translator, "", err, "") {
			fmt.Fprintln(stderr, msg)
		}
		return &exitError{code: ExitUsage, err: err}
	}

	// progress goes to stderr on dry runs so stdout carries only the catalog
	progressOut := stdout
	if f.dryRun {
		progressOut = stderr
	}
	merger := application.NewMergeService(
		filesystem.NewDiscoverer(cfg.Root),
		filesystem.NewSourceLoader(),
		filesystem.NewCatalogWriter(),
		translator,
		application.Progress{
			Logger: log.New(progressOut, "", 0),
			Lang:   cfg.UILang,
			Quiet:  cfg.Quiet,
		},
	)

	destination := cfg.OutputPath()
	result, err := merger.Run(cmd.Context(), input.MergeRequest{
		Pattern:           cfg.SourcePattern,
		Destination:       destination,
		Locale:            cfg.Locale,
		CollectDuplicates: cfg.CollectDuplicates,
		DryRun:            f.dryRun,
	})
	if err != nil {
		for _, msg := range errorMessages(translator, cfg.UILang, err, destination) {
			fmt.Fprintln(stderr, msg)
		}
		return &exitError{code: ExitFailed, err: err}
	}

	if len(result.Files) == 0 {
		fmt.Fprintln(progressOut, translator.T(cfg.UILang, "merge.no_sources", map[string]any{"Pattern": cfg.SourcePattern}))
	}

	summary := map[string]any{
		"Keys":  result.Added,
		"Files": len(result.Files),
		"Path":  destination,
	}
	if f.dryRun {
		data, err := jsonfmt.MarshalIndent(result.Catalog)
		if err != nil {
			return &exitError{code: ExitFailed, err: err}
		}
		if _, err := stdout.Write(data); err != nil {
			return &exitError{code: ExitFailed, err: err}
		}
		fmt.Fprintln(stderr, translator.T(cfg.UILang, "merge.dry_run", summary))
		return nil
	}
	fmt.Fprintln(stdout, translator.T(cfg.UILang, "merge.done", summary))
	return nil
}
