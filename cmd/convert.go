package cmd

import (
	"fmt"
	"os"

	"repodoc/pkg/config"
	"repodoc/pkg/convert"
	"repodoc/pkg/logging"
	"repodoc/pkg/version"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var envFiles []string

// convertCmd converts a local repository into one document.
var convertCmd = &cobra.Command{
	Use:   "convert [source]",
	Short: "Convert a repository into a single document",
	Long: `Convert walks the source directory (the current directory by default),
processes every file and writes one HTML or plain-text document.

Settings come from built-in defaults, then REPODOC_* environment variables
(optionally loaded from .env files), then command-line flags.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFiles...); err != nil {
			return err
		}
		cfg, err := resolveConfig(cmd.Flags(), args, os.LookupEnv)
		if err != nil {
			return err
		}
		if cfg.Debug && !debug {
			if err := logging.Setup(true, version.AppName, version.Version); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}

		stats, err := convert.Run(cmd.Context(), cfg, logging.Logger)
		if err != nil {
			logging.Logger.Error("Conversion failed", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d files, %s)\n",
			cfg.Output, stats.FilesRendered, humanize.IBytes(uint64(stats.OutputBytes)))
		if stats.FilesFailed > 0 || stats.FilesDropped > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d files degraded, %d files dropped\n", stats.FilesFailed, stats.FilesDropped)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().AddFlagSet(convertFlags())
	RootCmd.AddCommand(convertCmd)
}

// convertFlags defines the convert flags with the built-in defaults.
func convertFlags() *pflag.FlagSet {
	d := config.Default()
	f := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	f.StringP("output", "o", d.Output, "Output document path")
	f.StringP("format", "f", d.Format, "Output format: html or text")
	f.String("title", d.Title, "Document title (source directory name when empty)")
	f.IntP("concurrency", "c", d.MaxConcurrency, "Maximum files processed at once")
	f.Bool("remove-comments", d.RemoveComments, "Strip comments from code files")
	f.Bool("remove-empty-lines", d.RemoveEmptyLines, "Drop blank lines from code files")
	f.Bool("include-hidden", d.IncludeHiddenFiles, "Include dot-prefixed files and directories")
	f.StringSliceP("ignore", "i", nil, "Gitignore-style patterns to exclude (repeatable)")
	f.Bool("incremental", d.UseIncrementalProcessing, "Process large repositories in spilled chunks")
	f.Int("chunk-size", d.IncrementalChunkSize, "Files per incremental chunk")
	f.String("spill-dir", d.SpillDir, "Directory for chunk spill records (temporary when empty)")
	f.Int("max-file-size", d.MaxFileSizeKB, "Files above this size in KB are listed by size only")
	f.Bool("line-numbers", d.LineNumbers, "Number the lines of code files")
	f.String("style", d.HighlightStyle, "Syntax highlighting style")
	f.StringSliceVar(&envFiles, "env-file", nil, "Environment files to load (.env when unset)")
	return f
}

// resolveConfig layers defaults, environment and explicitly set flags.
func resolveConfig(flags *pflag.FlagSet, args []string, lookup func(string) (string, bool)) (config.Config, error) {
	cfg, err := config.Default().FromEnv(lookup)
	if err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}
	if len(args) > 0 {
		cfg.Source = args[0]
	}
	cfg.Debug = cfg.Debug || debug

	var errs []error
	set := func(name string, apply func() error) {
		if flags.Changed(name) {
			if err := apply(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	str := func(name string, dst *string) {
		set(name, func() (err error) { *dst, err = flags.GetString(name); return })
	}
	num := func(name string, dst *int) {
		set(name, func() (err error) { *dst, err = flags.GetInt(name); return })
	}
	flag := func(name string, dst *bool) {
		set(name, func() (err error) { *dst, err = flags.GetBool(name); return })
	}
	list := func(name string, dst *[]string) {
		set(name, func() (err error) { *dst, err = flags.GetStringSlice(name); return })
	}

	str("output", &cfg.Output)
	str("format", &cfg.Format)
	str("title", &cfg.Title)
	num("concurrency", &cfg.MaxConcurrency)
	flag("remove-comments", &cfg.RemoveComments)
	flag("remove-empty-lines", &cfg.RemoveEmptyLines)
	flag("include-hidden", &cfg.IncludeHiddenFiles)
	list("ignore", &cfg.IgnorePatterns)
	flag("incremental", &cfg.UseIncrementalProcessing)
	num("chunk-size", &cfg.IncrementalChunkSize)
	str("spill-dir", &cfg.SpillDir)
	num("max-file-size", &cfg.MaxFileSizeKB)
	flag("line-numbers", &cfg.LineNumbers)
	str("style", &cfg.HighlightStyle)

	if len(errs) > 0 {
		return cfg, fmt.Errorf("error reading flags: %w", errs[0])
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
