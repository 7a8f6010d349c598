package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"sort"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/fixturegen/internal/batch"
	"github.com/provide-io/fixturegen/internal/config"
	"github.com/provide-io/fixturegen/internal/manifest"
	"github.com/provide-io/fixturegen/internal/outdir"
	"github.com/provide-io/fixturegen/pkg"
	"github.com/provide-io/fixturegen/pkg/fixture"
	"github.com/provide-io/fixturegen/pkg/logging"
	"github.com/provide-io/fixturegen/pkg/utils/permissions"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const version = "0.1.0"

var (
	envFile      string
	outputPath   string
	numFiles     int
	maxSizeMB    float64
	workers      int
	formatList   string
	seed         uint64
	fileMode     string
	manifestPath string
	logLevel     string
	noProgress   bool
	versionFlag  bool
	rootCmd      *cobra.Command
)

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func printVersion() {
	fmt.Printf("fixturegen %s\n", version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}

func init() {
	rootCmd = &cobra.Command{
		Use:          "fixturegen",
		Short:        "Generate synthetic test files",
		Long:         `Generate synthetic files of many formats, each sized to roughly a byte budget`,
		RunE:         runBatch,
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "Path to a .env file (missing is fine)")
	flags.StringVarP(&outputPath, "output", "o", "", "Output directory (OUTPUT_PATH)")
	flags.IntVarP(&numFiles, "count", "n", 0, "Number of files to generate (NUM_FILES)")
	flags.Float64VarP(&maxSizeMB, "max-size-mb", "s", 0, "Per-file size budget in MB (MAX_FILE_SIZE_MB)")
	flags.IntVarP(&workers, "workers", "w", 0, "Parallel workers, 0 for one per CPU (FIXTUREGEN_WORKERS)")
	flags.StringVarP(&formatList, "formats", "f", "", "Comma-separated formats to choose from (FIXTUREGEN_FORMATS)")
	flags.Uint64Var(&seed, "seed", 0, "Seed for a reproducible batch (FIXTUREGEN_SEED)")
	flags.StringVar(&fileMode, "file-mode", "", "Octal mode of generated files (FIXTUREGEN_FILE_MODE)")
	flags.StringVar(&manifestPath, "manifest", "", "bbolt manifest recording runs (FIXTUREGEN_MANIFEST)")
	flags.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	flags.BoolVarP(&versionFlag, "version", "V", false, "Show version information")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, json:<level>)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "formats",
		Short: "List supported formats",
		Args:  cobra.NoArgs,
		Run:   listFormats,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "verify <file>...",
		Short: "Check that generated files are structurally valid",
		Args:  cobra.MinimumNArgs(1),
		RunE:  verifyFiles,
	})
	historyCmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show runs recorded in the manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showHistory,
	}
	historyCmd.Flags().StringVar(&manifestPath, "manifest", "", "bbolt manifest to read (FIXTUREGEN_MANIFEST)")
	rootCmd.AddCommand(historyCmd)
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(name string) hclog.Logger {
	level, source := logging.ResolveLevel(logLevel)
	logger := logging.NewLogger(name, level, logging.OpenOutput(os.Stderr))
	logger.Trace("🔧 Log level resolved", "level", level, "source", source)
	return logger
}

// loadConfig reads .env and the environment, then applies the flags that were set
func loadConfig(cmd *cobra.Command, logger hclog.Logger) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.OutputPath = outputPath
	}
	if flags.Changed("count") {
		cfg.NumFiles = numFiles
	}
	if flags.Changed("max-size-mb") {
		cfg.MaxFileSizeMB = maxSizeMB
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("formats") {
		cfg.Formats = config.SplitFormats(formatList)
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("file-mode") {
		mode, err := permissions.ParseFileMode(fileMode)
		if err != nil {
			return nil, err
		}
		cfg.FileMode = mode
	}
	if flags.Changed("manifest") {
		cfg.ManifestPath = manifestPath
	}

	if err := cfg.Validate(logger); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	if versionFlag {
		printVersion()
		return nil
	}

	logger := newLogger("fixturegen")
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		logger.Error("❌ Invalid configuration", "error", err)
		return err
	}

	dir, err := outdir.Resolve(cfg.OutputPath)
	if err != nil {
		return err
	}
	if err := outdir.Create(dir, permissions.DefaultDirPerms); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progress io.Writer
	if !noProgress && term.IsTerminal(int(os.Stderr.Fd())) {
		progress = os.Stderr
	}

	logger.Info("📁 Output directory ready",
		"path", dir,
		"files", cfg.NumFiles,
		"budget", humanize.IBytes(cfg.BudgetBytes()))

	engine := fixture.NewEngine(logger.Named("engine"))
	runner := batch.NewRunner(engine, logger.Named("batch"))
	summary, runErr := runner.Run(ctx, batch.Options{
		OutputDir:   dir,
		Count:       cfg.NumFiles,
		BudgetBytes: cfg.BudgetBytes(),
		Workers:     cfg.Workers,
		Formats:     cfg.Formats,
		Seed:        cfg.Seed,
		FileMode:    cfg.FileMode,
		Progress:    progress,
	})
	if summary == nil {
		return runErr
	}

	summary.PrintFiles(cmd.OutOrStdout())
	summary.Print(cmd.OutOrStdout())

	if runErr != nil {
		if err := outdir.MarkIncomplete(dir, summary.RunID, runErr.Error()); err != nil {
			logger.Warn("⚠️ Failed to write incomplete marker", "error", err)
		}
	} else if err := outdir.MarkComplete(dir, summary.Marker()); err != nil {
		logger.Warn("⚠️ Failed to write completion marker", "error", err)
	}

	if cfg.ManifestPath != "" {
		if err := recordManifest(cfg.ManifestPath, summary); err != nil {
			logger.Error("❌ Failed to record manifest", "path", cfg.ManifestPath, "error", err)
			runErr = errors.Join(runErr, err)
		} else {
			logger.Debug("📒 Manifest updated", "path", cfg.ManifestPath, "run_id", summary.RunID)
		}
	}

	if runErr == nil && len(summary.Files) == 0 {
		runErr = fmt.Errorf("all %d files failed", len(summary.Failed))
	}
	return runErr
}

func recordManifest(path string, summary *batch.Summary) error {
	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	run, files := summary.Manifest()
	return store.Record(run, files)
}

func listFormats(cmd *cobra.Command, args []string) {
	reg := fixture.DefaultRegistry()
	out := cmd.OutOrStdout()
	for _, name := range reg.Formats() {
		f, _ := reg.Lookup(name)
		fmt.Fprintf(out, "%-8s %-8s .%s\n", f.Name, f.Family, f.Extension)
	}
	fmt.Fprintln(out, "Aliases:")
	aliases := reg.Aliases()
	for _, alias := range sortedKeys(aliases) {
		fmt.Fprintf(out, "  %s -> %s\n", alias, aliases[alias])
	}
}

func verifyFiles(cmd *cobra.Command, args []string) error {
	logger := newLogger("fixturegen-verify")
	if failed := pkg.VerifyFiles(args, logger); failed > 0 {
		return fmt.Errorf("%d of %d files failed verification", failed, len(args))
	}
	return nil
}

func showHistory(cmd *cobra.Command, args []string) error {
	path := manifestPath
	if path == "" {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		path = cfg.ManifestPath
	}
	if path == "" {
		return errors.New("no manifest configured; pass --manifest or set " + config.EnvManifest)
	}

	store, err := manifest.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		run, err := store.Run(args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found", args[0])
		}
		files, err := store.Files(run.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.OutputDir)
		for _, f := range files {
			fmt.Fprintf(out, "  %-40s %-7s %10s %s\n", f.Name, f.Format, humanize.IBytes(uint64(f.Size)), f.Checksum)
		}
		return nil
	}

	runs, err := store.Runs()
	if err != nil {
		return err
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %d/%d files  %s  %s\n",
			run.Started.Format(time.RFC3339),
			run.ID,
			run.Written,
			run.Requested,
			humanize.IBytes(uint64(run.Bytes)),
			batch.FormatElapsed(run.Finished.Sub(run.Started)))
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
