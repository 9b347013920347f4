// Package main provides the entry point for the brl CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/brl/braille"
	"github.com/dgnsrekt/brl/internal/batch"
	"github.com/dgnsrekt/brl/internal/cache"
	"github.com/dgnsrekt/brl/internal/source"
	"github.com/dgnsrekt/brl/internal/watch"
	"github.com/dgnsrekt/brl/ui"
	"github.com/dgnsrekt/brl/utils"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/unicode/norm"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile   string
	tui          bool
	width        uint
	markdown     bool
	nfc          bool
	showStats    bool
	watchSource  bool
	showAllFiles bool
	filter       string
	jobs         int
	mouse        bool

	rootCmd = &cobra.Command{
		Use:   "brl [SOURCE|DIR]...",
		Short: "Transliterate text into Grade 1 Braille on the CLI",
		Long: paragraph(
			fmt.Sprintf("\nTransliterate text into %s on the CLI.", keyword("Grade 1 Braille")),
		),
		Example: paragraph("brl README.md\necho 'Hello 2024!' | brl\nbrl --markdown docs/\nbrl"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateOptions(cmd, args)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command, args []string) error {
	// A missing file is created by the config command.
	if _, err := os.Stat(configFile); configFile != "" && err == nil {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	// grab config values from Viper
	width = viper.GetUint("width")
	markdown = viper.GetBool("markdown")
	nfc = viper.GetBool("nfc")
	showStats = viper.GetBool("stats")
	showAllFiles = viper.GetBool("all")
	jobs = viper.GetInt("jobs")
	mouse = viper.GetBool("mouse")
	tui = viper.GetBool("tui")

	if jobs <= 0 {
		jobs = batch.DefaultWorkers()
	}

	if watchSource {
		if tui || cmd.Flags().Changed("tui") {
			return errors.New("cannot use both watch and tui: the tui reloads on change by itself")
		}
		if len(args) != 1 {
			return errors.New("watch needs exactly one file")
		}
	}
	return nil
}

func encoderOptions() []braille.Option {
	if nfc {
		return []braille.Option{braille.WithNormalization(norm.NFC)}
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	if len(args) == 0 {
		yes, err := stdinIsPipe()
		if err != nil {
			return err
		}
		if !yes {
			// Nothing to read: open the live editor.
			return runTUI("", "", true)
		}
		args = []string{source.Stdin}
	}

	if watchSource {
		return executeWatch(ctx, args[0], os.Stdout)
	}

	for _, arg := range args {
		if err := executeArg(cmd, arg, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

func executeArg(cmd *cobra.Command, arg string, w io.Writer) error {
	src, err := source.Open(cmd.Context(), arg)
	if errors.Is(err, source.ErrIsDirectory) {
		return executeDir(cmd.Context(), utils.ExpandPath(arg), w)
	}
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck
	return executeCLI(cmd, src, w)
}

func executeCLI(cmd *cobra.Command, src *source.Source, w io.Writer) error {
	if tui || cmd.Flags().Changed("tui") {
		if src.Name != "" && !isURL(src.Name) {
			return runTUI(src.Name, "", false)
		}
		text, err := src.ReadAll()
		if err != nil {
			return err
		}
		return runTUI("", source.Prepare(text, markdown || src.IsMarkdown()), false)
	}

	// Plain stdin is streamed so it can be of any length.
	if src.Name == "" && !markdown && width == 0 {
		return streamCLI(src, w)
	}

	text, err := src.ReadAll()
	if err != nil {
		return err
	}
	text = source.Prepare(text, markdown || src.IsMarkdown())

	out, stats := braille.NewEncoder(encoderOptions()...).EncodeStats(text)
	if out != "" {
		if _, err := fmt.Fprintln(w, utils.WrapBraille(out, int(width))); err != nil { //nolint:gosec
			return fmt.Errorf("unable to write to writer: %w", err)
		}
	}
	printStats(src.Name, stats)
	return nil
}

func streamCLI(src *source.Source, w io.Writer) error {
	bw := braille.NewWriter(w, encoderOptions()...)
	if _, err := io.Copy(bw, src); err != nil {
		return fmt.Errorf("unable to encode stdin: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("unable to write to writer: %w", err)
	}

	stats := bw.Stats()
	if stats.Cells+stats.Unmapped > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("unable to write to writer: %w", err)
		}
	}
	printStats("", stats)
	return nil
}

// executeDir encodes every text document below dir.
func executeDir(ctx context.Context, dir string, w io.Writer) error {
	files, err := source.Discover(ctx, dir, showAllFiles)
	if err != nil {
		return err
	}
	base, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("unable to get absolute path: %w", err)
	}

	files = source.Filter(files, base, filter)
	if len(files) == 0 {
		return fmt.Errorf("no text documents found in %s", dir)
	}

	batchJobs := make([]batch.Job, len(files))
	for i, f := range files {
		batchJobs[i] = batch.Job{Index: i, Name: f}
	}

	// Each job writes only its own slot.
	stats := make([]braille.Stats, len(files))
	// Identical documents, like vendored copies of a license, are encoded once.
	enc := cache.NewEncoder(braille.NewEncoder(encoderOptions()...), cache.DefaultCapacity)
	results := batch.Run(ctx, batchJobs, jobs, func(_ context.Context, job batch.Job) (string, error) {
		src, err := source.OpenFile(job.Name)
		if err != nil {
			return "", err
		}
		text, err := src.ReadAll()
		if err != nil {
			return "", err
		}
		out, st := enc.EncodeStats(source.Prepare(text, markdown || src.IsMarkdown()))
		stats[job.Index] = st
		return utils.WrapBraille(out, int(width)), nil //nolint:gosec
	})

	var total braille.Stats
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		name := r.Job.Name
		if rel, err := filepath.Rel(base, name); err == nil {
			name = rel
		}
		fmt.Fprintf(w, "==> %s <==\n", name)
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, r.Err)
			continue
		}
		if r.Output != "" {
			fmt.Fprintln(w, r.Output)
		}
		log.Debug("encoded document", "name", name, "duration", r.Duration)
		total = total.Add(stats[i])
	}
	printStats(dir, total)

	if failed := batch.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d documents failed", len(failed), len(results))
	}
	return nil
}

// executeWatch encodes a file and re-encodes it whenever it changes, until
// ctx is cancelled.
func executeWatch(ctx context.Context, arg string, w io.Writer) error {
	if arg == source.Stdin || isURL(arg) {
		return fmt.Errorf("cannot watch %s: not a local file", arg)
	}
	path := utils.ExpandPath(arg)
	enc := cache.NewEncoder(braille.NewEncoder(encoderOptions()...), cache.DefaultCapacity)
	encodeFile := func() error {
		src, err := source.Open(ctx, path)
		if err != nil {
			return err
		}
		text, err := src.ReadAll()
		if err != nil {
			return err
		}
		out, stats := enc.EncodeStats(source.Prepare(text, markdown || src.IsMarkdown()))
		fmt.Fprintln(w, utils.WrapBraille(out, int(width))) //nolint:gosec
		printStats(src.Name, stats)
		return nil
	}

	if err := encodeFile(); err != nil {
		return err
	}

	watcher, err := watch.New(path, watch.DefaultInterval)
	if err != nil {
		return err
	}
	defer watcher.Close() //nolint:errcheck

	errc := make(chan error, 1)
	go func() { errc <- watcher.Run(ctx) }()

	for range watcher.Events() {
		log.Debug("source changed", "path", watcher.Path())
		fmt.Fprintln(w)
		if err := encodeFile(); err != nil {
			// Keep watching: the file may be mid-save.
			log.Warn("unable to encode changed file", "path", watcher.Path(), "error", err)
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if err := <-errc; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printStats(name string, stats braille.Stats) {
	if !showStats {
		return
	}
	if name == "" {
		name = "stdin"
	}
	fmt.Fprintf(os.Stderr, "%s: %s runes, %s cells, %s capitals, %s number runs, %s unmapped\n",
		name,
		humanize.Comma(int64(stats.Runes)),
		humanize.Comma(int64(stats.Cells)),
		humanize.Comma(int64(stats.Capitals)),
		humanize.Comma(int64(stats.NumberRuns)),
		humanize.Comma(int64(stats.Unmapped)),
	)
}

func isURL(s string) bool {
	return strings.Contains(s, "://")
}

func runTUI(path string, content string, edit bool) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Path = path
	cfg.Editor = edit
	cfg.Width = width
	cfg.Markdown = markdown
	cfg.Normalize = nfc
	cfg.EnableMouse = mouse

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, content).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = rootCmd.ExecuteContext(ctx)
	stop()
	_ = closer()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().BoolVarP(&tui, "tui", "t", false, "display with tui")
	rootCmd.PersistentFlags().UintVarP(&width, "width", "w", 0, "wrap Braille at width (set to 0 to disable)")
	rootCmd.Flags().BoolVarP(&markdown, "markdown", "M", false, "reduce Markdown to plain text before encoding")
	rootCmd.Flags().BoolVar(&nfc, "nfc", false, "apply NFC normalization before encoding")
	rootCmd.Flags().BoolVar(&showStats, "stats", false, "print encoding statistics to stderr")
	rootCmd.Flags().BoolVar(&watchSource, "watch", false, "re-encode the file whenever it changes")
	rootCmd.Flags().BoolVarP(&showAllFiles, "all", "a", false, "include hidden and ignored files in directories")
	rootCmd.Flags().StringVarP(&filter, "filter", "f", "", "only encode documents whose path fuzzy-matches this pattern")
	rootCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "documents encoded in parallel (default: number of CPUs)")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel (TUI-mode only)")
	_ = rootCmd.Flags().MarkHidden("mouse")

	// Config bindings
	_ = viper.BindPFlag("tui", rootCmd.Flags().Lookup("tui"))
	_ = viper.BindPFlag("width", rootCmd.PersistentFlags().Lookup("width"))
	_ = viper.BindPFlag("markdown", rootCmd.Flags().Lookup("markdown"))
	_ = viper.BindPFlag("nfc", rootCmd.Flags().Lookup("nfc"))
	_ = viper.BindPFlag("stats", rootCmd.Flags().Lookup("stats"))
	_ = viper.BindPFlag("all", rootCmd.Flags().Lookup("all"))
	_ = viper.BindPFlag("jobs", rootCmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))

	viper.SetDefault("width", 0)
	viper.SetDefault("jobs", 0)

	rootCmd.AddCommand(configCmd, manCmd, tableCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	// A .env in the working directory may carry BRL_ variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not parse .env file", "err", err)
	}

	scope := gap.NewScope(gap.User, "brl")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "brl")}, dirs...)
	}

	if c := os.Getenv("BRL_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("brl")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("brl")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "brl.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
