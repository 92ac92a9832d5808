// Package commands implements CLI command handlers for pdforce.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ferroclast/pdforce/internal/checkpoint"
	"github.com/ferroclast/pdforce/internal/config"
	"github.com/ferroclast/pdforce/internal/cracker"
	"github.com/ferroclast/pdforce/internal/generator"
	"github.com/ferroclast/pdforce/internal/observability"
	"github.com/ferroclast/pdforce/internal/plan"
	"github.com/ferroclast/pdforce/internal/probe"
	"github.com/ferroclast/pdforce/internal/progress"
	"github.com/ferroclast/pdforce/internal/wordlist"
)

// probeAttempts is how often a transiently failing probe is retried before
// the run aborts.
const probeAttempts = 3

// metricsShutdownTimeout bounds how long the scrape endpoint may take to
// drain on exit.
const metricsShutdownTimeout = 2 * time.Second

// searchExecutor runs the search; injected for tests.
type searchExecutor func(ctx context.Context, opts cracker.Options) (*cracker.Summary, error)

// proberFactory opens the target document; injected for tests.
type proberFactory func(path string) (probe.Prober, error)

// ErrPasswordNotFound is returned when the whole candidate space was tried.
var ErrPasswordNotFound = errors.New("password not found: candidate space exhausted")

// ErrInterrupted is returned when a run was stopped with progress saved.
var ErrInterrupted = errors.New("search interrupted, progress saved")

// CrackCommand holds configuration and dependencies for the crack command.
type CrackCommand struct {
	configPath string
	saveConfig bool

	types        []string
	digits       int
	minLength    int
	maxLength    int
	lowercase    bool
	uppercase    bool
	symbols      bool
	dictionary   string
	workers      int
	chunkSize    int
	saveInterval time.Duration
	stateDir     string
	ignoreState  bool
	silent       bool
	verbose      bool
	logFile      string
	metricsAddr  string
	outputFile   string

	runSearch searchExecutor
	newProber proberFactory
}

// NewCrackCommand creates the crack command.
func NewCrackCommand() *cobra.Command {
	return newCrackCommandWithDeps(cracker.Run, func(path string) (probe.Prober, error) {
		pdf, err := probe.NewPDF(path)
		if err != nil {
			return nil, err
		}

		return probe.WithRetry(pdf, probeAttempts), nil
	})
}

func newCrackCommandWithDeps(runSearch searchExecutor, newProber proberFactory) *cobra.Command {
	cc := &CrackCommand{
		runSearch: runSearch,
		newProber: newProber,
	}

	cmd := &cobra.Command{
		Use:   "crack <pdf>",
		Short: "Search for the password of an encrypted PDF",
		Long: "Search for the password of an encrypted PDF using curated guesses,\n" +
			"brute force, and optional dictionary candidates. Progress is saved\n" +
			"periodically, so an interrupted search resumes where it stopped.",
		Args: cobra.ExactArgs(1),
		RunE: cc.run,
	}

	cmd.Flags().StringVar(&cc.configPath, "config", "", "Config file path (default: .pdforce.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&cc.saveConfig, "save-config", false, "Save the effective settings as defaults for later runs")

	cmd.Flags().StringSliceVarP(&cc.types, "types", "t", nil,
		"Password types to try: smart, numeric, alphabetic, alphanumeric, dictionary")
	cmd.Flags().IntVarP(&cc.digits, "digits", "d", 0, "Exact brute-force candidate length (0 = use min/max bounds)")
	cmd.Flags().IntVar(&cc.minLength, "min-length", 0, "Minimum brute-force candidate length")
	cmd.Flags().IntVar(&cc.maxLength, "max-length", 0, "Maximum brute-force candidate length")
	cmd.Flags().BoolVar(&cc.lowercase, "lowercase", false, "Include lowercase letters in alphabetic candidates")
	cmd.Flags().BoolVar(&cc.uppercase, "uppercase", false, "Include uppercase letters in alphabetic candidates")
	cmd.Flags().BoolVar(&cc.symbols, "symbols", false, "Include printable symbols in alphanumeric candidates")
	cmd.Flags().StringVar(&cc.dictionary, "dictionary", "", "Wordlist path for dictionary candidates (.lz4 supported)")

	cmd.Flags().IntVarP(&cc.workers, "workers", "p", 0, "Number of parallel workers (0 = CPU count - 1)")
	cmd.Flags().IntVarP(&cc.chunkSize, "chunk-size", "b", 0, "Candidates per work chunk")
	cmd.Flags().DurationVarP(&cc.saveInterval, "save-interval", "s", 0, "Minimum time between progress saves")
	cmd.Flags().StringVar(&cc.stateDir, "state-dir", "", "Directory for saved progress")
	cmd.Flags().BoolVar(&cc.ignoreState, "ignore-state", false, "Start fresh, ignoring saved progress")

	cmd.Flags().BoolVar(&cc.silent, "silent", false, "Disable progress output")
	cmd.Flags().BoolVarP(&cc.verbose, "verbose", "v", false, "Verbose logging")
	cmd.Flags().StringVar(&cc.logFile, "log-file", "", "Append run logs to this file")
	cmd.Flags().StringVar(&cc.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (empty = disabled)")
	cmd.Flags().StringVarP(&cc.outputFile, "output-file", "o", "", "Write the found password to this file")

	return cmd
}

func (cc *CrackCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := cc.loadConfig(cmd)
	if err != nil {
		return exitErr(ExitConfig, err)
	}

	if cc.saveConfig {
		saveErr := config.SaveConfig(cfg, cc.configPath)
		if saveErr != nil {
			return exitErr(ExitConfig, saveErr)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved as defaults.")
	}

	target, err := plan.DescribeTarget(args[0])
	if err != nil {
		return exitErr(ExitTarget, err)
	}

	words, err := cc.loadWords(cfg)
	if err != nil {
		return exitErr(ExitConfig, err)
	}

	searchPlan, err := cc.buildPlan(target, cfg, words)
	if err != nil {
		return exitErr(ExitConfig, err)
	}

	prober, err := cc.newProber(target.Path)
	if err != nil {
		return exitErr(ExitTarget, err)
	}

	logger, closeLog, err := cc.buildLogger(cmd.ErrOrStderr(), cfg.Output.LogFile)
	if err != nil {
		return exitErr(ExitConfig, err)
	}
	defer closeLog()

	metrics, stopMetrics, err := cc.startMetrics(cfg, logger)
	if err != nil {
		return exitErr(ExitConfig, err)
	}
	defer stopMetrics()

	reporter := progress.Reporter(progress.Silent{})
	if !cfg.Output.Silent {
		reporter = progress.NewConsole(cmd.ErrOrStderr())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := cc.runSearch(ctx, cracker.Options{
		Plan:         searchPlan,
		Prober:       prober,
		Workers:      cfg.Search.Workers,
		ChunkSize:    uint64(cfg.Search.ChunkSize),
		Store:        checkpoint.NewStore(cfg.Checkpoint.Dir, searchPlan.Fingerprint),
		IgnoreState:  cfg.Checkpoint.Ignore,
		SaveInterval: cfg.Checkpoint.SaveInterval,
		Logger:       logger,
		Metrics:      metrics,
		Reporter:     reporter,
	})
	if err != nil {
		return exitErr(ExitTarget, err)
	}

	return cc.report(cmd.OutOrStdout(), cfg, summary)
}

// loadConfig merges the config file, environment, and command-line flags.
// Flags win over everything else.
func (cc *CrackCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cc.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()

	if flags.Changed("types") {
		cfg.Search.Types = cc.types
	}

	if flags.Changed("digits") {
		cfg.Search.Digits = cc.digits
	}

	if flags.Changed("min-length") {
		cfg.Search.MinLength = cc.minLength
	}

	if flags.Changed("max-length") {
		cfg.Search.MaxLength = cc.maxLength
	}

	if cc.lowercase || cc.uppercase {
		cfg.Search.Case = caseFor(cc.lowercase, cc.uppercase)
	}

	if flags.Changed("symbols") {
		cfg.Search.Symbols = cc.symbols
	}

	if flags.Changed("dictionary") {
		cfg.Search.Wordlist = cc.dictionary

		if !hasType(cfg.Search.Types, string(generator.KindDictionary)) {
			cfg.Search.Types = append(cfg.Search.Types, string(generator.KindDictionary))
		}
	}

	if flags.Changed("workers") {
		cfg.Search.Workers = cc.workers
	}

	if flags.Changed("chunk-size") {
		cfg.Search.ChunkSize = cc.chunkSize
	}

	if flags.Changed("save-interval") {
		cfg.Checkpoint.SaveInterval = cc.saveInterval
	}

	if flags.Changed("state-dir") {
		cfg.Checkpoint.Dir = cc.stateDir
	}

	if flags.Changed("ignore-state") {
		cfg.Checkpoint.Ignore = cc.ignoreState
	}

	if flags.Changed("silent") {
		cfg.Output.Silent = cc.silent
	}

	if flags.Changed("log-file") {
		cfg.Output.LogFile = cc.logFile
	}

	if flags.Changed("metrics-addr") {
		cfg.Metrics.Enabled = cc.metricsAddr != ""
		cfg.Metrics.Addr = cc.metricsAddr
	}

	if flags.Changed("output-file") {
		cfg.Output.File = cc.outputFile
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// caseFor maps the lowercase/uppercase flag pair to a case mode.
func caseFor(lower, upper bool) string {
	switch {
	case lower && upper:
		return string(generator.CaseMixed)
	case upper:
		return string(generator.CaseUpper)
	default:
		return string(generator.CaseLower)
	}
}

func hasType(types []string, t string) bool {
	for _, existing := range types {
		if existing == t {
			return true
		}
	}

	return false
}

func (cc *CrackCommand) loadWords(cfg *config.Config) ([]string, error) {
	if !hasType(cfg.Search.Types, string(generator.KindDictionary)) {
		return nil, nil
	}

	return wordlist.Load(cfg.Search.Wordlist)
}

func (cc *CrackCommand) buildPlan(target plan.Target, cfg *config.Config, words []string) (*plan.Plan, error) {
	return plan.Build(target, plan.Settings{
		Kinds:        cfg.Kinds(),
		MinLength:    cfg.Search.MinLength,
		MaxLength:    cfg.Search.MaxLength,
		ExactLength:  cfg.Search.Digits,
		Case:         cfg.CaseMode(),
		Symbols:      cfg.Search.Symbols,
		WordlistPath: cfg.Search.Wordlist,
	}, words)
}

// buildLogger assembles the run logger: verbose logs to stderr, a log file
// captures entries regardless of verbosity, and with neither the logger
// discards. The returned close function releases the log file.
func (cc *CrackCommand) buildLogger(w io.Writer, logFile string) (*slog.Logger, func(), error) {
	noop := func() {}

	level := slog.LevelInfo
	if cc.verbose {
		level = slog.LevelDebug
	}

	if logFile == "" {
		if !cc.verbose {
			return slog.New(slog.NewTextHandler(io.Discard, nil)), noop, nil
		}

		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), noop, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, noop, fmt.Errorf("open log file: %w", err)
	}

	out := io.Writer(f)
	if cc.verbose {
		out = io.MultiWriter(w, f)
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	return logger, func() { _ = f.Close() }, nil
}

// startMetrics brings up the Prometheus scrape endpoint when enabled. The
// returned stop function is always safe to call.
func (cc *CrackCommand) startMetrics(cfg *config.Config, logger *slog.Logger) (*observability.SearchMetrics, func(), error) {
	if !cfg.Metrics.Enabled {
		return nil, func() {}, nil
	}

	meter, handler, err := observability.PrometheusMeter()
	if err != nil {
		return nil, func() {}, err
	}

	metrics, err := observability.NewSearchMetrics(meter)
	if err != nil {
		return nil, func() {}, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		serveErr := server.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Warn("metrics endpoint failed", "addr", cfg.Metrics.Addr, "error", serveErr)
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}

	return metrics, stop, nil
}

// report prints the outcome and maps it to the command's exit status.
func (cc *CrackCommand) report(out io.Writer, cfg *config.Config, summary *cracker.Summary) error {
	tried := humanize.Comma(int64(summary.TotalTried))
	elapsed := summary.TotalElapsed.Round(time.Second)
	rate := rateFor(summary.Tried, summary.Elapsed)

	switch summary.Status {
	case cracker.StatusFound:
		color.New(color.FgGreen, color.Bold).Fprintf(out, "Password found: %s\n", summary.Password)
		fmt.Fprintf(out, "  generator: %s (offset %d)\n", summary.Generator, summary.Offset)
		fmt.Fprintf(out, "  tried:     %s candidates in %s (%s/s)\n", tried, elapsed, rate)

		return cc.writeOutputFile(cfg, summary.Password)

	case cracker.StatusExhausted:
		color.New(color.FgRed).Fprintln(out, "Password not found.")
		fmt.Fprintf(out, "  tried:     %s candidates in %s (%s/s)\n", tried, elapsed, rate)

		return exitErr(ExitExhausted, ErrPasswordNotFound)

	default:
		color.New(color.FgYellow).Fprintln(out, "Interrupted. Run again to resume.")
		fmt.Fprintf(out, "  tried:     %s candidates so far\n", tried)

		return exitErr(ExitInterrupted, ErrInterrupted)
	}
}

func rateFor(tried uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "0"
	}

	return humanize.Comma(int64(float64(tried) / elapsed.Seconds()))
}

func (cc *CrackCommand) writeOutputFile(cfg *config.Config, password string) error {
	if cfg.Output.File == "" {
		return nil
	}

	err := os.WriteFile(cfg.Output.File, []byte(password+"\n"), 0o600)
	if err != nil {
		return exitErr(ExitConfig, fmt.Errorf("write output file: %w", err))
	}

	return nil
}
