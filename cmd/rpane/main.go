package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/rpane/internal/app"
	"github.com/kk-code-lab/rpane/internal/config"
	fsutil "github.com/kk-code-lab/rpane/internal/fs"
	"github.com/kk-code-lab/rpane/internal/logging"
	"github.com/kk-code-lab/rpane/internal/shellsetup"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const usage = `rpane - three-panel terminal file browser

USAGE:
    rpane [OPTIONS] [DIR]

OPTIONS:
    -h, --help              Show this help message and exit
    -s, --setup [SHELL]     Output shell integration snippet (optionally force SHELL)
    --config PATH           Read settings from PATH
    --show-hidden           Start with hidden entries shown
    --cache-capacity N      Number of listings and previews kept in memory
    --workers N             Concurrent filesystem reads
    --no-watch              Do not follow filesystem changes
    --log-file PATH         Write logs to PATH
    --log-level LEVEL       debug, info, warn or error
    --metrics-addr ADDR     Serve Prometheus metrics on ADDR
`

var parentShellDetector = shellsetup.DetectParentShellName

type options struct {
	configPath    string
	showHidden    bool
	cacheCapacity int
	workers       int
	noWatch       bool
	logFile       string
	logLevel      string
	metricsAddr   string
	dir           string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		arg := args[0]
		switch {
		case arg == "-s" || arg == "--setup":
			shellOverride := ""
			if len(args) > 1 {
				shellOverride = args[1]
			}
			return printSetup(stdout, stderr, shellOverride)
		case strings.HasPrefix(arg, "--setup="):
			return printSetup(stdout, stderr, strings.TrimPrefix(arg, "--setup="))
		}
	}

	opts, cfg, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		fmt.Fprint(stdout, usage)
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "rpane: %v\n", err)
		return 1
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogFile,
	}); err != nil {
		fmt.Fprintf(stderr, "rpane: init logging: %v\n", err)
		return 1
	}
	defer func() {
		_ = logging.Sync()
	}()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(stderr, "rpane: stdin and stdout must be a terminal")
		return 1
	}

	start, err := startDir(opts.dir)
	if err != nil {
		fmt.Fprintf(stderr, "rpane: %v\n", err)
		return 1
	}

	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := apppkg.NewApplication(cfg, start)
	if err != nil {
		fmt.Fprintf(stderr, "rpane: %v\n", err)
		return 1
	}
	logging.L().Info("starting", zap.String("dir", start), zap.Int("cache_capacity", cfg.CacheCapacity))

	runErr := app.Run(ctx)
	_ = app.Close()
	if runErr != nil {
		logging.L().Error("stopped with error", zap.Error(runErr))
		fmt.Fprintf(stderr, "rpane: %v\n", runErr)
		return 1
	}

	if path := app.CurrentPath(); path != "" {
		if err := shellsetup.WriteResult(path); err != nil {
			fmt.Fprintf(stderr, "rpane: warning: %v\n", err)
		}
	}
	return 0
}

func printSetup(stdout, stderr io.Writer, shellOverride string) int {
	err := shellsetup.PrintSetup(stdout, shellOverride, shellsetup.Config{DetectParent: parentShellDetector})
	if err != nil {
		fmt.Fprintf(stderr, "rpane: %v\n", err)
		return 1
	}
	return 0
}

// parseArgs loads the configuration and applies the flags given explicitly
// on top of it.
func parseArgs(args []string, stderr io.Writer) (options, config.Config, error) {
	var opts options
	fs := flag.NewFlagSet("rpane", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {}
	fs.StringVar(&opts.configPath, "config", "", "configuration file")
	fs.BoolVar(&opts.showHidden, "show-hidden", false, "show hidden entries")
	fs.IntVar(&opts.cacheCapacity, "cache-capacity", 0, "cache capacity")
	fs.IntVar(&opts.workers, "workers", 0, "concurrent reads")
	fs.BoolVar(&opts.noWatch, "no-watch", false, "disable filesystem watching")
	fs.StringVar(&opts.logFile, "log-file", "", "log file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "metrics listen address")
	if err := fs.Parse(args); err != nil {
		return opts, config.Config{}, err
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.dir = fs.Arg(0)
	default:
		return opts, config.Config{}, fmt.Errorf("expected at most one directory, got %d", fs.NArg())
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return opts, cfg, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "show-hidden":
			cfg.ShowHidden = opts.showHidden
		case "cache-capacity":
			cfg.CacheCapacity = opts.cacheCapacity
		case "workers":
			cfg.Workers = opts.workers
		case "no-watch":
			cfg.Watch = !opts.noWatch
		case "log-file":
			cfg.LogFile = opts.logFile
		case "log-level":
			cfg.LogLevel = opts.logLevel
		case "metrics-addr":
			cfg.MetricsAddr = opts.metricsAddr
		}
	})
	return opts, cfg, cfg.Validate()
}

// startDir resolves the directory to open, defaulting to the working
// directory.
func startDir(arg string) (string, error) {
	if arg == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		arg = cwd
	}
	path := fsutil.Canonical(arg)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", arg, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", arg)
	}
	return path, nil
}
