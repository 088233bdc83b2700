package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/flowarts/pictograph/internal/config"
	"github.com/flowarts/pictograph/internal/dispatcher"
	"github.com/flowarts/pictograph/internal/logging"
	"github.com/flowarts/pictograph/internal/motion"
	intOtel "github.com/flowarts/pictograph/internal/otel"
	"github.com/flowarts/pictograph/internal/parser"
	"github.com/flowarts/pictograph/internal/placement"

	"github.com/spf13/viper"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.1.0"
	BuildDate      string = "unknown"

	AppName string = "pictograph"
)

// app carries everything the command handlers share for one invocation.
type app struct {
	ctx    context.Context
	logger *slog.Logger

	parser    *parser.Parser
	calc      *motion.Calculator
	generator *placement.Generator

	// word and beat being processed, stamped on every log record
	scope *logging.Scope

	dbLogOut io.Writer
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

// run parses flags, sets up the ambient stack and dispatches one command.
// The command's result is written to out.
func run(ctx context.Context, args []string, out io.Writer) int {
	defer viper.Reset()

	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	configDir := fs.String("config", ".", "directory containing "+config.ConfigFileName)
	logToFile := fs.Bool("logfile", false, "also write a session log under logsDir")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	sessionStart := time.Now()
	a := &app{ctx: ctx, dbLogOut: os.Stderr, scope: logging.NewScope()}

	slogManager := logging.NewSlogManager()
	slogManager.Scope = a.scope

	cfgErr := config.Load(*configDir)

	var logFile *os.File
	if *logToFile {
		logsDir := config.GetString("logsDir")
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create logs directory: %v\n", err)
			return 1
		}
		path := logging.LogFilePath(logsDir, AppName, sessionStart)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", path, err)
			return 1
		}
		defer f.Close()
		logFile = f
		a.dbLogOut = f
	}

	otelProvider, otelErr := setupOTel(ctx, logFile)
	defer otelProvider.Shutdown(context.Background())

	var file io.Writer
	if logFile != nil {
		file = logFile
	}
	slogManager.Setup(file, config.GetString("logLevel"), otelProvider.LoggerProvider())
	logger := slogManager.Logger()
	a.logger = logger

	logger.Debug("Starting", "version", CurrentVersion, "buildDate", BuildDate)
	if cfgErr != nil {
		logger.Debug("Using default configuration", "dir", *configDir, "error", cfgErr)
	}
	if otelErr != nil {
		logger.Error("Failed to initialize OTel provider", "error", otelErr)
	} else if sinks := otelProvider.Sinks(); len(sinks) > 0 {
		logger.Debug("OTel log export enabled", "sinks", sinks)
	}

	if err := a.init(); err != nil {
		logger.Error("Failed to initialize", "error", err)
		return 1
	}

	d, err := dispatcher.New(logger)
	if err != nil {
		logger.Error("Failed to create dispatcher", "error", err)
		return 1
	}
	a.register(d)

	rest := fs.Args()
	if len(rest) == 0 {
		usage(os.Stderr, d)
		return 2
	}

	result, err := d.Dispatch(dispatcher.Event{
		Command:   strings.ToLower(rest[0]),
		Args:      rest[1:],
		Timestamp: sessionStart,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if !d.HasHandler(strings.ToLower(rest[0])) {
			usage(os.Stderr, d)
		}
		return 1
	}

	if err := writeResult(out, result); err != nil {
		logger.Error("Failed to write result", "error", err)
		return 1
	}
	return 0
}

func (a *app) init() error {
	var err error

	a.parser = parser.NewParser(a.logger)

	var opts []motion.Option
	if eps := config.GetMotionConfig().StaticThreshold; eps > 0 {
		opts = append(opts, motion.WithStaticThreshold(eps))
	}
	a.calc, err = motion.NewCalculator(a.logger, opts...)
	if err != nil {
		return err
	}

	a.generator, err = placement.NewGenerator(a.logger)
	if err != nil {
		return err
	}
	return nil
}

// setupOTel builds the provider when enabled in config. OTel records go to
// the session log file, so file logging must be on unless an endpoint is set.
func setupOTel(ctx context.Context, logFile *os.File) (*intOtel.Provider, error) {
	otelCfg := config.GetOTelConfig()
	cfg := intOtel.Config{
		Enabled:        otelCfg.Enabled,
		ServiceName:    otelCfg.ServiceName,
		ServiceVersion: CurrentVersion,
		BatchTimeout:   otelCfg.BatchTimeout,
		Endpoint:       otelCfg.Endpoint,
		Insecure:       otelCfg.Insecure,
	}
	if logFile != nil {
		cfg.LogWriter = logFile
	}
	return intOtel.New(ctx, cfg)
}

func usage(w io.Writer, d *dispatcher.Dispatcher) {
	fmt.Fprintf(w, "%s\n\nusage: %s [-config dir] [-logfile] <command> [args]\n\ncommands:\n", versionString(), AppName)
	for _, c := range d.Commands() {
		fmt.Fprintf(w, "  %-7s %s\n", c.Name, c.Usage)
	}
}

// writeResult prints strings verbatim and everything else as indented JSON.
func writeResult(w io.Writer, result any) error {
	if s, ok := result.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
