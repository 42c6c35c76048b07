package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/spotter-dz/spotter/internal/cache"
	"github.com/spotter-dz/spotter/internal/config"
	"github.com/spotter-dz/spotter/internal/influx"
	"github.com/spotter-dz/spotter/internal/logging"
	intOtel "github.com/spotter-dz/spotter/internal/otel"
	"github.com/spotter-dz/spotter/internal/planner"
	"github.com/spotter-dz/spotter/internal/storage"
	"github.com/spotter-dz/spotter/pkg/core"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"

	AppName string = "spotter"
)

const usage = `usage: spotter [--config DIR] <command> [flags]

commands:
  calc <scenario.json>                 print exit points and drift as JSON
  geojson <scenario.json> [--epsg N]   print a GeoJSON FeatureCollection (4326 or 3857)
  history [--limit N]                  list stored calculations
  version                              print the version
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet(AppName, pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	configDir := global.String("config", ".", "directory containing "+config.ConfigName)
	logLevel := global.String("log-level", "", "override the configured log level")
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	if err := global.Parse(args); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cmd, cmdArgs := rest[0], rest[1:]
	if cmd == "version" {
		fmt.Fprintf(stdout, "%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
		return 0
	}

	handler, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	a, err := newApp(*configDir, *logLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "spotter: %v\n", err)
		return 1
	}
	defer a.Close()

	if err := handler(context.Background(), a, cmdArgs, stdout, stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		a.log.Error("Command failed", "command", cmd, "error", err)
		fmt.Fprintf(stderr, "spotter %s: %v\n", cmd, err)
		return 1
	}
	return 0
}

// app is the wired process state shared by all commands.
type app struct {
	logs     *logging.SlogManager
	log      *slog.Logger
	logFile  *os.File
	otel     *intOtel.Provider
	otelFile *os.File
	store    storage.Backend
	influx   *influx.Manager
	planner  *planner.Service
	defaults core.JumpParameters
}

func newApp(configDir, logLevel string, stderr io.Writer) (*app, error) {
	configErr := config.Load(configDir)

	level := config.GetString("logLevel")
	if logLevel != "" {
		level = logLevel
	}

	a := &app{logs: logging.NewSlogManager()}

	var logOut io.Writer = stderr
	if logsDir := config.GetString("logsDir"); logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs dir: %w", err)
		}
		f, err := os.OpenFile(logging.LogFilePath(logsDir, AppName, time.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		logOut = f
	}

	otelErr := a.openOTel(config.GetOTelConfig())

	a.logs.Setup(logOut, level, planner.LogAttrs, a.otel.Handler(AppName))
	a.log = a.logs.Component("main")
	if configErr != nil {
		a.log.Warn("Using default configuration", "error", configErr)
	}
	if otelErr != nil {
		a.log.Error("Failed to initialize OTel provider", "error", otelErr)
	} else if a.otel.Enabled() {
		a.log.Info("OTel provider initialized", "endpoint", config.GetOTelConfig().Endpoint)
	}
	a.log.Info("Starting", "version", CurrentVersion, "build", BuildDate)

	zl := logging.NewZerolog(logOut, level)

	store, err := storage.NewBackend(config.GetStorageConfig(), config.GetDBConfig(), zl)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := store.Init(); err != nil {
		_ = store.Close()
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.store = store

	if ic := config.GetInfluxConfig(); ic.Enabled {
		im := influx.NewManager(zl, ic)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := im.Connect(ctx)
		cancel()
		if err != nil {
			a.log.Warn("Telemetry disabled", "error", err)
			_ = im.Close()
		} else {
			a.influx = im
		}
	}

	results, err := cache.New(config.GetCacheConfig().Size)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.planner, err = planner.New(planner.Dependencies{
		Options:    config.GetEngineConfig(),
		Cache:      results,
		Storage:    a.store,
		Influx:     a.influx,
		LogManager: a.logs,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.defaults = config.GetDefaultJump()
	return a, nil
}

// openOTel sets up OTel log export. On failure a.otel stays a disabled
// provider so logging works without it.
func (a *app) openOTel(oc config.OTelConfig) error {
	a.otel, _ = intOtel.New(intOtel.Config{})
	if !oc.Enabled {
		return nil
	}

	cfg := intOtel.Config{
		Enabled:      true,
		ServiceName:  oc.ServiceName,
		BatchTimeout: oc.BatchTimeout,
		Endpoint:     oc.Endpoint,
		Insecure:     oc.Insecure,
	}
	if oc.LogWriter != "" {
		if err := os.MkdirAll(filepath.Dir(oc.LogWriter), 0755); err != nil {
			return fmt.Errorf("failed to create OTel log dir: %w", err)
		}
		f, err := os.OpenFile(oc.LogWriter, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open OTel log file: %w", err)
		}
		cfg.LogWriter = f
		a.otelFile = f
	}

	p, err := intOtel.New(cfg)
	if err != nil {
		if a.otelFile != nil {
			_ = a.otelFile.Close()
			a.otelFile = nil
		}
		return err
	}
	a.otel = p
	return nil
}

// Close releases everything newApp opened.
func (a *app) Close() {
	if a.influx != nil {
		if err := a.influx.Close(); err != nil {
			a.log.Error("Failed to close telemetry", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Error("Failed to close storage", "error", err)
		}
	}
	if a.otel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otel.Shutdown(ctx); err != nil {
			a.log.Error("Failed to flush OTel logs", "error", err)
		}
		cancel()
	}
	if a.otelFile != nil {
		_ = a.otelFile.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
