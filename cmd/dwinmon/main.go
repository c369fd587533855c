// cmd/dwinmon/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/dwin-monitor/internal/codec"
	"github.com/tamzrod/dwin-monitor/internal/config"
	"github.com/tamzrod/dwin-monitor/internal/discovery"
	"github.com/tamzrod/dwin-monitor/internal/engine"
	"github.com/tamzrod/dwin-monitor/internal/logging"
	"github.com/tamzrod/dwin-monitor/internal/mirror"
	"github.com/tamzrod/dwin-monitor/internal/poller"
	"github.com/tamzrod/dwin-monitor/internal/rules"
	"github.com/tamzrod/dwin-monitor/internal/serialport"
	"github.com/tamzrod/dwin-monitor/internal/status"
	"github.com/tamzrod/dwin-monitor/internal/store"
	"github.com/tamzrod/dwin-monitor/internal/vp"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	port     string
	baud     int
	config   string
	list     bool
	logLevel string
}

func parseFlags(args []string, stderr io.Writer) (*flag.FlagSet, flags, error) {
	var f flags

	fs := flag.NewFlagSet("dwinmon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.port, "port", "", "serial port (Linux: /dev/ttyUSB0, Windows: COMx, Mac: /dev/cu.usbserial-*)")
	fs.StringVar(&f.port, "p", "", "shorthand for -port")
	fs.IntVar(&f.baud, "baud", 0, "baud rate (default 115200)")
	fs.IntVar(&f.baud, "b", 0, "shorthand for -baud")
	fs.StringVar(&f.config, "config", "", "YAML config file")
	fs.BoolVar(&f.list, "list", false, "list attached USB-serial adapters and exit")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "dwinmon: monitor VP updates from a DWIN display")
		fmt.Fprintln(stderr, "usage: dwinmon -port <device> [-baud 115200] [-config dwinmon.yaml]")
		fs.PrintDefaults()
	}

	err := fs.Parse(args)
	return fs, f, err
}

func run(args []string, stdout, stderr io.Writer) int {
	fs, f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if f.list {
		return listPorts(stdout, stderr)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg := &config.Config{}
	if f.config != "" {
		cfg, err = config.Load(f.config)
		if err != nil {
			fmt.Fprintf(stderr, "config load failed: %v\n", err)
			return exitFailure
		}
	}
	applyFlags(cfg, f)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "config validation failed: %v\n", err)
		return exitFailure
	}
	config.Normalize(cfg)

	if cfg.Serial.Port == "" {
		fmt.Fprintln(stderr, "error: no serial port given")
		fs.Usage()
		return exitUsage
	}

	log := logging.New("dwinmon", logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}, stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return exitCode(log, monitor(ctx, cfg, log, stdout))
}

// exitCode maps the session result to a process status. An interrupt during
// the handshake or the startup push is a clean stop.
func exitCode(log zerolog.Logger, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		log.Info().Msg("interrupted")
		return exitOK
	default:
		log.Error().Err(err).Msg("monitor stopped")
		return exitFailure
	}
}

func applyFlags(cfg *config.Config, f flags) {
	if f.port != "" {
		cfg.Serial.Port = f.port
	}
	if f.baud != 0 {
		cfg.Serial.Baud = f.baud
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
}

func listPorts(stdout, stderr io.Writer) int {
	found, err := discovery.Candidates()
	if err != nil {
		fmt.Fprintf(stderr, "port discovery failed: %v\n", err)
		return exitFailure
	}
	if len(found) == 0 {
		fmt.Fprintln(stdout, "no known USB-serial adapters found")
		return exitOK
	}
	for _, c := range found {
		fmt.Fprintln(stdout, c)
	}
	return exitOK
}

// monitor runs one session against the configured port until the context
// ends or the link fails.
func monitor(ctx context.Context, cfg *config.Config, log zerolog.Logger, stdout io.Writer) error {
	// --------------------
	// Registry (+ saved values, + overrides)
	// --------------------

	schema, err := config.BuildSchema(cfg)
	if err != nil {
		return err
	}
	reg := vp.NewRegistry(schema)

	var st *store.Store
	if cfg.Store.Path != "" {
		st, err = store.New(cfg.Store.Path, reg, log)
		if err != nil {
			return err
		}
		if _, err := st.Load(); err != nil {
			return err
		}
	}

	if err := applyOverrides(reg, cfg.Init.Set); err != nil {
		return err
	}

	// --------------------
	// Transport + engine
	// --------------------

	port, err := serialport.Open(serialport.Config{
		Address:     cfg.Serial.Port,
		BaudRate:    cfg.Serial.Baud,
		ReadTimeout: time.Duration(cfg.Serial.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTransport, err)
	}
	log.Info().Str("port", cfg.Serial.Port).Int("baud", cfg.Serial.Baud).Msg("port opened")

	policy, _ := codec.ParseChecksumPolicy(cfg.Protocol.Checksum)
	eng := engine.New(engine.Config{
		Checksum:     policy,
		FrameTimeout: time.Duration(cfg.Protocol.FrameTimeoutMs) * time.Millisecond,
		ReadChunk:    cfg.Protocol.ReadChunk,
	}, reg, port, engine.WithLogger(log))

	defer func() {
		if err := eng.Close(); err != nil {
			log.Warn().Err(err).Msg("port close failed")
		}
		printStatus(stdout, eng.Status())
	}()

	var tasks []engine.Task

	// --------------------
	// Watchers: store, mirror
	// --------------------

	if st != nil {
		eng.Watch(st.Watch)
	}

	if cfg.Mirror.Enabled {
		task, closeMirror, err := startMirror(cfg.Mirror, eng, log)
		if err != nil {
			return err
		}
		defer closeMirror()
		if task != nil {
			tasks = append(tasks, task)
		}
	}

	// --------------------
	// Rules
	// --------------------

	if !cfg.Rules.DisableGrowth {
		if _, ok := rules.InstallGrowth(eng, log); ok {
			log.Debug().Msg("growth rule installed")
		}
	}
	for _, l := range cfg.Rules.Links {
		if err := rules.InstallLink(eng, rules.Link{When: l.When, Equals: l.Equals, Set: l.Set, Value: l.Value}, log); err != nil {
			return err
		}
	}

	// --------------------
	// Handshake + initial push
	// --------------------

	if !cfg.Handshake.Disabled {
		window := time.Duration(cfg.Handshake.TimeoutMs) * time.Millisecond
		if err := eng.Probe(ctx, cfg.Handshake.VP, cfg.Handshake.Attempts, window); err != nil {
			return err
		}
	}

	push := startup{
		names:   cfg.Init.Push,
		clockVP: cfg.Refresh.ClockVP,
		format:  cfg.Refresh.Format,
		delay:   time.Duration(cfg.Init.DelayMs) * time.Millisecond,
	}
	if cfg.Refresh.Disabled {
		push.clockVP = ""
	}
	if err := push.run(ctx, eng, time.Now()); err != nil {
		return err
	}

	// --------------------
	// Scheduled jobs + main loop
	// --------------------

	p, err := poller.Build(cfg, eng)
	if err != nil {
		return err
	}
	if p != nil {
		tasks = append(tasks, p)
	}

	log.Info().Msg("monitoring started")
	return eng.Run(ctx, tasks...)
}

// applyOverrides stores init.set values in name order.
func applyOverrides(reg *vp.Registry, set map[string]any) error {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := reg.SetByName(name, set[name]); err != nil {
			return fmt.Errorf("init.set: %w", err)
		}
	}
	return nil
}

func startMirror(mc config.MirrorConfig, eng *engine.Engine, log zerolog.Logger) (engine.Task, func(), error) {
	plan, err := mirror.BuildPlan(mc)
	if err != nil {
		return nil, nil, err
	}

	cli, err := mirror.BuildClient(mc)
	if err != nil {
		return nil, nil, fmt.Errorf("mirror: connect %s: %w", mc.Endpoint, err)
	}
	closeFn := func() {
		if err := cli.Close(); err != nil {
			log.Debug().Err(err).Msg("mirror close failed")
		}
	}

	m, err := mirror.New(plan, eng.Registry().Schema(), cli, log)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	// Full sync on start; per-change writes after that.
	if err := m.Sync(eng.Registry()); err != nil {
		log.Warn().Err(err).Msg("mirror initial sync incomplete")
	}
	eng.Watch(m.Watch)

	sw, enabled := mirror.NewStatusWriter(plan, cli)
	if !enabled {
		return nil, closeFn, nil
	}
	interval := time.Duration(mc.StatusIntervalMs) * time.Millisecond
	return mirror.StatusTask(sw, interval, eng.Status), closeFn, nil
}

func printStatus(w io.Writer, s status.Snapshot) {
	fmt.Fprintf(w,
		"session %s: health=%s frames_in=%d frames_out=%d checksum_errors=%d timeouts=%d rejected=%d ignored=%d\n",
		s.Session,
		status.HealthName(s.Health),
		s.FramesIn,
		s.FramesOut,
		s.ChecksumErrors,
		s.Timeouts,
		s.Rejected,
		s.Ignored,
	)
	if s.LastError != "" {
		fmt.Fprintf(w, "last error: %s\n", s.LastError)
	}
}
