package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/checks"
	rulecfg "github.com/platinummonkey/buildcheck/pkg/buildcheck/config"
	"github.com/platinummonkey/buildcheck/pkg/buildcheck/infrastructure"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
	"github.com/platinummonkey/buildcheck/pkg/config"
	"github.com/platinummonkey/buildcheck/pkg/host"
	"github.com/platinummonkey/buildcheck/pkg/observability"
)

// ErrDiagnostics is returned when at least one error diagnostic was reported.
var ErrDiagnostics = errors.New("build check reported errors")

type analyzeOptions struct {
	root        *rootOptions
	projects    string
	configFile  string
	namespace   string
	maxParallel int
	metricsFile string
	watch       bool
	debounce    time.Duration
}

func newAnalyzeCommand(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{root: root}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Evaluate projects and run all checks",
		Long: `Analyze evaluates every project listed in the project set and runs the
built-in checks over the evaluation events.

The rule configuration is read from --config, or discovered as buildcheck.yaml
next to the project set. The command fails when any error diagnostic is
reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAnalyze(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.projects, "file", "f", "projects.yaml", "Project set to evaluate")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Rule configuration file (discovered when empty)")
	cmd.Flags().StringVar(&opts.namespace, "namespace", "", "Rule key namespace; overrides BUILDCHECK_NAMESPACE")
	cmd.Flags().IntVarP(&opts.maxParallel, "parallel", "p", 0, "Projects evaluated concurrently; overrides BUILDCHECK_MAX_PARALLEL")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after each run")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-run when the project set or rule configuration changes")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 300*time.Millisecond, "Quiet period before a watched change triggers a run")

	return cmd
}

func runAnalyze(ctx context.Context, cmd *cobra.Command, opts *analyzeOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	opts.apply(cfg)

	format, err := observability.ParseLogFormat(cfg.Observability.LogFormat)
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg.Observability.LogLevel, format, cmd.ErrOrStderr())

	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
		SampleRatio:    cfg.Observability.OTelSampleRatio,
		ExportInterval: cfg.Observability.OTelExportInterval,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	shutdown := observability.NewShutdownManager(logger, 5*time.Second)
	shutdown.Register("opentelemetry", func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, providers, logger)
	})
	defer func() {
		if err := shutdown.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Cleanup incomplete")
		}
	}()

	runner := &analyzer{
		cmd:    cmd,
		cfg:    cfg,
		opts:   opts,
		logger: logger,
	}
	if providers != nil {
		telemetry, err := observability.NewOTelTelemetry()
		if err != nil {
			return fmt.Errorf("failed to create telemetry: %w", err)
		}
		runner.telemetry = telemetry
	}

	if !opts.watch {
		return runner.run(ctx)
	}
	return runner.watch(ctx)
}

func (o *analyzeOptions) apply(cfg *config.Config) {
	if o.namespace != "" {
		cfg.Analysis.Namespace = o.namespace
	}
	if o.maxParallel > 0 {
		cfg.Analysis.MaxParallel = o.maxParallel
	}
	if o.configFile != "" {
		cfg.Analysis.ConfigFile = o.configFile
	}
	if o.metricsFile != "" {
		cfg.Observability.MetricsFile = o.metricsFile
	}
	if o.root.logFormat != "" {
		cfg.Observability.LogFormat = o.root.logFormat
	}
	if o.root.logLevel != "" {
		cfg.Observability.LogLevel = parseLevel(o.root.logLevel)
	}
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// analyzer runs analysis sessions with a fixed configuration.
type analyzer struct {
	cmd       *cobra.Command
	cfg       *config.Config
	opts      *analyzeOptions
	logger    *logrus.Logger
	telemetry buildcheck.Telemetry
}

// run performs one complete session.
func (a *analyzer) run(ctx context.Context) error {
	set, err := host.LoadProjectSet(a.opts.projects)
	if err != nil {
		return fmt.Errorf("failed to load project set: %w", err)
	}

	provider, err := a.provider()
	if err != nil {
		return fmt.Errorf("failed to load rule configuration: %w", err)
	}

	var registry *prometheus.Registry
	var metrics *observability.Metrics
	if a.cfg.Observability.MetricsEnabled || a.cfg.Observability.MetricsFile != "" {
		registry = prometheus.NewRegistry()
		metrics = observability.NewMetrics(registry)
	}

	importance := buildevents.ImportanceHigh
	if a.opts.root.verbose {
		importance = buildevents.ImportanceLow
	}
	recorder := buildevents.NewRecorder()
	out := &printer{out: a.cmd.OutOrStdout(), minImportance: importance}

	manager := infrastructure.NewManager(infrastructure.Options{
		Logger:     a.logger,
		Dispatcher: buildevents.MultiDispatcher{recorder, out},
		Config:     provider,
		Namespace:  a.cfg.Analysis.Namespace,
		Telemetry:  a.telemetry,
		Metrics:    metrics,
		Tracer:     observability.Tracer(),
	})
	ctx = observability.WithSessionID(observability.WithLogger(ctx, a.logger), manager.SessionID())
	log := observability.FromContext(ctx)

	if err := manager.AcquireChecks(ctx, checks.Catalog()); err != nil {
		return err
	}

	h := host.New(manager, host.Options{
		Logger:      a.logger,
		MaxParallel: a.cfg.Analysis.MaxParallel,
		SessionID:   manager.SessionID(),
	})

	start := time.Now()
	runErr := h.Run(ctx, set)
	data := manager.Finish(ctx)
	log.WithFields(logrus.Fields{
		"projects": len(set.Projects),
		"duration": time.Since(start),
	}).Info("Analysis finished")

	printSummary(a.cmd.OutOrStdout(), recorder, data)

	if path := a.cfg.Observability.MetricsFile; path != "" && registry != nil {
		if err := observability.WriteTextfile(path, registry); err != nil {
			log.WithError(err).Warn("Failed to write metrics file")
		}
	}

	if runErr != nil {
		return runErr
	}
	if recorder.HasErrors() {
		return ErrDiagnostics
	}
	return nil
}

func (a *analyzer) provider() (rulecfg.Provider, error) {
	if a.cfg.Analysis.ConfigFile != "" {
		return rulecfg.LoadFileProvider(a.cfg.Analysis.ConfigFile)
	}
	return rulecfg.LoadFileProviderFromDir(filepath.Dir(a.opts.projects))
}

// watch runs a session, then a fresh one whenever a watched file changes.
func (a *analyzer) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	targets := a.watchTargets()
	dirs := make(map[string]struct{})
	for file := range targets {
		dirs[filepath.Dir(file)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	a.runLogged(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, watched := targets[filepath.Clean(event.Name)]; !watched {
				continue
			}
			a.logger.WithField("file", event.Name).Debug("Change detected")
			if timer == nil {
				timer = time.NewTimer(a.opts.debounce)
			} else {
				timer.Reset(a.opts.debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.WithError(err).Warn("Watcher error")
		case <-fire:
			fire = nil
			a.runLogged(ctx)
		}
	}
}

func (a *analyzer) runLogged(ctx context.Context) {
	if err := a.run(ctx); err != nil && !errors.Is(err, ErrDiagnostics) {
		a.logger.WithError(err).Error("Analysis failed")
	}
}

func (a *analyzer) watchTargets() map[string]struct{} {
	targets := map[string]struct{}{
		absPath(a.opts.projects): {},
	}
	if a.cfg.Analysis.ConfigFile != "" {
		targets[absPath(a.cfg.Analysis.ConfigFile)] = struct{}{}
		return targets
	}
	dir := filepath.Dir(absPath(a.opts.projects))
	for _, name := range rulecfg.ConfigFileNames() {
		targets[filepath.Join(dir, name)] = struct{}{}
	}
	return targets
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
