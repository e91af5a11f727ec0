// Command simlink is the reference entrypoint wiring configuration,
// transport, the session driver, and the recorder together. It drives a
// small built-in demo simulator; real integrations call the pkg/simulator,
// pkg/driver, and pkg/transport APIs directly from their own binaries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/brainlink/simlink/internal/config"
	"github.com/brainlink/simlink/pkg/driver"
	"github.com/brainlink/simlink/pkg/metrics"
	"github.com/brainlink/simlink/pkg/recorder"
	"github.com/brainlink/simlink/pkg/schema"
	"github.com/brainlink/simlink/pkg/simulator"
	"github.com/brainlink/simlink/pkg/tracing"
	"github.com/brainlink/simlink/pkg/transport"
)

const banner = `
  ┌─┐┬┌┬┐┬  ┬┌┐┌┬┌─
  └─┐││││  │││││├┴┐
  └─┘┴┴ ┴┴─┘┴┘└┘┴ ┴
`

var flags config.Flags

func main() {
	rootCmd := &cobra.Command{
		Use:   "simlink",
		Short: "Reference client for driving a simulator against a BRAIN backend",
		Long: `simlink connects a simulator to a training or prediction backend over a
length-delimited binary WebSocket protocol, driving it through register,
set-properties, episode, and prediction exchanges until the session
finishes or the connection closes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	fs := rootCmd.Flags()
	fs.StringVar(&flags.APIHost, "api-host", config.DefaultAPIHost, "websocket base used to compose --train-brain/--predict-brain URLs")
	fs.StringVar(&flags.Username, "username", "", "BRAIN workspace username, used to compose --train-brain/--predict-brain URLs")
	fs.StringVar(&flags.TrainBrain, "train-brain", "", "name of the BRAIN to connect to for training")
	fs.StringVar(&flags.PredictBrain, "predict-brain", "", "name of the BRAIN to connect to for predictions (requires --predict-version)")
	fs.StringVar(&flags.PredictVersion, "predict-version", "", "version of the BRAIN to connect to for predictions")
	fs.StringVar(&flags.BrainURL, "brain-url", "", "full URL of the BRAIN to connect to, used literally")
	fs.StringVar(&flags.AccessKey, "access-key", "", "access key presented as the Authorization header")
	fs.StringVar(&flags.RecordingFile, "recording-file", "", "path to write a trace of every sent/received message")
	fs.StringVar(&flags.MetricsAddr, "metrics-addr", "", "host:port to serve /metrics on (disabled if empty)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31merror:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	fmt.Print(banner)

	cfg, err := config.Resolve(flags)
	if err != nil {
		return err
	}

	logger := slog.Default()
	m := metrics.Default()

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	if cfg.RecordingFile == "" {
		cfg.RecordingFile = os.DevNull
	}
	rec := recorder.New(cfg.RecordingFile, recorder.DefaultQueueSize, logger)
	if err := rec.Start(); err != nil {
		return fmt.Errorf("starting recorder: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer := tracing.New()

	var conn *websocket.Conn
	err = tracer.Connect(ctx, cfg.BrainURL, func(ctx context.Context) error {
		var dialErr error
		conn, dialErr = transport.Dial(ctx, cfg.BrainURL, cfg.AccessKey)
		return dialErr
	})
	if err != nil {
		m.ConnectFailures.Inc()
		return err
	}
	m.ConnectsTotal.Inc()

	binder := schema.NewBinder()
	binder.OnBind = func(hit bool, bindErr error) {
		if bindErr != nil {
			m.SchemaBindErrors.Inc()
			return
		}
		m.SchemaBinds.Inc()
	}
	binder.Trace = func(descriptorName string, fn func() error) error {
		return tracer.SchemaBind(ctx, descriptorName, func(context.Context) error { return fn() })
	}

	adapter := simulator.NewAdapter("simlink-demo", &demoSimulator{}, binder)
	adapter.RegisterReward("default", func() float64 { return 0 })

	var drv driver.Driver
	if cfg.Mode == config.ModePrediction {
		drv = driver.NewPredictionDriver(adapter)
	} else {
		drv = driver.NewTrainingDriver(adapter)
	}

	logger.Info("connected", "mode", cfg.Mode.String(), "brain_url", cfg.BrainURL)

	loop := transport.New(conn, drv, rec, logger, m, tracer)
	return loop.Run(ctx)
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}

// demoSimulator is a minimal stand-in used by the reference binary; it
// reports a constant one-field state and never terminates on its own.
type demoSimulator struct{}

func (*demoSimulator) Start()                      {}
func (*demoSimulator) Stop()                       {}
func (*demoSimulator) Reset()                      {}
func (*demoSimulator) SetProperties(map[string]any) {}
func (*demoSimulator) GetState() simulator.SimState {
	return simulator.SimState{State: map[string]any{"value": int32(0)}}
}
func (*demoSimulator) Advance(map[string]any)          {}
func (*demoSimulator) NotifyPrediction(map[string]any) {}
