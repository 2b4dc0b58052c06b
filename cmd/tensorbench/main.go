package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/23skdu/longbow-tensor/internal/tensor"
)

var (
	flagMode       = flag.String("mode", "demo", "What to run: demo, verify or bench")
	flagSizes      = flag.String("sizes", "31,32,33,64,128", "Comma separated matrix edge lengths")
	flagBatch      = flag.Int("batch", 0, "Batch size for a rank-3 left operand (0 uses plain matrices)")
	flagBlock      = flag.String("block", "32", "Comma separated matmul block sizes to verify or benchmark")
	flagIterations = flag.Int("iterations", 5, "Timed iterations per kernel in bench mode")
	flagParallel   = flag.Int("parallel", 4, "Maximum concurrent verification cases")
	flagSeed       = flag.Uint64("seed", 42, "Seed for random operands")
	flagListen     = flag.String("listen", "", "Address for the metrics and health server (e.g. :9100)")
	flagOTel       = flag.Bool("otel", false, "Enable OpenTelemetry tracing (stdout)")
	flagCPUProfile = flag.String("cpuprofile", "", "Write cpu profile to file")
	flagLogLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
)

var tracer = otel.Tracer("tensorbench")

func main() {
	os.Exit(realMain())
}

func realMain() int {
	// Initialize logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	flag.Parse()

	cfg, err := configFromFlags()
	if err != nil {
		log.Error().Err(err).Msg("Invalid configuration")
		return 2
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var cleanups cleanupStack
	if cfg.EnableOTel {
		shutdown, err := initTracer()
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize tracer")
			return 1
		}
		cleanups.push(func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("Failed to flush traces")
			}
		})
	}

	if cfg.CPUProfile != "" {
		f, err := os.Create(cfg.CPUProfile)
		if err != nil {
			cleanups.run()
			log.Error().Err(err).Msg("Failed to create CPU profile file")
			return 1
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			cleanups.run()
			log.Error().Err(err).Msg("Could not start CPU profile")
			return 1
		}
		cleanups.push(func() {
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close CPU profile file")
			}
		})
	}

	if cfg.ListenAddr != "" {
		go startServer(cfg.ListenAddr)
	}

	log.Info().
		Str("mode", string(cfg.Mode)).
		Ints("sizes", cfg.Sizes).
		Ints("blocks", cfg.BlockSizes).
		Int("batch", cfg.Batch).
		Int("default_block", tensor.DefaultBlockSize).
		Msg("Starting tensorbench")

	code := execute(ctx, cfg, cleanups, run)

	if code == 0 && cfg.ListenAddr != "" {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Run complete, serving metrics until interrupted")
		<-ctx.Done()
	}
	return code
}

// cleanupStack holds teardown hooks that must run before the process exits.
type cleanupStack []func()

func (s *cleanupStack) push(f func()) {
	*s = append(*s, f)
}

// run calls the hooks in reverse order of registration.
func (s cleanupStack) run() {
	for i := len(s) - 1; i >= 0; i-- {
		s[i]()
	}
}

// execute runs cfg with runFn and then every cleanup, whether or not the run
// failed. It returns the process exit code.
func execute(ctx context.Context, cfg Config, cleanups cleanupStack, runFn func(context.Context, Config) error) int {
	defer cleanups.run()

	if err := runFn(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("Run failed")
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg Config) error {
	src := newOperandSource(cfg.Seed)

	switch cfg.Mode {
	case ModeVerify:
		results, err := runVerify(ctx, cfg, src)
		if err != nil {
			return err
		}
		failed := 0
		for _, r := range results {
			if r.OK {
				log.Info().Msg(r.String())
			} else {
				failed++
				log.Error().Msg(r.String())
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d cases exceeded tolerance %g", failed, len(results), verifyTolerance)
		}
		log.Info().Int("cases", len(results)).Msg("All kernels agree with the reference")
		return nil
	case ModeBench:
		_, err := runBench(ctx, cfg, src)
		return err
	default:
		return runDemo(os.Stdout)
	}
}

func initTracer() (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String("tensorbench"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}
