package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/memsim/batch"
	"github.com/vkngwrapper/memsim/config"
	"github.com/vkngwrapper/memsim/events"
	"github.com/vkngwrapper/memsim/internal/clock"
	"github.com/vkngwrapper/memsim/kernel"
	"github.com/vkngwrapper/memsim/tracing"
	"golang.org/x/exp/slog"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "path of the YAML config file")
	workload := flag.String("workload", "", "path of a workload file, overriding the config")
	dumpJSON := flag.Bool("json", false, "print the final memory state as JSON")
	asyncBuffer := flag.Int("async", 0, "deliver log notifications from a buffer of this size instead of inline")
	flag.Parse()

	if err := run(context.Background(), os.Stdout, *configPath, *workload, *dumpJSON, *asyncBuffer); err != nil {
		fmt.Fprintf(os.Stderr, "memsim: %+v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, configPath, workload string, dumpJSON bool, asyncBuffer int) error {
	cfg := config.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}

	if workload != "" {
		cfg.Workload = workload
		cfg.Processes = nil
	}

	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	handlerOptions := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, handlerOptions)
	if cfg.Log.JSON {
		handler = slog.NewJSONHandler(os.Stderr, handlerOptions)
	}
	logger := slog.New(handler)

	descriptors, err := cfg.Descriptors()
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		return errors.New("no processes to run: provide a workload file or a processes list")
	}

	if cfg.Trace.Enabled {
		provider, closeProvider, err := tracing.NewStdoutProvider("memsim", version, cfg.Trace.Output)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := closeProvider(context.Background()); closeErr != nil {
				logger.Error("error attempting to flush traces", slog.Any("error", closeErr))
			}
		}()
		cfg.Kernel.TracerProvider = provider
	}

	if asyncBuffer > 0 {
		observer := kernel.NewAsyncObserver(kernel.NewLogObserver(logger), asyncBuffer)
		defer func() {
			observer.Close()
			if dropped := observer.Dropped(); dropped > 0 {
				logger.Warn("notifications dropped", slog.Uint64("Count", dropped))
			}
		}()
		cfg.Kernel.Observer = observer
	}

	clk := clock.New(0)
	source, err := batch.NewListSource(descriptors, clk.Now)
	if err != nil {
		return err
	}

	simulator, err := events.NewSimulator(logger, clk.Now, source, cfg.Scheduler)
	if err != nil {
		return err
	}

	k, err := kernel.New(logger, clk, source, simulator, cfg.Kernel)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("System initialized, starting batch", slog.Int("Processes", len(descriptors)))
	report, err := k.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Batch processing complete, shutting down")

	printReport(out, report)

	if dumpJSON {
		writer := jwriter.NewWriter()
		k.WriteJSON(&writer)
		if err := writer.Error(); err != nil {
			return errors.Wrap(err, "failed to encode the memory state")
		}
		fmt.Fprintln(out, string(writer.Bytes()))
	}

	return nil
}

func printReport(out io.Writer, report kernel.Report) {
	fmt.Fprintf(out, "run %s finished at time %d after %d steps\n", report.RunID, report.FinalTime, report.Steps)
	fmt.Fprintf(out, "  admitted:   %d (%d after compaction)\n", report.Admitted, report.AdmittedAfterCompaction)
	fmt.Fprintf(out, "  blocked:    %d (%d promoted, at most %d failed attempts)\n", report.Blocked, report.Promoted, report.MaxBlockedAttempts)
	fmt.Fprintf(out, "  rejected:   %d\n", report.Rejected)
	fmt.Fprintf(out, "  deferred:   %d\n", report.Deferred)
	fmt.Fprintf(out, "  completed:  %d\n", report.Completed)
	fmt.Fprintf(out, "  compaction: %d runs, %d skipped, %d units moved\n", report.Compaction.Runs, report.Compaction.Skipped, report.Compaction.BytesMoved)
	fmt.Fprintf(out, "  peak used memory: %d\n", report.PeakUsedMemory)
}
