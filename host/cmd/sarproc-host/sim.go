package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sarproc/console"
	"sarproc/core"
	"sarproc/host/config"
	"sarproc/host/sim"
	"sarproc/host/term"
)

func init() {
	f := simCmd.Flags()
	f.Uint32("input-mv", 1650, "voltage on the simulated signal channel")
	f.Uint16("noise", 3, "peak noise per sample in LSB")
	f.Duration("period", 100*time.Millisecond, "conversion time of one group")
	v.BindPFlag("sim.input_mv", f.Lookup("input-mv"))
	v.BindPFlag("sim.noise_lsb", f.Lookup("noise"))
	v.BindPFlag("sim.conversion_time", f.Lookup("period"))
	rootCmd.AddCommand(simCmd)
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the conversion controller against a simulated SAR-ADC",
	Args:  cobra.NoArgs,
	RunE:  runSim,
}

// Keys that end an interactive session. Raw mode disables the terminal's
// own signal handling.
const (
	keyInterrupt = 0x03
	keyEOF       = 0x04
)

func runSim(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()
	bridgeDebug(logger, cfg.Log.Debug)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	restore, err := rawStdin(logger)
	if err != nil {
		return err
	}
	defer restore()

	channels := cfg.Sim.Channels()
	periph := sim.New(cfg.Sim.Peripheral(), channels)
	pending := core.NewPendingConfig()
	intake := core.NewCommandIntake(pending)
	reporter := core.NewConsoleReporter(console.NewFlushWriter(os.Stdout))
	ctl := core.NewController(periph, channels, pending, reporter)

	reporter.Banner()
	if err := ctl.Start(); err != nil {
		logger.Error("failed to start controller", zap.Error(err))
		return fmt.Errorf("start controller: %w", err)
	}
	logger.Info("controller started",
		zap.Uint32("input_mv", cfg.Sim.InputMilliVolt),
		zap.Duration("conversion_time", cfg.Sim.ConversionTime))

	periphDone := make(chan struct{})
	go func() {
		defer close(periphDone)
		if err := periph.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("simulated peripheral stopped", zap.Error(err))
		}
	}()

	input := console.NewFifoBuffer(cfg.Console.InputBuffer)
	go func() {
		if err := input.Fill(os.Stdin, stopKeys(cancel)); err != nil {
			logger.Warn("console input closed", zap.Error(err))
		}
	}()

	runForeground(ctx, intake, pending, input, logger)
	<-periphDone

	// Step below the reading and show the cursor again
	os.Stdout.WriteString("\x1b[4E\x1b[?25h\r\n")

	s := ctl.Stats()
	logger.Info("controller stopped",
		zap.Uint32("conversions", s.Conversions),
		zap.Uint32("reconfigurations", s.Reconfigurations),
		zap.Uint32("ignored_interrupts", s.IgnoredInterrupts),
		zap.Uint32("init_failures", s.InitFailures),
		zap.Uint32("input_dropped", input.Dropped()))
	core.DumpEventRing()
	return nil
}

// runForeground polls the intake until ctx is done.
func runForeground(ctx context.Context, intake *core.CommandIntake, pending *core.PendingConfig, input core.ByteSource, logger *zap.Logger) {
	for ctx.Err() == nil {
		if !intake.Poll(input) {
			// Nothing to do; the firmware spins here, a host should not
			time.Sleep(time.Millisecond)
			continue
		}
		next := pending.Snapshot()
		logger.Debug("pending configuration changed",
			zap.Stringer("format", next.Format),
			zap.Uint16("average_count", uint16(next.Count)))
	}
}

// stopKeys returns a Fill filter that cancels on Ctrl-C or Ctrl-D.
func stopKeys(cancel context.CancelFunc) func([]byte) ([]byte, bool) {
	return func(p []byte) ([]byte, bool) {
		for i, b := range p {
			if b == keyInterrupt || b == keyEOF {
				cancel()
				return p[:i], false
			}
		}
		return p, true
	}
}

// rawStdin switches stdin to raw mode when it is a terminal.
func rawStdin(logger *zap.Logger) (func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		logger.Info("stdin is not a terminal, keys are line buffered")
		return func() {}, nil
	}
	t, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := t.Restore(); err != nil {
			logger.Warn("failed to restore terminal", zap.Error(err))
		}
	}, nil
}
