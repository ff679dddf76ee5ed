package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sarproc/console"
	"sarproc/host/config"
	"sarproc/host/serial"
)

func init() {
	f := consoleCmd.Flags()
	f.StringP("device", "d", "/dev/ttyACM0", "serial device of the target console")
	f.IntP("baud", "b", 115200, "baud rate")
	v.BindPFlag("serial.device", f.Lookup("device"))
	v.BindPFlag("serial.baud", f.Lookup("baud"))
	rootCmd.AddCommand(consoleCmd)
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Connect the terminal to the console of a flashed target",
	Args:  cobra.NoArgs,
	RunE:  runConsole,
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Serial.Device,
		Baud:        cfg.Serial.Baud,
		ReadTimeout: int(cfg.Serial.ReadTimeout / time.Millisecond),
	})
	if err != nil {
		logger.Error("failed to open console", zap.String("device", cfg.Serial.Device), zap.Error(err))
		return err
	}
	defer port.Close()
	logger.Info("console connected", zap.String("device", cfg.Serial.Device), zap.Int("baud", cfg.Serial.Baud))

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	restore, err := rawStdin(logger)
	if err != nil {
		return err
	}
	defer restore()

	recvDone := make(chan error, 1)
	go func() {
		recvDone <- receive(ctx, port, os.Stdout)
	}()

	keys := console.NewFifoBuffer(cfg.Console.InputBuffer)
	go func() {
		if err := keys.Fill(os.Stdin, stopKeys(cancel)); err != nil {
			logger.Warn("console input closed", zap.Error(err))
		}
	}()

	err = forward(ctx, keys, port)
	cancel()
	if rerr := <-recvDone; rerr != nil && err == nil {
		err = rerr
	}
	os.Stdout.WriteString("\x1b[?25h\r\n")
	if err != nil {
		logger.Error("console session failed", zap.Error(err))
		return err
	}
	logger.Info("console disconnected")
	return nil
}

// forward sends buffered keypresses to the target one at a time.
func forward(ctx context.Context, keys *console.FifoBuffer, w io.Writer) error {
	var one [1]byte
	for ctx.Err() == nil {
		b, err := keys.ReadByte()
		if err != nil {
			time.Sleep(time.Millisecond)
			continue
		}
		one[0] = b
		if _, err := w.Write(one[:]); err != nil {
			return fmt.Errorf("write key: %w", err)
		}
	}
	return nil
}

// receive copies target output to w until ctx is done. Read timeouts
// surface as zero-length reads.
func receive(ctx context.Context, r io.Reader, w io.Writer) error {
	buf := make([]byte, 256)
	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read console: %w", err)
		}
	}
	return nil
}
