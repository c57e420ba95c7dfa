package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"scenenode-go/bridge"
	"scenenode-go/bus"
	"scenenode-go/command"
	"scenenode-go/config"
	"scenenode-go/controller"
	"scenenode-go/led"
)

var (
	configPath = "scenenode.toml"
	board      = ""
	verbose    = false
	dryRun     = false
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "configuration file")
	pflag.StringVarP(&board, "board", "b", board, "board defaults to start from (pico, esp32c3)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.BoolVar(&dryRun, "dry-run", dryRun, "no bridge: read p/r lines from stdin as press/release and keep the pixel in memory")
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	b := bus.NewBus(8)
	monConn := b.NewConnection("monitor")
	defer monConn.Disconnect()
	mon := monConn.Subscribe(bus.T("#"))

	errg, ctx := errgroup.WithContext(ctx)

	var (
		in controller.Input
		tx led.Transmitter
	)
	if dryRun {
		keys := newStdinInput(os.Stdin)
		go keys.run()
		in, tx = keys, &led.Recorder{Hz: cfg.LED.ClockHz}
	} else {
		link, err := bridge.Open(cfg.Serial.Device, cfg.Serial.Baud, cfg.LED.ClockHz, slog.Default())
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to open bridge on %s", cfg.Serial.Device)
		}
		errg.Go(func() error { return link.Run(ctx) })
		in, tx = link, link
	}

	ctrl, err := controller.New(cfg.Controller(), in, led.NewPixel(tx), command.NewUDPSender(cfg.Light.Addr),
		controller.WithBus(b.NewConnection("controller")),
		controller.WithLogger(slog.Default()))
	if err != nil {
		cancel()
		_ = errg.Wait()
		return pkgerrors.Wrap(err, "failed to create controller")
	}

	slog.Info("scene node starting",
		"board", cfg.Board,
		"light", cfg.Light.Addr,
		"scenes", len(cfg.Scenes),
		"dry_run", dryRun)

	errg.Go(func() error { return monitor(ctx, mon) })
	errg.Go(func() error { return ctrl.Run(ctx) })

	if err := errg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return pkgerrors.Wrap(err, "scene node stopped")
	}
	return nil
}

func readConfig() (*config.Config, error) {
	f, err := os.Open(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !pflag.CommandLine.Changed("config") {
			slog.Debug("no config file, using board defaults", "path", configPath)
			return config.Load(nil, board)
		}
		return nil, pkgerrors.Wrap(err, "failed to open config file")
	}
	defer f.Close()

	return config.Load(f, board)
}

// monitor logs everything published on the bus.
func monitor(ctx context.Context, sub *bus.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-sub.Channel():
			if !ok {
				return nil
			}
			slog.Debug("bus", "topic", m.Topic.String(), "payload", fmt.Sprint(m.Payload))
		}
	}
}
