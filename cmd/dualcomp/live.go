package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/malgo"

	"github.com/cwbudde/algo-dualcomp/dsp/core"
	"github.com/cwbudde/algo-dualcomp/engine"
	"github.com/cwbudde/algo-dualcomp/param"
)

const meterInterval = 500 * time.Millisecond

func runLive(args []string, _, stderr io.Writer) error {
	fs := newFlagSet("live", stderr)
	src := sessionSource{}
	fs.StringVar(&src.path, "config", "", "TOML session file")
	fs.StringVar(&src.preset, "preset", "", "factory preset name")
	fs.Var(&src.sets, "set", "parameter override name=value (repeatable)")
	watch := fs.Bool("watch", false, "reload parameters when the session file changes")
	verbose := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *watch && src.path == "" {
		return errors.New("live: -watch needs -config")
	}

	logger := newLogger(stderr, *verbose)

	session, snap, err := src.load()
	if err != nil {
		return err
	}

	opts := session.ProcessorOptions()
	cfg := core.ApplyProcessorOptions(opts...)

	eng, err := engine.New(opts...)
	if err != nil {
		return fmt.Errorf("live: %w", err)
	}

	store := param.NewStore()
	store.Replace(snap)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("live audio context: %w", err)
	}

	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(cfg.Channels)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(cfg.Channels)
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.BlockSize)

	bridge := newDuplexBridge(eng, store, cfg.Channels, cfg.BlockSize)

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: bridge.onData})
	if err != nil {
		return fmt.Errorf("live audio device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("live audio start: %w", err)
	}

	logger.Info("running",
		"sample_rate", cfg.SampleRate,
		"channels", cfg.Channels,
		"block", cfg.BlockSize,
		"topology", snap.Topology,
	)

	if *watch {
		go func() {
			if err := watchSession(ctx, &src, store, logger); err != nil {
				logger.Error("watch stopped", "err", err)
			}
		}()
	}

	ticker := time.NewTicker(meterInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping")
			return nil
		case <-ticker.C:
			r := eng.Meter().Snapshot()
			logger.Debug("meter",
				"in_db", fmt.Sprintf("%.1f", core.LinearToDB(r.InputRMS)),
				"out_db", fmt.Sprintf("%.1f", core.LinearToDB(r.OutputRMS)),
				"gr_db", fmt.Sprintf("%.1f", r.GainReductionDB),
				"topology", eng.ActiveTopology(),
			)
		}
	}
}

// watchSession reloads the session file into store whenever it is written.
// The directory is watched so editors that replace the file are seen.
// Engine settings in the file are only read at startup.
func watchSession(ctx context.Context, src *sessionSource, store *param.Store, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(src.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", target, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if err := reloadSession(src, store); err != nil {
				logger.Warn("session reload failed", "path", target, "err", err)
				continue
			}

			logger.Info("session reloaded", "path", target, "topology", store.Current().Topology)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn("watch error", "err", err)
		}
	}
}

// reloadSession re-reads src and publishes the result. store keeps its
// previous parameters when the file does not parse.
func reloadSession(src *sessionSource, store *param.Store) error {
	_, snap, err := src.load()
	if err != nil {
		return err
	}

	store.Replace(snap)

	return nil
}
