// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/cockpit_info/internal/config"
	"github.com/relabs-tech/cockpit_info/internal/imu"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

// RunMockConsole runs the pipeline on the mock IMU, without MQTT, and
// prints every displayed reading to stdout.
func RunMockConsole() error {
	cfg := config.Get()

	p := newPipeline(cfg, pipeline.ConsoleDisplay{W: os.Stdout}, nil)
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("console: close error: %v", err)
		}
	}()
	initialLogging(p, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := imu.NewMockSource()
	ticker := time.NewTicker(time.Duration(cfg.IMUSampleInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		r, err := src.Next()
		if err != nil {
			return err
		}
		p.OnAccelSample(r.Accel)
		if r.HasMag {
			p.OnMagSample(r.Mag)
		}
	}
}
