// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/relabs-tech/cockpit_info/internal/config"
	"github.com/relabs-tech/cockpit_info/internal/metrics"
	"github.com/relabs-tech/cockpit_info/internal/pipeline"
)

// feeder turns MQTT messages into pipeline events.
type feeder struct {
	ctx       context.Context
	q         *pipeline.Queue
	logPrefix string
}

func (f *feeder) onAccel(_ mqtt.Client, msg mqtt.Message) {
	v, err := decodeSample(msg.Payload())
	if err != nil {
		log.Printf("mqtt: %s: %v", msg.Topic(), err)
		return
	}
	if err := f.q.Accel(f.ctx, v); err != nil {
		log.Printf("mqtt: accel dropped: %v", err)
	}
}

func (f *feeder) onMag(_ mqtt.Client, msg mqtt.Message) {
	v, err := decodeSample(msg.Payload())
	if err != nil {
		log.Printf("mqtt: %s: %v", msg.Topic(), err)
		return
	}
	if err := f.q.Mag(f.ctx, v); err != nil {
		log.Printf("mqtt: mag dropped: %v", err)
	}
}

// onFix also receives the retained fix right after subscribing, which is
// how the last known location shows up at startup.
func (f *feeder) onFix(_ mqtt.Client, msg mqtt.Message) {
	fix, err := decodeFix(msg.Payload())
	if err != nil {
		log.Printf("mqtt: %s: %v", msg.Topic(), err)
		return
	}
	if err := f.q.Fix(f.ctx, fix); err != nil {
		log.Printf("mqtt: fix dropped: %v", err)
	}
}

func (f *feeder) onLogControl(_ mqtt.Client, msg mqtt.Message) {
	ch, enabled, err := parseToggle(f.logPrefix, msg.Topic(), msg.Payload())
	if err != nil {
		log.Printf("mqtt: %v", err)
		return
	}
	// The resulting state is published back by the MQTT display.
	if err := f.q.SetLogging(f.ctx, ch, enabled); err != nil {
		log.Printf("mqtt: %s log toggle failed: %v", ch, err)
	}
}

// sensorSubscriptions are dropped while paused and restored on resume.
// Log control stays subscribed throughout.
type sensorSubscriptions struct {
	client mqtt.Client
	topics map[string]mqtt.MessageHandler
}

func (s *sensorSubscriptions) subscribe() error {
	for topic, handler := range s.topics {
		if token := s.client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
			return fmt.Errorf("subscribe %s: %w", topic, token.Error())
		}
		log.Printf("mqtt: subscribed to %s", topic)
	}
	return nil
}

func (s *sensorSubscriptions) unsubscribe() error {
	topics := make([]string, 0, len(s.topics))
	for topic := range s.topics {
		topics = append(topics, topic)
	}
	if token := s.client.Unsubscribe(topics...); token.Wait() && token.Error() != nil {
		return fmt.Errorf("unsubscribe: %w", token.Error())
	}
	log.Printf("mqtt: unsubscribed from %d sensor topics", len(topics))
	return nil
}

// initialLogging applies the LOG_*_ENABLED settings before any sample
// arrives. A channel that cannot open is reported and left Closed.
func initialLogging(p *pipeline.Pipeline, cfg *config.Config) {
	wanted := map[pipeline.Channel]bool{
		pipeline.Acceleration: cfg.LogAccEnabled,
		pipeline.Location:     cfg.LogLocEnabled,
		pipeline.Orientation:  cfg.LogOriEnabled,
	}
	for _, ch := range pipeline.Channels {
		if !wanted[ch] {
			continue
		}
		if err := p.SetLogging(ch, true); err != nil {
			log.Printf("cockpit: %v", err)
		}
	}
}

func newPipeline(cfg *config.Config, display pipeline.Display, m *metrics.Metrics) *pipeline.Pipeline {
	return pipeline.New(pipeline.Options{
		AccLogPath:   cfg.LogPath(cfg.LogAccFile),
		LocLogPath:   cfg.LogPath(cfg.LogLocFile),
		OriLogPath:   cfg.LogPath(cfg.LogOriFile),
		GateInterval: cfg.GateInterval(),
		Stamp:        func(t time.Time) string { return t.Format(cfg.LogTimeFormat) },
		Display:      display,
		Metrics:      m,
	})
}

// RunCockpit subscribes to the sensor topics, runs the telemetry pipeline
// and serves the web view until SIGINT or SIGTERM. SIGUSR1 pauses sensor
// input and SIGUSR2 resumes it.
func RunCockpit() error {
	cfg := config.Get()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDCockpit).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect error: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("cockpit: connected to MQTT broker at %s", cfg.MQTTBroker)

	hub := newWebHub()
	displays := pipeline.MultiDisplay{
		pipeline.ConsoleDisplay{W: os.Stdout},
		newMQTTDisplay(client, cfg.TopicDisplayPrefix, cfg.TopicLogControl),
		hub,
	}
	var oled *oledDisplay
	if cfg.DisplayEnabled {
		oled = newOLEDDisplay(cfg.DisplayContent)
		displays = append(displays, oled)
	}

	p := newPipeline(cfg, displays, m)
	initialLogging(p, cfg)
	q := pipeline.NewQueue(cfg.QueueSize)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- p.Run(ctx, q) }()

	f := &feeder{ctx: ctx, q: q, logPrefix: cfg.TopicLogControl}
	subs := &sensorSubscriptions{
		client: client,
		topics: map[string]mqtt.MessageHandler{
			cfg.TopicAccel: f.onAccel,
			cfg.TopicMag:   f.onMag,
			cfg.TopicGPS:   f.onFix,
		},
	}
	if err := subs.subscribe(); err != nil {
		stop()
		<-runErr
		return err
	}
	logTopic := cfg.TopicLogControl + "/+"
	if token := client.Subscribe(logTopic, 0, f.onLogControl); token.Wait() && token.Error() != nil {
		stop()
		<-runErr
		return fmt.Errorf("subscribe %s: %w", logTopic, token.Error())
	}
	log.Printf("mqtt: subscribed to %s", logTopic)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: newWebHandler(hub, q, reg, "web"),
	}
	go func() {
		log.Printf("web: listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("web: server error: %v", err)
		}
	}()

	if oled != nil {
		go func() {
			if err := runOLED(ctx, cfg, oled); err != nil {
				log.Printf("display: %v", err)
			}
		}()
	}

	control := make(chan os.Signal, 1)
	signal.Notify(control, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(control)

	paused := false
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case sig := <-control:
			switch {
			case sig == syscall.SIGUSR1 && !paused:
				if err := subs.unsubscribe(); err != nil {
					log.Printf("cockpit: pause: %v", err)
					continue
				}
				paused = true
				log.Println("cockpit: paused")
			case sig == syscall.SIGUSR2 && paused:
				if err := subs.subscribe(); err != nil {
					log.Printf("cockpit: resume: %v", err)
					continue
				}
				paused = false
				log.Println("cockpit: resumed")
			}
		}
	}

	log.Println("cockpit: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("web: shutdown error: %v", err)
	}
	return <-runErr
}
