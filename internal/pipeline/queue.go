package pipeline

import (
	"context"
	"log"

	"github.com/relabs-tech/cockpit_info/internal/gps"
	"github.com/relabs-tech/cockpit_info/internal/orientation"
)

// DefaultQueueSize is the number of events a Queue buffers.
const DefaultQueueSize = 64

type eventKind int

const (
	accelEvent eventKind = iota
	magEvent
	fixEvent
	toggleEvent
)

type event struct {
	kind    eventKind
	vec     orientation.Vector3
	fix     *gps.Fix
	channel Channel
	enabled bool
	reply   chan error
}

// Queue serializes deliveries from any number of goroutines (MQTT
// callbacks, serial readers, HTTP handlers) into the single goroutine
// running Pipeline.Run.
type Queue struct {
	events chan event
}

// NewQueue returns a Queue buffering up to size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{events: make(chan event, size)}
}

// Accel enqueues an accelerometer sample.
func (q *Queue) Accel(ctx context.Context, v orientation.Vector3) error {
	return q.send(ctx, event{kind: accelEvent, vec: v})
}

// Mag enqueues a magnetometer sample.
func (q *Queue) Mag(ctx context.Context, v orientation.Vector3) error {
	return q.send(ctx, event{kind: magEvent, vec: v})
}

// Fix enqueues a location fix. The fix is copied, so callers may reuse f.
func (q *Queue) Fix(ctx context.Context, f *gps.Fix) error {
	var cp *gps.Fix
	if f != nil {
		v := *f
		cp = &v
	}
	return q.send(ctx, event{kind: fixEvent, fix: cp})
}

// SetLogging asks the pipeline to toggle a log channel and waits for the
// result.
func (q *Queue) SetLogging(ctx context.Context, ch Channel, enabled bool) error {
	reply := make(chan error, 1)
	if err := q.send(ctx, event{kind: toggleEvent, channel: ch, enabled: enabled, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) send(ctx context.Context, ev event) error {
	select {
	case q.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes queued events one at a time until ctx is done. Every log
// channel is closed before Run returns.
func (p *Pipeline) Run(ctx context.Context, q *Queue) error {
	defer func() {
		if err := p.Close(); err != nil {
			log.Printf("pipeline: close error: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-q.events:
			p.handle(ev)
		}
	}
}

func (p *Pipeline) handle(ev event) {
	switch ev.kind {
	case accelEvent:
		p.OnAccelSample(ev.vec)
	case magEvent:
		p.OnMagSample(ev.vec)
	case fixEvent:
		p.OnLocationFix(ev.fix)
	case toggleEvent:
		ev.reply <- p.SetLogging(ev.channel, ev.enabled)
	}
}
