// Package pipeline drives frame processing: it pulls decoded measurements
// from the scanner and either emits each one immediately or accumulates them
// until a one-shot window timer flushes the average.
//
// The accumulator is owned by the Run loop alone. The flush timer and the
// blocking reads never share state: reads happen in a feeder goroutine that
// hands measurements over a channel, and the timer is just another case in
// the owner's select, so a flush always observes fully folded-in state.
package pipeline

import (
	"context"
	"time"

	"github.com/LukaszMeyer/pms5003/internal/aggregate"
	"github.com/LukaszMeyer/pms5003/internal/frame"
)

// Source yields decoded measurements, blocking until one arrives. Satisfied
// by *frame.Scanner.
type Source interface {
	Next() (frame.Measurement, error)
}

// Emitter renders one output record. Satisfied by *emit.Writer.
type Emitter interface {
	Emit(m frame.Measurement, numMeasurements uint64, elapsedSeconds float64) error
}

type Pipeline struct {
	source  Source
	emitter Emitter
	window  time.Duration
	epoch   time.Time
	onMeas  func(frame.Measurement)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMeasurementHook installs a callback invoked for every accepted
// measurement, before it is emitted or accumulated.
func WithMeasurementHook(fn func(frame.Measurement)) Option {
	return func(p *Pipeline) {
		p.onMeas = fn
	}
}

// WithEpoch overrides the record timestamp reference, which defaults to the
// time New was called.
func WithEpoch(epoch time.Time) Option {
	return func(p *Pipeline) {
		p.epoch = epoch
	}
}

// New builds a Pipeline. A zero window streams every measurement as its own
// record; a positive window accumulates and emits a single averaged record
// when the window elapses.
func New(source Source, emitter Emitter, window time.Duration, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:  source,
		emitter: emitter,
		window:  window,
		epoch:   time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run processes measurements until the window flushes, the transport fails,
// or ctx is cancelled. It never terminates the process itself: the caller
// maps the returned error to an exit status. A nil return means a clean
// emission path (per-frame records in streaming mode, or the single averaged
// record after a flush); coded errors cover transport failures and a flush
// with an empty window.
func (p *Pipeline) Run(ctx context.Context) error {
	measurements := make(chan frame.Measurement)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			m, err := p.source.Next()
			if err != nil {
				errc <- err
				return
			}
			select {
			case measurements <- m:
			case <-done:
				return
			}
		}
	}()

	var flush <-chan time.Time
	if p.window > 0 {
		timer := time.NewTimer(p.window)
		defer timer.Stop()
		flush = timer.C
	}

	var acc aggregate.Accumulator
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case m := <-measurements:
			if p.onMeas != nil {
				p.onMeas(m)
			}
			if p.window == 0 {
				if err := p.emitter.Emit(m, 1, p.elapsed()); err != nil {
					return err
				}
				continue
			}
			acc.Add(m)
		case <-flush:
			mean, n, err := acc.Mean()
			if err != nil {
				return err
			}

			return p.emitter.Emit(mean, n, p.elapsed())
		}
	}
}

func (p *Pipeline) elapsed() float64 {
	return time.Since(p.epoch).Seconds()
}
