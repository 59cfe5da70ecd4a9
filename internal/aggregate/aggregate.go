// Package aggregate holds the running state for time-windowed averaging of
// sensor measurements.
package aggregate

import (
	"github.com/LukaszMeyer/pms5003/internal/errors"
	"github.com/LukaszMeyer/pms5003/internal/frame"
)

// Accumulator folds measurements into per-field running sums. It is not safe
// for concurrent use; a single owner goroutine must serialize Add and Mean.
type Accumulator struct {
	sums  [frame.NumFields]float64
	count uint64
}

// Add folds one measurement into the running state.
func (a *Accumulator) Add(m frame.Measurement) {
	for i, v := range m.Values {
		a.sums[i] += v
	}
	a.count++
}

// Count returns the number of measurements folded in so far.
func (a *Accumulator) Count() uint64 {
	return a.count
}

// Mean returns the per-field arithmetic mean of all folded measurements and
// their count. An empty accumulator has no mean: that is the empty_window
// error, not a zero record.
func (a *Accumulator) Mean() (frame.Measurement, uint64, error) {
	if a.count == 0 {
		return frame.Measurement{}, 0, errors.New(errors.ErrEmptyWindow)
	}

	var m frame.Measurement
	for i, sum := range a.sums {
		m.Values[i] = sum / float64(a.count)
	}

	return m, a.count, nil
}
