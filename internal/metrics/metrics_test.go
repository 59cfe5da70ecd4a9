package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/LukaszMeyer/pms5003/internal/frame"
)

func TestObserverCounters(t *testing.T) {
	m := New()

	m.FrameDecoded()
	m.FrameDecoded()
	m.FrameRejected(frame.RejectChecksum)
	m.FrameRejected(frame.RejectLength)
	m.FrameRejected(frame.RejectLength)
	m.BytesDiscarded(17)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesDecoded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.framesRejected.WithLabelValues("checksum")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.framesRejected.WithLabelValues("length")))
	assert.Equal(t, 17.0, testutil.ToFloat64(m.bytesDiscarded))
}

func TestObserveReadingUsesVariantLabels(t *testing.T) {
	m := New()

	var meas frame.Measurement
	meas.Values[0] = 5
	meas.Values[10] = 23.5
	m.ObserveReading(meas, frame.PMS5003T)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.reading.WithLabelValues("std_pm1")))
	assert.Equal(t, 23.5, testutil.ToFloat64(m.reading.WithLabelValues("temperature")))
}
