package emit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukaszMeyer/pms5003/internal/emit"
	"github.com/LukaszMeyer/pms5003/internal/frame"
)

func TestEmitSingleFrameRecord(t *testing.T) {
	m := frame.Measurement{Values: [frame.NumFields]float64{5, 10, 15, 20, 25, 30, 2, 3, 4, 5, 200, 50}}

	var buf strings.Builder
	w := emit.NewWriter(&buf, frame.PMS5003)
	require.NoError(t, w.Emit(m, 1, 2.34))

	assert.Equal(t,
		`{"timestamp":2.3,"num_measurements":1,`+
			`"std_pm1":5.00,"std_pm2_5":10.00,"std_pm10":15.00,`+
			`"atm_pm1":20.00,"atm_pm2_5":25.00,"atm_pm10":30.00,`+
			`"count_0_3um":2.00,"count_0_5um":3.00,"count_1um":4.00,`+
			`"count_2_5um":5.00,"count_5um":200.00,"count_10um":50.00}`+"\n",
		buf.String())
}

func TestEmitAveragedRecordRounding(t *testing.T) {
	// Two frames with atm_pm2_5 of 10 and 20 average to 15.00.
	var m frame.Measurement
	m.Values[4] = 15
	m.Values[0] = 1.0 / 3.0

	var buf strings.Builder
	w := emit.NewWriter(&buf, frame.PMS5003)
	require.NoError(t, w.Emit(m, 2, 60.04))

	out := buf.String()
	assert.Contains(t, out, `"num_measurements":2`)
	assert.Contains(t, out, `"atm_pm2_5":15.00`)
	assert.Contains(t, out, `"std_pm1":0.33`)
	assert.True(t, strings.HasPrefix(out, `{"timestamp":60.0,`))
}

func TestEmitTemperatureHumidityLabels(t *testing.T) {
	var m frame.Measurement
	m.Values[10] = 23.5
	m.Values[11] = 40.1

	var buf strings.Builder
	w := emit.NewWriter(&buf, frame.PMS5003T)
	require.NoError(t, w.Emit(m, 1, 0))

	out := buf.String()
	assert.Contains(t, out, `"temperature":23.50`)
	assert.Contains(t, out, `"humidity":40.10`)
	assert.NotContains(t, out, "count_5um")
	assert.NotContains(t, out, "count_10um")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestEmitPropagatesWriteFailure(t *testing.T) {
	w := emit.NewWriter(failingWriter{}, frame.PMS5003)
	err := w.Emit(frame.Measurement{}, 1, 0)
	require.Error(t, err)
}
