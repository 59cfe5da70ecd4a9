package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LukaszMeyer/pms5003/internal/aggregate"
	"github.com/LukaszMeyer/pms5003/internal/errors"
	"github.com/LukaszMeyer/pms5003/internal/frame"
)

func measurementWith(values ...float64) frame.Measurement {
	var m frame.Measurement
	copy(m.Values[:], values)
	return m
}

func TestMeanOfSingleMeasurement(t *testing.T) {
	var acc aggregate.Accumulator
	m := measurementWith(5, 10, 15, 20, 25, 30, 2, 3, 4, 5, 200, 50)
	acc.Add(m)

	mean, n, err := acc.Mean()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	assert.Equal(t, m, mean)
}

func TestMeanAveragesEveryField(t *testing.T) {
	var acc aggregate.Accumulator
	acc.Add(measurementWith(0, 10, 3, 10))
	acc.Add(measurementWith(2, 20, 3, 20))
	acc.Add(measurementWith(4, 30, 3, 60))

	require.Equal(t, uint64(3), acc.Count())

	mean, n, err := acc.Mean()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	assert.InDelta(t, 2.0, mean.Values[0], 1e-9)
	assert.InDelta(t, 20.0, mean.Values[1], 1e-9)
	assert.InDelta(t, 3.0, mean.Values[2], 1e-9)
	assert.InDelta(t, 30.0, mean.Values[3], 1e-9)
	for i := 4; i < frame.NumFields; i++ {
		assert.Zero(t, mean.Values[i])
	}
}

func TestMeanOfEmptyAccumulatorIsAnError(t *testing.T) {
	var acc aggregate.Accumulator

	_, n, err := acc.Mean()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrEmptyWindow))
	assert.Equal(t, uint64(0), n)
}

func TestMeanDoesNotConsumeState(t *testing.T) {
	var acc aggregate.Accumulator
	acc.Add(measurementWith(10))
	acc.Add(measurementWith(20))

	first, _, err := acc.Mean()
	require.NoError(t, err)
	second, _, err := acc.Mean()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
