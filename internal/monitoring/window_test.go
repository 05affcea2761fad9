package monitoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingWindowCapacity(t *testing.T) {
	t.Run("EvictsOldestAtCapacity", func(t *testing.T) {
		w := NewRollingWindow(3)
		for _, v := range []float64{1, 2, 3, 4} {
			w.Push(v)
		}

		assert.Equal(t, 3, w.Len())
		assert.Equal(t, []float64{2, 3, 4}, w.Values())
	})

	t.Run("LenIsMinOfPushesAndCapacity", func(t *testing.T) {
		w := NewRollingWindow(5)
		for i := 0; i < 3; i++ {
			w.Push(float64(i))
		}
		assert.Equal(t, 3, w.Len())

		for i := 0; i < 10; i++ {
			w.Push(float64(i))
		}
		assert.Equal(t, 5, w.Len())
	})

	t.Run("ContentsAreLastCapacityValuesInOrder", func(t *testing.T) {
		w := NewRollingWindow(4)
		for i := 1; i <= 10; i++ {
			w.Push(float64(i))
		}
		assert.Equal(t, []float64{7, 8, 9, 10}, w.Values())
	})

	t.Run("NonPositiveCapacityClampedToOne", func(t *testing.T) {
		w := NewRollingWindow(0)
		w.Push(1)
		w.Push(2)
		assert.Equal(t, 1, w.Len())
		assert.Equal(t, []float64{2}, w.Values())
	})
}

func TestRollingWindowStats(t *testing.T) {
	w := NewRollingWindow(5)
	for _, v := range []float64{10, 20, 30, 40, 50} {
		w.Push(v)
	}

	mean, err := w.Mean()
	require.NoError(t, err)
	assert.Equal(t, 30.0, mean)

	median, err := w.Median()
	require.NoError(t, err)
	assert.Equal(t, 30.0, median)

	min, err := w.Min()
	require.NoError(t, err)
	assert.Equal(t, 10.0, min)

	max, err := w.Max()
	require.NoError(t, err)
	assert.Equal(t, 50.0, max)

	std, err := w.Std()
	require.NoError(t, err)
	assert.InDelta(t, 14.142135, std, 1e-5)
}

func TestRollingWindowEmpty(t *testing.T) {
	w := NewRollingWindow(10)

	_, err := w.Mean()
	assert.ErrorIs(t, err, ErrEmptyWindow)
	_, err = w.Std()
	assert.ErrorIs(t, err, ErrEmptyWindow)
	_, err = w.Min()
	assert.ErrorIs(t, err, ErrEmptyWindow)
	_, err = w.Max()
	assert.ErrorIs(t, err, ErrEmptyWindow)
	_, err = w.Median()
	assert.ErrorIs(t, err, ErrEmptyWindow)
	_, err = w.Percentile(95)
	assert.ErrorIs(t, err, ErrEmptyWindow)

	assert.Empty(t, w.Tail(5))
	assert.Empty(t, w.Values())
}

func TestRollingWindowPercentile(t *testing.T) {
	t.Run("Monotonic", func(t *testing.T) {
		w := NewRollingWindow(100)
		for i := 1; i <= 100; i++ {
			w.Push(float64(i))
		}

		p50, err := w.Percentile(50)
		require.NoError(t, err)
		p95, err := w.Percentile(95)
		require.NoError(t, err)
		p99, err := w.Percentile(99)
		require.NoError(t, err)

		assert.LessOrEqual(t, p50, p95)
		assert.LessOrEqual(t, p95, p99)
	})

	t.Run("LinearInterpolation", func(t *testing.T) {
		w := NewRollingWindow(4)
		for _, v := range []float64{1, 2, 3, 4} {
			w.Push(v)
		}

		p50, err := w.Percentile(50)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, p50, 1e-9)

		p25, err := w.Percentile(25)
		require.NoError(t, err)
		assert.InDelta(t, 1.75, p25, 1e-9)

		p0, err := w.Percentile(0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, p0)

		p100, err := w.Percentile(100)
		require.NoError(t, err)
		assert.Equal(t, 4.0, p100)
	})

	t.Run("SingleValue", func(t *testing.T) {
		w := NewRollingWindow(10)
		w.Push(42)
		for _, p := range []float64{0, 50, 95, 100} {
			v, err := w.Percentile(p)
			require.NoError(t, err)
			assert.Equal(t, 42.0, v)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		w := NewRollingWindow(10)
		w.Push(1)
		_, err := w.Percentile(-1)
		assert.Error(t, err)
		_, err = w.Percentile(101)
		assert.Error(t, err)
	})

	t.Run("NonFinite", func(t *testing.T) {
		w := NewRollingWindow(10)
		w.Push(1)
		w.Push(2)
		_, err := w.Percentile(math.NaN())
		assert.Error(t, err)
		_, err = w.Percentile(math.Inf(1))
		assert.Error(t, err)
		_, err = w.Percentile(math.Inf(-1))
		assert.Error(t, err)
	})
}

func TestRollingWindowTail(t *testing.T) {
	w := NewRollingWindow(5)
	for i := 1; i <= 8; i++ {
		w.Push(float64(i))
	}

	assert.Equal(t, []float64{7, 8}, w.Tail(2))
	assert.Equal(t, []float64{4, 5, 6, 7, 8}, w.Tail(10))
	assert.Empty(t, w.Tail(0))
}

func TestRollingWindowClear(t *testing.T) {
	w := NewRollingWindow(3)
	w.Push(1)
	w.Push(2)
	w.Clear()

	assert.Equal(t, 0, w.Len())
	w.Push(9)
	assert.Equal(t, []float64{9}, w.Values())
}
