package monitoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrEmptyWindow is returned by aggregate queries over a window with no data.
var ErrEmptyWindow = errors.New("monitoring: empty window")

// RollingWindow is a fixed-capacity FIFO buffer of observations. When full,
// Push evicts the oldest value. It carries no locking of its own; the owning
// Monitor serializes access.
type RollingWindow struct {
	capacity int
	values   []float64
	head     int // index of the oldest value
	size     int
}

// NewRollingWindow creates a window holding at most capacity values.
func NewRollingWindow(capacity int) *RollingWindow {
	if capacity <= 0 {
		capacity = 1
	}
	return &RollingWindow{
		capacity: capacity,
		values:   make([]float64, capacity),
	}
}

// Push appends v, evicting the oldest value when the window is full.
func (w *RollingWindow) Push(v float64) {
	if w.size < w.capacity {
		w.values[(w.head+w.size)%w.capacity] = v
		w.size++
		return
	}
	w.values[w.head] = v
	w.head = (w.head + 1) % w.capacity
}

// Len returns the number of values currently held.
func (w *RollingWindow) Len() int {
	return w.size
}

// Capacity returns the maximum number of values the window holds.
func (w *RollingWindow) Capacity() int {
	return w.capacity
}

// Clear drops all values.
func (w *RollingWindow) Clear() {
	w.head = 0
	w.size = 0
}

// Values returns a copy of the current contents, oldest first.
func (w *RollingWindow) Values() []float64 {
	out := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.values[(w.head+i)%w.capacity]
	}
	return out
}

// Tail returns up to n of the most recent values in insertion order.
func (w *RollingWindow) Tail(n int) []float64 {
	if n > w.size {
		n = w.size
	}
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	start := w.size - n
	for i := 0; i < n; i++ {
		out[i] = w.values[(w.head+start+i)%w.capacity]
	}
	return out
}

// Mean returns the arithmetic mean of the current contents.
func (w *RollingWindow) Mean() (float64, error) {
	if w.size == 0 {
		return 0, ErrEmptyWindow
	}
	sum := 0.0
	for i := 0; i < w.size; i++ {
		sum += w.values[(w.head+i)%w.capacity]
	}
	return sum / float64(w.size), nil
}

// Std returns the population standard deviation of the current contents.
func (w *RollingWindow) Std() (float64, error) {
	mean, err := w.Mean()
	if err != nil {
		return 0, err
	}
	ss := 0.0
	for i := 0; i < w.size; i++ {
		d := w.values[(w.head+i)%w.capacity] - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(w.size)), nil
}

// Min returns the smallest value in the window.
func (w *RollingWindow) Min() (float64, error) {
	if w.size == 0 {
		return 0, ErrEmptyWindow
	}
	min := w.values[w.head]
	for i := 1; i < w.size; i++ {
		if v := w.values[(w.head+i)%w.capacity]; v < min {
			min = v
		}
	}
	return min, nil
}

// Max returns the largest value in the window.
func (w *RollingWindow) Max() (float64, error) {
	if w.size == 0 {
		return 0, ErrEmptyWindow
	}
	max := w.values[w.head]
	for i := 1; i < w.size; i++ {
		if v := w.values[(w.head+i)%w.capacity]; v > max {
			max = v
		}
	}
	return max, nil
}

// Median returns the 50th percentile of the current contents.
func (w *RollingWindow) Median() (float64, error) {
	return w.Percentile(50)
}

// Percentile returns the p-th percentile (p in [0, 100]) of the current
// contents using linear interpolation between adjacent ranks.
func (w *RollingWindow) Percentile(p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, fmt.Errorf("monitoring: percentile out of range: %v", p)
	}
	if w.size == 0 {
		return 0, ErrEmptyWindow
	}

	sorted := w.Values()
	sort.Float64s(sorted)

	if w.size == 1 {
		return sorted[0], nil
	}

	rank := p / 100 * float64(w.size-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), nil
}
