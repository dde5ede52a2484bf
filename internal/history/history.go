// Package history keeps a bounded rolling window of values per metric.
//
// The Store is owned by a single writer (the sampling loop) and is not safe
// for concurrent use. Readers on other goroutines get an immutable Snapshot.
package history

import (
	"fmt"

	"github.com/rileyhilliard/resourcelight/internal/sample"
)

// DefaultCapacity is the default number of data points to retain per metric.
const DefaultCapacity = 60

// Store manages one fixed-size ring buffer per metric key.
type Store struct {
	capacity int
	series   map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// New creates a store whose series each hold at most capacity values.
func New(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("history capacity must be positive (got %d)", capacity)
	}
	return &Store{
		capacity: capacity,
		series:   make(map[string]*ringBuffer),
	}, nil
}

// Capacity returns the per-series capacity.
func (s *Store) Capacity() int {
	return s.capacity
}

// Push appends v to the series for key, evicting the oldest value once the
// series is full. The series is created on first use.
func (s *Store) Push(key string, v float64) {
	rb, ok := s.series[key]
	if !ok {
		rb = newRingBuffer(s.capacity)
		s.series[key] = rb
	}
	rb.push(v)
}

// Record pushes every value a sample carries under its metric key.
func (s *Store) Record(smp sample.Sample) {
	for key, v := range smp.Values() {
		s.Push(key, v)
	}
}

// Series returns a copy of the values for key, oldest first.
func (s *Store) Series(key string) []float64 {
	rb, ok := s.series[key]
	if !ok {
		return nil
	}
	return rb.getAll()
}

// Snapshot copies every series into an immutable value.
func (s *Store) Snapshot() Snapshot {
	data := make(map[string][]float64, len(s.series))
	for k, rb := range s.series {
		data[k] = rb.getAll()
	}
	return Snapshot{capacity: s.capacity, data: data}
}

// Snapshot is a point-in-time copy of a Store. It is safe to share across
// goroutines because nothing mutates it after creation.
type Snapshot struct {
	capacity int
	data     map[string][]float64
}

// Capacity returns the capacity of the store the snapshot was taken from.
func (s Snapshot) Capacity() int {
	return s.capacity
}

// Series returns the values for key, oldest first. The returned slice must
// not be modified.
func (s Snapshot) Series(key string) []float64 {
	return s.data[key]
}

// newRingBuffer creates a new ring buffer with the specified capacity.
func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

// push adds a value to the ring buffer.
func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head points to the next write position, so the most recent value is at head-1
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		idx := (start + i) % r.size
		result[i] = r.data[idx]
	}

	return result
}

// getAll returns all stored values in chronological order.
func (r *ringBuffer) getAll() []float64 {
	return r.getLast(r.count)
}
