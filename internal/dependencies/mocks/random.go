package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/pinochle-score/internal/dependencies/random"
)

// MockRandom returns queued values in order
type MockRandom struct {
	mu sync.Mutex

	intn      []int
	ids       []string
	generated int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remain
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.intn) == 0 {
		return 0
	}
	result := r.intn[0]
	r.intn = r.intn[1:]
	return result % n
}

// ID returns the next queued id. Once the queue is drained it falls back
// to sequential ids so callers still get unique values.
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.ids) > 0 {
		result := r.ids[0]
		r.ids = r.ids[1:]
		return result
	}
	r.generated++
	return fmt.Sprintf("id-%d", r.generated)
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intn = append(r.intn, values...)
}

// QueueID adds values to the ID result queue
func (r *MockRandom) QueueID(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, values...)
}
