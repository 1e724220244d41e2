package observability

import (
	"sync"
	"time"
)

// MockRegistry is a MetricsRegistry for tests; it records counts instead of
// exporting them.
type MockRegistry struct {
	mu            sync.Mutex
	Requests      map[string]int
	Quotes        map[string]int
	Derivations   map[string]int
	CacheOutcomes map[string]int
	Subscriptions int
}

// NewMockRegistry creates an empty MockRegistry.
func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Requests:      make(map[string]int),
		Quotes:        make(map[string]int),
		Derivations:   make(map[string]int),
		CacheOutcomes: make(map[string]int),
	}
}

func (r *MockRegistry) IncrementRequests(endpoint, method, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Requests[endpoint+":"+method+":"+status]++
}

func (r *MockRegistry) RecordRequestLatency(string, string, time.Duration) {}

func (r *MockRegistry) IncrementQuotes(model string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Quotes[model]++
}

func (r *MockRegistry) IncrementDerivations(entity string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Derivations[entity]++
}

func (r *MockRegistry) IncrementAccountCache(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CacheOutcomes[outcome]++
}

func (r *MockRegistry) SetActiveSubscriptions(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Subscriptions = n
}
