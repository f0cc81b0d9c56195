package testutil

import "sync"

// Metrics counts recorder calls
type Metrics struct {
	mu sync.Mutex

	Operations      map[string]int // "op/outcome"
	Compensations   map[string]int // "step/ok|failed"
	CorruptState    int
	Reconciliations map[string]int
	SlotsGenerated  int
}

// NewMetrics creates an empty recorder
func NewMetrics() *Metrics {
	return &Metrics{
		Operations:      make(map[string]int),
		Compensations:   make(map[string]int),
		Reconciliations: make(map[string]int),
	}
}

func (m *Metrics) ObserveOperation(operation, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Operations[operation+"/"+outcome]++
}

func (m *Metrics) ObserveCompensation(step string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.Compensations[step+"/"+result]++
}

func (m *Metrics) IncCorruptState() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CorruptState++
}

func (m *Metrics) ObserveReconciliation(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reconciliations[result]++
}

func (m *Metrics) AddSlotsGenerated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SlotsGenerated += n
}
