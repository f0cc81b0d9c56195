package metrics

// Noop satisfies the recorder interfaces when metrics are disabled.
type Noop struct{}

func (Noop) ObserveOperation(operation, outcome string) {}
func (Noop) ObserveCompensation(step string, ok bool)    {}
func (Noop) IncCorruptState()                            {}
func (Noop) ObserveReconciliation(result string)         {}
func (Noop) AddSlotsGenerated(n int)                     {}
