package supervisor

// Trigger is the binary wake condition used to preempt the supervisor's
// sleep. Fire never blocks; fires while the signal is already armed
// collapse into one wake-up. A fire during a running capture stays armed
// and is consumed at the next idle phase.
type Trigger struct {
	ch chan struct{}
}

// NewTrigger creates an unarmed trigger
func NewTrigger() *Trigger {
	return &Trigger{
		ch: make(chan struct{}, 1),
	}
}

// Fire arms the trigger. Fire-and-forget: it does not report whether the
// supervisor was asleep.
func (t *Trigger) Fire() {
	select {
	case t.ch <- struct{}{}:
	default:
	}
}

// C returns the channel the supervisor selects on. Receiving from it
// consumes (clears) the signal.
func (t *Trigger) C() <-chan struct{} {
	return t.ch
}
