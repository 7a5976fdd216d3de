package biped

// SelfCollisionFlag latches once any non-ground pair has collided.
// The zero value is lowered. There is no way to lower it again.
type SelfCollisionFlag struct {
	raised bool
	step   int
}

// Raise latches the flag; the step of the first raise is kept.
// It reports whether this call changed the flag.
func (f *SelfCollisionFlag) Raise(step int) bool {
	if f.raised {
		return false
	}
	f.raised = true
	f.step = step
	return true
}

func (f *SelfCollisionFlag) Raised() bool { return f.raised }

// FirstStep is the step at which the flag was raised, or -1.
func (f *SelfCollisionFlag) FirstStep() int {
	if !f.raised {
		return -1
	}
	return f.step
}
