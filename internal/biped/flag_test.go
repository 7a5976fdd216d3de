package biped

import "testing"

func TestSelfCollisionFlag(t *testing.T) {
	var f SelfCollisionFlag
	if f.Raised() {
		t.Fatal("zero flag should be lowered")
	}
	if f.FirstStep() != -1 {
		t.Errorf("expected -1 before raise, got %d", f.FirstStep())
	}

	if !f.Raise(42) {
		t.Error("first raise should report a change")
	}
	if f.Raise(50) {
		t.Error("second raise should not report a change")
	}
	if !f.Raised() {
		t.Error("flag should stay raised")
	}
	if f.FirstStep() != 42 {
		t.Errorf("expected first step 42, got %d", f.FirstStep())
	}
}
