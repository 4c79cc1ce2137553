package tracing

import "testing"

func TestCallOutcomeString(t *testing.T) {
	for o, want := range map[CallOutcome]string{
		CallUnspecified: "unspecified",
		CallReturned:    "returned",
		CallReverted:    "reverted",
		CallHalted:      "halted",
		CallOutcome(42): "unknown",
	} {
		if got := o.String(); got != want {
			t.Errorf("outcome %d: got %q, want %q", int(o), got, want)
		}
	}
	if CallReturned.Failed() || !CallReverted.Failed() || !CallHalted.Failed() {
		t.Fatal("unexpected Failed classification")
	}
}
