// Package tracing describes how a fixture call ended inside the EVM.
package tracing

// CallOutcome is a description of the way a call terminated.
type CallOutcome int

const (
	CallUnspecified CallOutcome = iota
	CallReturned                // RETURN or STOP
	CallReverted                // REVERT opcode
	CallHalted                  // out of gas, invalid opcode, failed value transfer
)

// Failed reports whether the call produced no return data because it did
// not finish normally.
func (o CallOutcome) Failed() bool {
	return o == CallReverted || o == CallHalted
}

// String returns a human-readable string for the outcome.
func (o CallOutcome) String() string {
	switch o {
	case CallUnspecified:
		return "unspecified"
	case CallReturned:
		return "returned"
	case CallReverted:
		return "reverted"
	case CallHalted:
		return "halted"
	}
	return "unknown"
}
