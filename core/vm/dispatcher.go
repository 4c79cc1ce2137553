package vm

import (
	"context"
	"fmt"

	"github.com/clydemeng/semtest/tracing"
	"github.com/ethereum/go-ethereum/common"
)

// EngineGoEVM names the in-process go-ethereum interpreter.
const EngineGoEVM = "go-evm"

// Executor is the abstraction the fixture runner drives. An executor holds
// one deployed contract at a time together with the state it modifies.
type Executor interface {
	// Engine returns a human-readable short name identifying the backend.
	Engine() string

	// Deploy runs the creation code and remembers the created contract as
	// the target of subsequent calls.
	Deploy(ctx context.Context, code []byte) (common.Address, error)

	// Call invokes the deployed contract. Reverts and exceptional halts are
	// not errors, they are reported through CallResult.Outcome with empty
	// output.
	Call(ctx context.Context, msg CallMetadata) (*CallResult, error)
}

// CallResult is what an executor reports for a single call.
type CallResult struct {
	Output  []byte // return data, empty unless the call returned normally
	Outcome tracing.CallOutcome
	GasUsed uint64
	Reason  error // EVM error for failed calls
}

// NewExecutor returns the executor selected by cfg.Engine. An empty engine
// selects the Go interpreter.
func NewExecutor(cfg Config) (Executor, error) {
	switch cfg.Engine {
	case "", EngineGoEVM:
		return NewGoExecutor(cfg)
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}
