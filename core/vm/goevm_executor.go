package vm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/clydemeng/semtest/tracing"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/state"
	gethtracing "github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	gethvm "github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/core/vm/runtime"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// ErrNotDeployed is returned by Call before a contract was deployed.
var ErrNotDeployed = errors.New("no contract deployed")

// GoExecutor runs fixtures on the go-ethereum interpreter against an
// in-memory state.
type GoExecutor struct {
	cfg      Config
	chain    *params.ChainConfig
	state    *state.StateDB
	contract common.Address
	deployed bool
}

// NewGoExecutor creates an executor with a fresh state in which the sender
// holds cfg.SenderFunds ether.
func NewGoExecutor(cfg Config) (*GoExecutor, error) {
	if cfg.Fork == "" {
		cfg.Fork = DefaultConfig.Fork
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = DefaultConfig.GasLimit
	}
	chain, err := ChainConfig(cfg.Fork)
	if err != nil {
		return nil, err
	}
	sdb, err := state.New(types.EmptyRootHash, state.NewDatabaseForTesting())
	if err != nil {
		return nil, fmt.Errorf("failed to create state: %w", err)
	}
	e := &GoExecutor{cfg: cfg, chain: chain, state: sdb}

	funds := new(uint256.Int).Mul(uint256.NewInt(cfg.SenderFunds), uint256.NewInt(params.Ether))
	e.SetBalance(cfg.Sender, funds)

	log.Debug("Go EVM executor ready", "fork", ForkName(chain, 0, 0), "sender", cfg.Sender, "funds", funds)
	return e, nil
}

func (e *GoExecutor) Engine() string { return EngineGoEVM }

// SetBalance overrides the balance of an account.
func (e *GoExecutor) SetBalance(addr common.Address, balance *uint256.Int) {
	e.state.SetBalance(addr, balance, gethtracing.BalanceChangeUnspecified)
}

// Balance returns the current balance of an account.
func (e *GoExecutor) Balance(addr common.Address) *uint256.Int {
	return e.state.GetBalance(addr)
}

// Deploy runs the given creation code and returns the created
// contract address.
func (e *GoExecutor) Deploy(ctx context.Context, code []byte) (common.Address, error) {
	if len(code) == 0 {
		return common.Address{}, errors.New("bytecode is empty")
	}
	if err := ctx.Err(); err != nil {
		return common.Address{}, err
	}
	_, addr, leftOver, err := runtime.Create(code, e.runtimeConfig(nil))
	if err != nil {
		return common.Address{}, fmt.Errorf("contract deployment failed: %w", err)
	}
	e.contract, e.deployed = addr, true
	log.Debug("Deployed contract", "address", addr, "gas", e.cfg.GasLimit-leftOver)
	return addr, nil
}

func (e *GoExecutor) Call(ctx context.Context, msg CallMetadata) (*CallResult, error) {
	if !e.deployed {
		return nil, ErrNotDeployed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ret, leftOver, err := runtime.Call(e.contract, msg.Calldata(), e.runtimeConfig(msg.Value))
	res := &CallResult{Output: ret, GasUsed: e.cfg.GasLimit - leftOver}
	switch {
	case err == nil:
		res.Outcome = tracing.CallReturned
	case errors.Is(err, gethvm.ErrExecutionReverted):
		res.Outcome, res.Output, res.Reason = tracing.CallReverted, nil, err
	default:
		res.Outcome, res.Output, res.Reason = tracing.CallHalted, nil, err
	}
	log.Trace("Executed call", "signature", msg.Signature, "outcome", res.Outcome, "gas", res.GasUsed, "output", len(res.Output))
	return res, nil
}

// runtimeConfig is rebuilt per message since the runtime package fills in
// defaults in place.
func (e *GoExecutor) runtimeConfig(value *uint256.Int) *runtime.Config {
	v := new(big.Int)
	if value != nil {
		v = value.ToBig()
	}
	cfg := &runtime.Config{
		ChainConfig: e.chain,
		Origin:      e.cfg.Sender,
		GasLimit:    e.cfg.GasLimit,
		Value:       v,
		State:       e.state,
	}
	if postMerge(e.cfg.Fork) {
		cfg.Random = new(common.Hash)
	}
	return cfg
}
