package vm

import "github.com/ethereum/go-ethereum/common"

// Config holds the execution environment shared by all calls of a fixture.
type Config struct {
	Engine      string         // executor backend, see NewExecutor
	Fork        string         // EVM rule set, see ChainConfig
	GasLimit    uint64         // gas available to deployment and each call
	Sender      common.Address // origin and caller of every message
	SenderFunds uint64         // sender balance in ether
}

// DefaultConfig contains the default settings for fixture execution.
var DefaultConfig = Config{
	Engine:      EngineGoEVM,
	Fork:        "cancun",
	GasLimit:    10_000_000,
	Sender:      common.HexToAddress("0x1000000000000000000000000000000000000001"),
	SenderFunds: 1000,
}
