package vm

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/params"
)

// Forks lists the supported rule sets from oldest to newest. Every fork
// enables all of its predecessors.
var Forks = []string{
	"frontier",
	"homestead",
	"tangerine",
	"spurious",
	"byzantium",
	"petersburg",
	"istanbul",
	"berlin",
	"london",
	"shanghai",
	"cancun",
}

// ChainConfig builds a chain configuration that activates the named fork
// from genesis.
func ChainConfig(fork string) (*params.ChainConfig, error) {
	idx := slices.Index(Forks, fork)
	if idx < 0 {
		return nil, fmt.Errorf("unknown fork %q", fork)
	}
	active := func(name string) bool { return idx >= slices.Index(Forks, name) }

	cfg := &params.ChainConfig{ChainID: big.NewInt(1)}
	if active("homestead") {
		cfg.HomesteadBlock = new(big.Int)
	}
	if active("tangerine") {
		cfg.EIP150Block = new(big.Int)
	}
	if active("spurious") {
		cfg.EIP155Block = new(big.Int)
		cfg.EIP158Block = new(big.Int)
	}
	if active("byzantium") {
		cfg.ByzantiumBlock = new(big.Int)
	}
	if active("petersburg") {
		cfg.ConstantinopleBlock = new(big.Int)
		cfg.PetersburgBlock = new(big.Int)
	}
	if active("istanbul") {
		cfg.IstanbulBlock = new(big.Int)
		cfg.MuirGlacierBlock = new(big.Int)
	}
	if active("berlin") {
		cfg.BerlinBlock = new(big.Int)
	}
	if active("london") {
		cfg.LondonBlock = new(big.Int)
	}
	if active("shanghai") {
		cfg.TerminalTotalDifficulty = new(big.Int)
		cfg.ShanghaiTime = new(uint64)
	}
	if active("cancun") {
		cfg.CancunTime = new(uint64)
	}
	return cfg, nil
}

// ForkName maps the rules active at the given block and timestamp back to
// the name used by ChainConfig.
func ForkName(cfg *params.ChainConfig, num uint64, ts uint64) string {
	bn := new(big.Int).SetUint64(num)
	switch {
	case cfg.IsCancun(bn, ts):
		return "cancun"
	case cfg.IsShanghai(bn, ts):
		return "shanghai"
	case cfg.IsLondon(bn):
		return "london"
	case cfg.IsBerlin(bn):
		return "berlin"
	case cfg.IsIstanbul(bn):
		return "istanbul"
	case cfg.IsPetersburg(bn):
		return "petersburg"
	case cfg.IsByzantium(bn):
		return "byzantium"
	case cfg.IsEIP158(bn):
		return "spurious"
	case cfg.IsEIP150(bn):
		return "tangerine"
	case cfg.IsHomestead(bn):
		return "homestead"
	default:
		return "frontier"
	}
}

// postMerge reports whether the fork needs the merge flag set in the block
// context for its rules to apply.
func postMerge(fork string) bool {
	return slices.Index(Forks, fork) >= slices.Index(Forks, "shanghai")
}
