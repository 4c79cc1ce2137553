package vm

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// CallMetadata carries the fields an executor needs to invoke the deployed
// contract for a single fixture call.
type CallMetadata struct {
	Signature string       // e.g. "f(uint256)"
	Value     *uint256.Int // wei sent along, nil means zero
	Arguments []byte       // encoded arguments without selector
}

// Selector returns the 4-byte function selector of a signature.
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// Calldata is the selector followed by the encoded arguments.
func (m *CallMetadata) Calldata() []byte {
	data := make([]byte, 0, 4+len(m.Arguments))
	data = append(data, Selector(m.Signature)...)
	return append(data, m.Arguments...)
}
