package harness

import "github.com/ethereum/go-ethereum/crypto"

func crypto256(data []byte) []byte {
	return crypto.Keccak256(data)
}
