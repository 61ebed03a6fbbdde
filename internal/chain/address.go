package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"memewatch/internal/domain/models"
)

// AddressKind classifies the shape of user input.
type AddressKind int

const (
	KindNone AddressKind = iota // not address-shaped, treat as symbol
	KindEVM
	KindSolana
)

const maxInputLen = 100

// Detect inspects raw input and reports whether it looks like a contract
// address, and on which family of chains. Solana mints are base58-encoded
// 32-byte values; EVM addresses are 0x-prefixed 20-byte hex.
func Detect(raw string) AddressKind {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxInputLen {
		return KindNone
	}
	if common.IsHexAddress(s) {
		return KindEVM
	}
	// Solana mint addresses are 32..44 chars of base58.
	if len(s) >= 32 && len(s) <= 44 {
		if b, err := base58.Decode(s); err == nil && len(b) == 32 {
			return KindSolana
		}
	}
	return KindNone
}

// NormalizeEVM returns the checksummed form of an EVM address.
func NormalizeEVM(raw string) string {
	return common.HexToAddress(strings.TrimSpace(raw)).Hex()
}

// Infer picks the chain for a query: an explicit hint wins, otherwise the
// address shape decides. EVM-shaped input with no hint defaults to ETH since
// the shape alone cannot distinguish ETH from BSC.
func Infer(kind AddressKind, hint models.Chain) models.Chain {
	if hint != models.ChainUnknown {
		return hint
	}
	switch kind {
	case KindEVM:
		return models.ChainETH
	case KindSolana:
		return models.ChainSOL
	default:
		return models.ChainUnknown
	}
}

// ValidSymbol reports whether raw is usable as a symbol search term.
func ValidSymbol(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" || len(s) > maxInputLen {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
