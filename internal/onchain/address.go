package onchain

import (
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
	"github.com/radiusart/mint-actions/internal/mint"
)

const addressLength = 32

// ParseAddress decodes a base58 account address and requires it to be a
// 32-byte public key. common.PublicKeyFromString silently pads or truncates,
// so the length is checked here first.
func ParseAddress(raw string) (common.PublicKey, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return common.PublicKey{}, fmt.Errorf("%w: address is empty", mint.ErrInvalidAddress)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %q is not base58", mint.ErrInvalidAddress, s)
	}
	if len(b) != addressLength {
		return common.PublicKey{}, fmt.Errorf("%w: %q decodes to %d bytes, want %d", mint.ErrInvalidAddress, s, len(b), addressLength)
	}
	return common.PublicKeyFromBytes(b), nil
}

// ValidAddress reports whether raw is a well-formed account address.
func ValidAddress(raw string) bool {
	_, err := ParseAddress(raw)
	return err == nil
}
