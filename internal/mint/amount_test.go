package mint

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLamportsFromSOL(t *testing.T) {
	tests := []struct {
		name    string
		sol     string
		want    string
		wantErr error
	}{
		{name: "whole SOL", sol: "2", want: "2000000000"},
		{name: "fractional SOL", sol: "0.25", want: "250000000"},
		{name: "smallest unit", sol: "0.000000001", want: "1"},
		{name: "free mint", sol: "0", want: "0"},
		{name: "negative price", sol: "-1", wantErr: ErrInvalidAmount},
		{name: "sub-lamport price", sol: "0.0000000001", wantErr: ErrInvalidAmount},
		{name: "overflows u64", sol: "18446744074", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LamportsFromSOL(decimal.RequireFromString(tt.sol))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestUnitPriceLamports(t *testing.T) {
	meta := ActionMetadata{UnitPrice: decimal.NewFromInt(2)}

	got, err := meta.UnitPriceLamports()
	require.NoError(t, err)
	assert.Equal(t, uint64(2*LamportsPerSOL), got.BigInt().Uint64())
}

func TestParseCollectionRef(t *testing.T) {
	ref, err := ParseCollectionRef(" 18 ")
	require.NoError(t, err)
	assert.Equal(t, CollectionRef("18"), ref)

	for _, raw := range []string{"", "   ", "\t"} {
		_, err := ParseCollectionRef(raw)
		assert.ErrorIs(t, err, ErrInvalidReference, "raw=%q", raw)
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidReference, "INVALID_REFERENCE"},
		{fmt.Errorf("payer: %w", ErrInvalidAddress), "INVALID_ADDRESS"},
		{fmt.Errorf("price: %w", ErrInvalidAmount), "INVALID_AMOUNT"},
		{fmt.Errorf("fetch: %w", ErrUpstreamUnavailable), "UPSTREAM_UNAVAILABLE"},
		{fmt.Errorf("decode: %w", ErrUpstreamMalformed), "UPSTREAM_MALFORMED"},
		{fmt.Errorf("blockhash: %w", ErrAssemblyUnavailable), "ASSEMBLY_UNAVAILABLE"},
		{errors.New("boom"), "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), tt.err.Error())
	}
}
