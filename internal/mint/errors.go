package mint

import "errors"

var (
	ErrInvalidReference    = errors.New("invalid collection reference")
	ErrInvalidAddress      = errors.New("invalid account address")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUpstreamUnavailable = errors.New("commerce backend unavailable")
	ErrUpstreamMalformed   = errors.New("commerce backend returned malformed data")

	// ErrAssemblyUnavailable covers failures of the RPC node that supplies
	// the recent blockhash.
	ErrAssemblyUnavailable = errors.New("transaction assembly unavailable")
)

// Code returns the stable machine-readable code for err, or "INTERNAL_ERROR"
// when err is not part of the mint taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidReference):
		return "INVALID_REFERENCE"
	case errors.Is(err, ErrInvalidAddress):
		return "INVALID_ADDRESS"
	case errors.Is(err, ErrInvalidAmount):
		return "INVALID_AMOUNT"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, ErrUpstreamMalformed):
		return "UPSTREAM_MALFORMED"
	case errors.Is(err, ErrAssemblyUnavailable):
		return "ASSEMBLY_UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
