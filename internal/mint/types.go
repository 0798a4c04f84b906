package mint

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// ActionLabel is the button label shown by wallets for the mint action.
const ActionLabel = "Mint Now"

// CollectionRef names a sellable collection at the commerce backend. It is
// passed through untouched apart from surrounding whitespace.
type CollectionRef string

// ParseCollectionRef trims raw and rejects empty references.
func ParseCollectionRef(raw string) (CollectionRef, error) {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return "", ErrInvalidReference
	}
	return CollectionRef(ref), nil
}

func (r CollectionRef) String() string {
	return string(r)
}

// ActionMetadata is the presentation data for a collection, resolved fresh
// on every request.
type ActionMetadata struct {
	ImageURL    string
	Title       string
	Description string
	// UnitPrice is denominated in SOL as reported by the commerce backend.
	UnitPrice decimal.Decimal
}

// UnitPriceLamports converts the resolved unit price into lamports.
func (m ActionMetadata) UnitPriceLamports() (decimal.Decimal, error) {
	return LamportsFromSOL(m.UnitPrice)
}

// TransferIntent describes a single native transfer from payer to payee.
type TransferIntent struct {
	Payer          string
	Payee          string
	AmountLamports uint64
}

// MintNotification tells the commerce backend that an account requested a mint.
type MintNotification struct {
	CollectionRef CollectionRef
	Account       string
}
