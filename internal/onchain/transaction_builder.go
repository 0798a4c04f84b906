package onchain

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/radiusart/mint-actions/internal/mint"
	"github.com/shopspring/decimal"
)

// TransactionBuilderInterface builds unsigned transfer transactions.
type TransactionBuilderInterface interface {
	BuildTransfer(ctx context.Context, payer, payee string, amountLamports decimal.Decimal) (*PreparedTransaction, error)
}

// PreparedTransaction is an unsigned envelope holding exactly one System
// Program transfer, with the payer as fee payer. It is never retained.
type PreparedTransaction struct {
	Transaction types.Transaction
	Intent      mint.TransferIntent
}

// Serialize returns the wire encoding with zeroed signature slots.
func (p *PreparedTransaction) Serialize() ([]byte, error) {
	return p.Transaction.Serialize()
}

// Blockhash returns the recent blockhash chosen by the assembler.
func (p *PreparedTransaction) Blockhash() string {
	return p.Transaction.Message.RecentBlockHash
}

// TransactionBuilder has no mutable state and is safe for concurrent use.
type TransactionBuilder struct {
	assembler Assembler
}

func NewTransactionBuilder(assembler Assembler) *TransactionBuilder {
	return &TransactionBuilder{assembler: assembler}
}

// NewTransferIntent validates both addresses and the amount.
func NewTransferIntent(payer, payee string, amountLamports decimal.Decimal) (mint.TransferIntent, error) {
	from, err := ParseAddress(payer)
	if err != nil {
		return mint.TransferIntent{}, fmt.Errorf("payer: %w", err)
	}
	to, err := ParseAddress(payee)
	if err != nil {
		return mint.TransferIntent{}, fmt.Errorf("payee: %w", err)
	}
	amount, err := mint.CheckLamports(amountLamports)
	if err != nil {
		return mint.TransferIntent{}, err
	}
	return mint.TransferIntent{
		Payer:          from.ToBase58(),
		Payee:          to.ToBase58(),
		AmountLamports: amount.BigInt().Uint64(),
	}, nil
}

// TransferInstruction is the System Program transfer for intent.
func TransferInstruction(intent mint.TransferIntent) types.Instruction {
	return system.Transfer(system.TransferParam{
		From:   common.PublicKeyFromString(intent.Payer),
		To:     common.PublicKeyFromString(intent.Payee),
		Amount: intent.AmountLamports,
	})
}

// BuildTransfer builds an unsigned transaction moving amountLamports from
// payer to payee. Envelope assembly is delegated to the Assembler.
func (tb *TransactionBuilder) BuildTransfer(ctx context.Context, payer, payee string, amountLamports decimal.Decimal) (*PreparedTransaction, error) {
	intent, err := NewTransferIntent(payer, payee, amountLamports)
	if err != nil {
		return nil, err
	}

	feePayer := common.PublicKeyFromString(intent.Payer)
	tx, err := tb.assembler.Assemble(ctx, feePayer, []types.Instruction{TransferInstruction(intent)})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", mint.ErrAssemblyUnavailable, err)
	}

	if err := checkEnvelope(tx, feePayer); err != nil {
		return nil, err
	}

	return &PreparedTransaction{Transaction: tx, Intent: intent}, nil
}

func checkEnvelope(tx types.Transaction, feePayer common.PublicKey) error {
	if n := len(tx.Message.Instructions); n != 1 {
		return fmt.Errorf("assembled transaction has %d instructions, want 1", n)
	}
	if len(tx.Message.Accounts) == 0 || tx.Message.Accounts[0] != feePayer {
		return fmt.Errorf("assembled transaction fee payer is not %s", feePayer.ToBase58())
	}
	for i, sig := range tx.Signatures {
		if !isPlaceholderSignature(sig) {
			return fmt.Errorf("assembled transaction carries signature %d", i)
		}
	}
	return nil
}

func isPlaceholderSignature(sig types.Signature) bool {
	for _, b := range sig {
		if b != 0 {
			return false
		}
	}
	return true
}
