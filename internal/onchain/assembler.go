package onchain

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
)

const signatureLength = 64

// Assembler turns instructions into a complete unsigned envelope: it picks
// the recent blockhash, sets the fee payer and orders the instructions.
type Assembler interface {
	Assemble(ctx context.Context, feePayer common.PublicKey, instructions []types.Instruction) (types.Transaction, error)
}

// RPCAssembler assembles legacy transactions against a Solana RPC node.
type RPCAssembler struct {
	rpc *client.Client
}

func NewRPCAssembler(rpcURL string) *RPCAssembler {
	return &RPCAssembler{rpc: client.NewClient(rpcURL)}
}

func (a *RPCAssembler) Assemble(ctx context.Context, feePayer common.PublicKey, instructions []types.Instruction) (types.Transaction, error) {
	recent, err := a.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return types.Transaction{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return UnsignedTransaction(feePayer, recent.Blockhash, instructions), nil
}

// UnsignedTransaction compiles a message and reserves one zeroed signature
// slot per required signer, which is how wallets expect an unsigned
// transaction on the wire.
func UnsignedTransaction(feePayer common.PublicKey, blockhash string, instructions []types.Instruction) types.Transaction {
	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        feePayer,
		RecentBlockhash: blockhash,
		Instructions:    instructions,
	})

	sigs := make([]types.Signature, msg.Header.NumRequireSignatures)
	for i := range sigs {
		sigs[i] = make(types.Signature, signatureLength)
	}
	return types.Transaction{Signatures: sigs, Message: msg}
}
