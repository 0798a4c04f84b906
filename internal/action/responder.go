package action

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/radiusart/mint-actions/internal/mint"
	"github.com/radiusart/mint-actions/internal/onchain"
	"go.uber.org/zap"
)

// Resolver fetches authoritative metadata and price for a collection.
type Resolver interface {
	Resolve(ctx context.Context, ref mint.CollectionRef) (*mint.ActionMetadata, error)
}

// TransactionRecorder counts transactions handed back to clients.
type TransactionRecorder interface {
	RecordTransactionBuilt(ctx context.Context, network string)
}

// Card is what a wallet renders before the user confirms a mint.
type Card struct {
	Icon        string
	Label       string
	Title       string
	Description string
}

// Responder runs the metadata and transaction flows of the mint action.
type Responder struct {
	resolver   Resolver
	builder    onchain.TransactionBuilderInterface
	dispatcher *Dispatcher
	receiver   string
	network    string
	logger     *zap.SugaredLogger
	metrics    TransactionRecorder
}

// Option configures a Responder.
type Option func(*Responder)

// WithNetwork labels built transactions with the cluster they target.
func WithNetwork(network string) Option {
	return func(r *Responder) {
		r.network = network
	}
}

// WithTransactionRecorder reports every built transaction to rec.
func WithTransactionRecorder(rec TransactionRecorder) Option {
	return func(r *Responder) {
		r.metrics = rec
	}
}

// NewResponder wires the flows. receiver is the address that collects the
// mint price; an empty receiver makes every transaction request fail with
// mint.ErrInvalidAddress.
func NewResponder(
	resolver Resolver,
	builder onchain.TransactionBuilderInterface,
	dispatcher *Dispatcher,
	receiver string,
	logger *zap.SugaredLogger,
	opts ...Option,
) *Responder {
	r := &Responder{
		resolver:   resolver,
		builder:    builder,
		dispatcher: dispatcher,
		receiver:   receiver,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Metadata resolves the card for rawRef.
func (r *Responder) Metadata(ctx context.Context, rawRef string) (*Card, error) {
	ref, err := mint.ParseCollectionRef(rawRef)
	if err != nil {
		return nil, err
	}

	meta, err := r.resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &Card{
		Icon:        meta.ImageURL,
		Label:       mint.ActionLabel,
		Title:       meta.Title,
		Description: meta.Description,
	}, nil
}

// Transaction builds the unsigned payment for account and returns it base64
// encoded. The price always comes from the metadata resolved here. The
// notification is dispatched only after the transaction is ready and its
// outcome never reaches the caller.
func (r *Responder) Transaction(ctx context.Context, rawRef, account string) (string, error) {
	ref, err := mint.ParseCollectionRef(rawRef)
	if err != nil {
		return "", err
	}

	meta, err := r.resolver.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}

	lamports, err := meta.UnitPriceLamports()
	if err != nil {
		return "", fmt.Errorf("price for %q: %w", ref, err)
	}

	prepared, err := r.builder.BuildTransfer(ctx, account, r.receiver, lamports)
	if err != nil {
		return "", err
	}

	raw, err := prepared.Serialize()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	if r.metrics != nil {
		r.metrics.RecordTransactionBuilt(ctx, r.network)
	}
	r.logger.Infow("Built mint transaction",
		"collection", ref,
		"payer", prepared.Intent.Payer,
		"lamports", prepared.Intent.AmountLamports,
		"blockhash", prepared.Blockhash(),
	)

	if r.dispatcher != nil {
		r.dispatcher.Dispatch(ctx, mint.MintNotification{
			CollectionRef: ref,
			Account:       prepared.Intent.Payer,
		})
	}

	return encoded, nil
}
