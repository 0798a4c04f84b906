package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/radiusart/mint-actions/internal/config"
	"github.com/radiusart/mint-actions/internal/mint"
	sdk "github.com/segmentio/kafka-go"
)

const MintRequestedType = "mint.requested"

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...sdk.Message) error
	Close() error
}

// MintRequested is the event payload published for every mint notification.
type MintRequested struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	CollectionRef string    `json:"collectionRef"`
	Account       string    `json:"account"`
	Network       string    `json:"network"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher writes MintRequested events to a Kafka topic. Delivery is
// best-effort: errors are returned to the caller and never retried here.
type Publisher struct {
	writer  MessageWriter
	network string
	now     func() time.Time
}

// NewKafkaPublisher returns nil when no brokers are configured.
func NewKafkaPublisher(cfg config.EventsConfig, network string) *Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return nil
	}
	writer := &sdk.Writer{
		Addr:         sdk.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		RequiredAcks: sdk.RequireAll,
		Balancer:     &sdk.Hash{},
	}
	return NewPublisher(writer, network)
}

func NewPublisher(writer MessageWriter, network string) *Publisher {
	return &Publisher{writer: writer, network: network, now: time.Now}
}

func (p *Publisher) Name() string {
	return "kafka"
}

// NotifyMint publishes n keyed by collection so events for one collection
// stay ordered within a partition.
func (p *Publisher) NotifyMint(ctx context.Context, n mint.MintNotification) error {
	event := MintRequested{
		ID:            uuid.NewString(),
		Type:          MintRequestedType,
		CollectionRef: n.CollectionRef.String(),
		Account:       n.Account,
		Network:       p.network,
		OccurredAt:    p.now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	if err := p.writer.WriteMessages(ctx, sdk.Message{
		Key:   []byte(event.CollectionRef),
		Value: value,
	}); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
