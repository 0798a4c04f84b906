package events

import (
	"context"
	"errors"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/radiusart/mint-actions/internal/config"
	"github.com/radiusart/mint-actions/internal/mint"
	sdk "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...sdk.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestPublisher_NotifyMint(t *testing.T) {
	writer := new(MockWriter)
	p := NewPublisher(writer, "devnet")
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	var sent []sdk.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]sdk.Message) }).
		Return(nil).Once()

	err := p.NotifyMint(context.Background(), mint.MintNotification{CollectionRef: "18", Account: "payer"})
	require.NoError(t, err)
	writer.AssertExpectations(t)

	require.Len(t, sent, 1)
	assert.Equal(t, "18", string(sent[0].Key))

	var event MintRequested
	require.NoError(t, json.Unmarshal(sent[0].Value, &event))
	_, err = uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, MintRequestedType, event.Type)
	assert.Equal(t, "18", event.CollectionRef)
	assert.Equal(t, "payer", event.Account)
	assert.Equal(t, "devnet", event.Network)
	assert.True(t, fixed.Equal(event.OccurredAt))
}

func TestPublisher_WriteError(t *testing.T) {
	writer := new(MockWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))

	err := NewPublisher(writer, "mainnet").NotifyMint(context.Background(), mint.MintNotification{CollectionRef: "1", Account: "a"})
	assert.ErrorContains(t, err, "leader not available")
}

func TestNewKafkaPublisher_Disabled(t *testing.T) {
	assert.Nil(t, NewKafkaPublisher(config.EventsConfig{}, "devnet"))

	p := NewKafkaPublisher(config.EventsConfig{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "mint-requested"}, "devnet")
	require.NotNil(t, p)
	assert.Equal(t, "kafka", p.Name())
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisher_KeepsCollectionOnOnePartition(t *testing.T) {
	p := NewKafkaPublisher(config.EventsConfig{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "mint-requested"}, "devnet")
	require.NotNil(t, p)
	defer p.Close()

	writer, ok := p.writer.(*sdk.Writer)
	require.True(t, ok)
	require.IsType(t, &sdk.Hash{}, writer.Balancer)

	partitions := []int{0, 1, 2}
	first := writer.Balancer.Balance(sdk.Message{Key: []byte("18")}, partitions...)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, writer.Balancer.Balance(sdk.Message{Key: []byte("18")}, partitions...))
	}
}
