package action

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/radiusart/mint-actions/internal/mint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type recordedOutcome struct {
	sink string
	ok   bool
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (f *fakeRecorder) RecordNotification(ctx context.Context, sink string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, recordedOutcome{sink: sink, ok: ok})
}

type panickingNotifier struct{}

func (panickingNotifier) Name() string { return "panicky" }

func (panickingNotifier) NotifyMint(ctx context.Context, n mint.MintNotification) error {
	panic("boom")
}

type blockingNotifier struct{}

func (blockingNotifier) Name() string { return "slow" }

func (blockingNotifier) NotifyMint(ctx context.Context, n mint.MintNotification) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestDispatcher_RecoversPanics(t *testing.T) {
	rec := &fakeRecorder{}
	ok := new(MockNotifier)
	ok.On("NotifyMint", mock.Anything, mock.Anything).Return(nil)

	d := NewDispatcher(zap.NewNop().Sugar(), []Notifier{panickingNotifier{}, ok}, WithNotificationRecorder(rec))
	d.Dispatch(context.Background(), mint.MintNotification{CollectionRef: "1", Account: "a"})

	assert.NoError(t, d.Wait(context.Background()))
	assert.ElementsMatch(t, []recordedOutcome{{sink: "panicky", ok: false}, {sink: "mock", ok: true}}, rec.outcomes)
}

func TestDispatcher_TimeoutBoundsDelivery(t *testing.T) {
	rec := &fakeRecorder{}
	d := NewDispatcher(zap.NewNop().Sugar(), []Notifier{blockingNotifier{}},
		WithNotifyTimeout(20*time.Millisecond), WithNotificationRecorder(rec))

	d.Dispatch(context.Background(), mint.MintNotification{CollectionRef: "1", Account: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Wait(ctx))
	assert.Equal(t, []recordedOutcome{{sink: "slow", ok: false}}, rec.outcomes)
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	n := new(MockNotifier)
	n.On("NotifyMint", mock.Anything, mock.Anything).Run(func(mock.Arguments) { <-release }).Return(nil)

	d := NewDispatcher(zap.NewNop().Sugar(), []Notifier{n})
	d.Dispatch(context.Background(), mint.MintNotification{CollectionRef: "1", Account: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(ctx), context.DeadlineExceeded)
}

func TestDispatcher_NoSinks(t *testing.T) {
	d := NewDispatcher(zap.NewNop().Sugar(), nil)
	d.Dispatch(context.Background(), mint.MintNotification{CollectionRef: "1", Account: "a"})
	assert.NoError(t, d.Wait(context.Background()))
}
