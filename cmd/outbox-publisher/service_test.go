package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mlindenberg/gastlink-backend/pkg/config"
	"github.com/mlindenberg/gastlink-backend/pkg/db/models"
	"github.com/mlindenberg/gastlink-backend/pkg/enums"
	"github.com/mlindenberg/gastlink-backend/pkg/logger"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakePubSub struct{ err error }

func (f fakePubSub) Ping(context.Context) error           { return f.err }
func (f fakePubSub) OrdersPublisher() *gcppubsub.Publisher { return nil }

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	fetchErr  error
}

func (f *fakeRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if limit > len(f.events) {
		limit = len(f.events)
	}
	return f.events[:limit], nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

type fakeResult struct {
	id  string
	err error
}

func (f fakeResult) Get(context.Context) (string, error) { return f.id, f.err }

type fakePublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	return fakeResult{id: "m-1", err: f.err}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "outbox-publisher-test", Output: io.Discard})
}

func testConfig() *config.Config {
	return &config.Config{
		PubSub: config.PubSubConfig{OrdersTopic: "order-events"},
		Outbox: config.OutboxConfig{BatchSize: 10, PollIntervalMS: 5, MaxAttempts: 3},
	}
}

func testEvent(t *testing.T, attempts int) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"version": 1,
		"eventId": uuid.NewString(),
		"data":    map[string]string{"status": "confirmed"},
	})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderStateChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		SupplierID:    uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
		AttemptCount:  attempts,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     testConfig(),
		Logger:     testLogger(),
		DB:         fakePinger{},
		PubSub:     fakePubSub{},
		Repository: repo,
		Publisher:  pub,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := testEvent(t, 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Equal(t, []uuid.UUID{event.ID}, repo.published)
	require.Empty(t, repo.failed)

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	require.Equal(t, event.SupplierID.String(), msg.OrderingKey)
	require.Equal(t, event.SupplierID.String(), msg.Attributes["supplier_id"])
	require.Equal(t, string(enums.EventOrderStateChanged), msg.Attributes["event_type"])
	require.Equal(t, event.AggregateID.String(), msg.Attributes["aggregate_id"])
	require.NotEmpty(t, msg.Attributes["event_id"])
	require.JSONEq(t, string(event.Payload), string(msg.Data))
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	first := testEvent(t, 0)
	second := testEvent(t, 0)
	repo := &fakeRepo{events: []models.OutboxEvent{first, second}}
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Empty(t, repo.published)
	require.Equal(t, []uuid.UUID{first.ID, second.ID}, repo.failed)
}

func TestProcessBatchEmptyOutbox(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, &fakePublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunFailsWhenDependencyDown(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Config:     testConfig(),
		Logger:     testLogger(),
		DB:         fakePinger{err: errors.New("connection refused")},
		PubSub:     fakePubSub{},
		Repository: &fakeRepo{},
		Publisher:  &fakePublisher{},
	})
	require.NoError(t, err)

	err = svc.Run(context.Background())
	require.ErrorContains(t, err, "database ping failed")
}
