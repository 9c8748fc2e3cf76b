package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentkart/scentkart-backend/pkg/config"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/enums"
	"github.com/scentkart/scentkart-backend/pkg/logger"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    map[uuid.UUID]string
}

func (f *fakeRepo) FetchUnpublishedForPublish(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	out := []models.OutboxEvent{}
	for _, ev := range f.events {
		if len(out) == limit {
			break
		}
		if ev.PublishedAt == nil && ev.AttemptCount < maxAttempts {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	for i := range f.events {
		if f.events[i].ID == id {
			now := f.events[i].CreatedAt
			f.events[i].PublishedAt = &now
		}
	}
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	if f.failed == nil {
		f.failed = map[uuid.UUID]string{}
	}
	f.failed[id] = err.Error()
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].AttemptCount++
		}
	}
	return nil
}

type capturePublisher struct {
	messages []kafka.Message
	err      error
}

func (c *capturePublisher) Publish(_ context.Context, msg kafka.Message) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, msg)
	return nil
}

func outboxEvent(t *testing.T, eventType enums.OutboxEventType) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"order_number": "ORD1"})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       payload,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, pub publisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "outbox-publisher-test"}),
		Repository: repo,
		Publisher:  pub,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatch_PublishesAndMarks(t *testing.T) {
	first := outboxEvent(t, enums.EventOrderCreated)
	second := outboxEvent(t, enums.EventOrderCancelled)
	repo := &fakeRepo{events: []models.OutboxEvent{first, second}}
	pub := &capturePublisher{}

	svc := newTestService(t, repo, pub)
	require.NoError(t, svc.processBatch(context.Background()))

	require.Len(t, pub.messages, 2)
	assert.Equal(t, []byte(first.AggregateID.String()), pub.messages[0].Key)
	assert.JSONEq(t, string(first.Payload), string(pub.messages[0].Value))
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, repo.published)
	assert.Empty(t, repo.failed)

	headers := map[string]string{}
	for _, h := range pub.messages[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, string(enums.EventOrderCreated), headers["event_type"])
	assert.Equal(t, first.ID.String(), headers["outbox_event_id"])
}

func TestProcessBatch_BrokerFailureMarksFailed(t *testing.T) {
	event := outboxEvent(t, enums.EventOrderCreated)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &capturePublisher{err: errors.New("broker unreachable")}

	svc := newTestService(t, repo, pub)
	require.NoError(t, svc.processBatch(context.Background()))

	assert.Empty(t, repo.published)
	assert.Contains(t, repo.failed[event.ID], "broker unreachable")
	assert.Equal(t, 1, repo.events[0].AttemptCount)
}

func TestProcessBatch_SkipsExhaustedEvents(t *testing.T) {
	event := outboxEvent(t, enums.EventOrderCreated)
	event.AttemptCount = defaultMaxAttempts
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &capturePublisher{}

	svc := newTestService(t, repo, pub)
	require.NoError(t, svc.processBatch(context.Background()))

	assert.Empty(t, pub.messages)
	assert.Empty(t, repo.published)
}

func TestNewService_RequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{
		Config: &config.Config{},
		Logger: logger.New(logger.Options{ServiceName: "outbox-publisher-test"}),
	})
	require.Error(t, err)
}
