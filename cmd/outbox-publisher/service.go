package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/scentkart/scentkart-backend/pkg/config"
	"github.com/scentkart/scentkart-backend/pkg/db/models"
	"github.com/scentkart/scentkart-backend/pkg/logger"
	"github.com/scentkart/scentkart-backend/pkg/metrics"
)

const (
	defaultBatchSize      = 50
	defaultPollMs         = 500
	defaultMaxAttempts    = 10
	defaultPublishTimeout = 15 * time.Second
)

type outboxRepository interface {
	FetchUnpublishedForPublish(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

// publisher is the broker surface the relay writes to. Events are keyed by
// aggregate id so one aggregate's events stay ordered within a partition.
type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func newKafkaPublisher(cfg config.KafkaConfig) *kafkaPublisher {
	return &kafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.OrdersTopic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *kafkaPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	return p.writer.WriteMessages(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	Publisher  publisher
	Relay      *metrics.RelayMetrics
}

// Service drains the outbox table into Kafka. Each event is published at
// least once; consumers dedupe on the envelope event id.
type Service struct {
	logg         *logger.Logger
	repo         outboxRepository
	publisher    publisher
	relay        *metrics.RelayMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Publisher == nil {
		return nil, errors.New("publisher is required")
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	pollMs := params.Config.Outbox.PollIntervalMS
	if pollMs <= 0 {
		pollMs = defaultPollMs
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		logg:         params.Logger,
		repo:         params.Repository,
		publisher:    params.Publisher,
		relay:        params.Relay,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: time.Duration(pollMs) * time.Millisecond,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.processBatch(ctx); err != nil {
				s.logg.Error(ctx, "outbox batch failed", err)
			}
		}
	}
}

func (s *Service) processBatch(ctx context.Context) error {
	start := time.Now()

	events, err := s.repo.FetchUnpublishedForPublish(s.batchSize, s.maxAttempts)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	for _, event := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.publishOne(ctx, event)
	}

	if s.relay != nil {
		s.relay.ObserveBatchDuration(time.Since(start))
	}
	return nil
}

func (s *Service) publishOne(ctx context.Context, event models.OutboxEvent) {
	eventType := string(event.EventType)
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"outbox_event_id": event.ID.String(),
		"event_type":      eventType,
		"aggregate_id":    event.AggregateID.String(),
	})

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(event.AggregateID.String()),
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
			{Key: "outbox_event_id", Value: []byte(event.ID.String())},
		},
	}

	if err := s.publisher.Publish(publishCtx, msg); err != nil {
		s.logg.Error(logCtx, "publish failed", err)
		if s.relay != nil {
			s.relay.IncFailed(eventType)
		}
		if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
			s.logg.Error(logCtx, "mark failed errored", markErr)
		}
		return
	}

	if err := s.repo.MarkPublished(event.ID); err != nil {
		// The event goes out again next poll; consumers dedupe on event id.
		s.logg.Error(logCtx, "mark published errored", err)
		return
	}
	if s.relay != nil {
		s.relay.IncPublished(eventType)
	}
	s.logg.Info(logCtx, "outbox event published")
}
