package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/vies-address-etl/internal/config"
	"github.com/couchcryptid/vies-address-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Reader consumes VIES lookups from a Kafka topic.
// It implements pipeline.BatchExtractor.
type Reader struct {
	reader *kafkago.Reader
	cfg    *config.Config
	logger *slog.Logger
}

// NewReader creates a consumer-group reader for the configured source topic.
// Offsets are committed explicitly by the pipeline after a successful load.
func NewReader(cfg *config.Config, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaSourceTopic,
		GroupID:     cfg.KafkaGroupID,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Reader{reader: r, cfg: cfg, logger: logger}
}

// ExtractBatch fetches up to batchSize messages. It blocks for the first
// message, then returns early once BatchFlushInterval elapses without filling
// the batch.
func (r *Reader) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	msg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}

	batch := make([]domain.RawEvent, 0, batchSize)
	batch = append(batch, r.toRawEvent(msg))

	flushCtx, cancel := context.WithTimeout(ctx, r.cfg.BatchFlushInterval)
	defer cancel()

	for len(batch) < batchSize {
		msg, err := r.reader.FetchMessage(flushCtx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				break
			}
			return batch, err
		}
		batch = append(batch, r.toRawEvent(msg))
	}

	r.logger.Debug("batch extracted", "size", len(batch), "topic", r.cfg.KafkaSourceTopic)
	return batch, nil
}

func (r *Reader) toRawEvent(msg kafkago.Message) domain.RawEvent {
	raw := mapMessageToRawEvent(msg)
	raw.Commit = func(ctx context.Context) error {
		return r.reader.CommitMessages(ctx, msg)
	}
	return raw
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// mapMessageToRawEvent copies a Kafka message into a RawEvent without a commit hook.
func mapMessageToRawEvent(msg kafkago.Message) domain.RawEvent {
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	return domain.RawEvent{
		Key:       msg.Key,
		Value:     msg.Value,
		Headers:   headers,
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Timestamp: msg.Time,
	}
}
