package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher delivers activity records. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, record *Record) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka activity producer
type KafkaProducerConfig struct {
	Brokers         []string
	Topic           string
	ClientID        string
	RetryMax        int
	Timeout         time.Duration
	RequiredAcks    sarama.RequiredAcks
	CompressionType sarama.CompressionCodec
	MaxMessageBytes int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:         []string{"localhost:9092"},
		Topic:           "eventdesk.activity",
		ClientID:        "eventdesk",
		RetryMax:        3,
		Timeout:         10 * time.Second,
		RequiredAcks:    sarama.WaitForLocal,
		CompressionType: sarama.CompressionSnappy,
		MaxMessageBytes: 1000000, // 1MB
	}
}

// KafkaPublisher publishes activity records to a Kafka topic
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher connects a synchronous producer to the brokers
func NewKafkaPublisher(config *KafkaProducerConfig) (*KafkaPublisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.ClientID = config.ClientID

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = config.Timeout
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Use hash partitioner for consistent routing based on actor
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return NewKafkaPublisherWithProducer(producer, config.Topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      logger.GetDefault(),
	}
}

func (kp *KafkaPublisher) Publish(ctx context.Context, record *Record) error {
	messageBytes, err := record.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal activity record: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: kp.topic,
		Key:   sarama.StringEncoder(record.PartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(record.Type)},
			{Key: []byte("record_id"), Value: []byte(record.ID.String())},
		},
		Timestamp: record.OccurredAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send activity record to Kafka: %w", err)
	}

	kp.log.DebugContext(ctx, "activity published",
		slog.String("topic", kp.topic),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
		slog.String("type", string(record.Type)),
	)
	return nil
}

func (kp *KafkaPublisher) Close() error {
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// NopPublisher drops every record. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Record) error { return nil }
func (NopPublisher) Close() error                           { return nil }

// Emit publishes record and logs, rather than returns, any failure.
func Emit(ctx context.Context, p Publisher, record *Record) {
	if p == nil || record == nil {
		return
	}
	if err := p.Publish(ctx, record); err != nil {
		logger.GetDefault().WithError(err).WithFields(map[string]interface{}{
			"type":      string(record.Type),
			"record_id": record.ID.String(),
		}).WarnContext(ctx, "activity publish failed")
	}
}
