package collector

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/spanline/spanline/trace"
)

// KafkaConfig configures the Kafka shipping adapter.
type KafkaConfig struct {
	// Brokers is the bootstrap.servers list.
	Brokers string
	// Topic receives one JSON-encoded span per message.
	Topic string
	// Codec formats ids on the wire. Hex when nil.
	Codec trace.IDCodec
}

// Kafka assembles completed spans and produces each one to a topic.
// Delivery is asynchronous; failures are logged, never surfaced to the
// request path.
type Kafka struct {
	scoped
	cfg      KafkaConfig
	endpoint trace.Endpoint
	builder  *spanBuilder
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewKafka creates the adapter and starts draining delivery reports.
func NewKafka(cfg KafkaConfig, endpoint trace.Endpoint, logger *zap.Logger) (*Kafka, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka collector requires a topic")
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	k := &Kafka{
		scoped:   newScoped(),
		cfg:      cfg,
		endpoint: endpoint,
		builder:  newSpanBuilder(cfg.Codec),
		producer: producer,
		logger:   logger,
	}
	go k.drainEvents()
	return k, nil
}

func (k *Kafka) Record(ev trace.Event) error {
	if !ev.Context.Sampled {
		return nil
	}

	span, err := k.builder.observe(ev)
	if err != nil {
		return err
	}
	if span == nil {
		return nil
	}

	body, err := sonic.Marshal(span)
	if err != nil {
		return fmt.Errorf("failed to encode span: %w", err)
	}

	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &k.cfg.Topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(span.TraceID),
		Value: body,
	}
	if err := k.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("failed to produce span: %w", err)
	}
	return nil
}

// drainEvents logs asynchronous delivery failures.
func (k *Kafka) drainEvents() {
	for e := range k.producer.Events() {
		m, ok := e.(*kafka.Message)
		if !ok {
			continue
		}
		if m.TopicPartition.Error != nil {
			k.logger.Warn("span delivery failed",
				zap.Error(m.TopicPartition.Error),
				zap.String("trace_id", string(m.Key)),
			)
		}
	}
}

// Close flushes outstanding messages and stops the producer.
func (k *Kafka) Close() error {
	remaining := k.producer.Flush(int((5 * time.Second).Milliseconds()))
	k.producer.Close()
	if remaining > 0 {
		return fmt.Errorf("%d spans still queued at shutdown", remaining)
	}
	return nil
}
