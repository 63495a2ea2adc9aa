package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// DefaultDeliveryTimeout caps how long a record may wait for the broker,
// retries included.
const DefaultDeliveryTimeout = 10 * time.Second

// Kafka publishes events as JSON records keyed by subject id.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects a producer to brokers. Records go to topic.
func NewKafka(brokers []string, topic string, opts ...kgo.Opt) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	opts = append([]kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(DefaultDeliveryTimeout),
	}, opts...)
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka: create client: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

// Publish blocks until the broker acknowledges the record, ctx is done or
// the delivery timeout passes.
func (k *Kafka) Publish(ctx context.Context, event Event) error {
	value, err := encode(event)
	if err != nil {
		return err
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(event.SubjectID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", event.Type, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	k.client.Close()
	return nil
}

func encode(event Event) ([]byte, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("kafka: encode %s: %w", event.Type, err)
	}
	return value, nil
}
