package outbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaPublisher produces envelopes to one topic, keyed by GSRN so that the
// events of a metering point stay ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher connects to brokers. Extra kgo options are appended to
// the defaults.
func NewKafkaPublisher(brokers []string, topic string, opts ...kgo.Opt) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// EnsureTopic creates the topic if it does not exist yet.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replicationFactor int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replicationFactor, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish implements Publisher.
func (p *KafkaPublisher) Publish(ctx context.Context, envs []Envelope) error {
	records := make([]*kgo.Record, 0, len(envs))
	for _, env := range envs {
		records = append(records, &kgo.Record{
			Key:   []byte(env.GsrnNumber),
			Value: envelopeJSON(env),
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(env.EventType)},
				{Key: "event_id", Value: []byte(env.ID.String())},
			},
		})
	}
	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce outbox batch: %w", err)
	}
	return nil
}

// Ping checks broker connectivity.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// LogPublisher writes envelopes to the log instead of a bus. It is used
// when no brokers are configured.
type LogPublisher struct {
	Log func(ctx context.Context, msg string, args ...any)
}

func (p LogPublisher) Publish(ctx context.Context, envs []Envelope) error {
	for _, env := range envs {
		p.Log(ctx, "outbox event",
			"event_id", env.ID.String(),
			"event_type", env.EventType,
			"gsrn", env.GsrnNumber,
		)
	}
	return nil
}
