//go:build integration

package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "datahub/pkg/domain"
	"datahub/pkg/testutil/containers"

	"datahub/internal/meteringpoint/domain/meteringpoint"
)

func TestKafkaPublisherDeliversKeyedEnvelopes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	broker := containers.NewRedpandaContainer(t).Broker
	const topic = "metering-point-events"

	publisher, err := NewKafkaPublisher([]string{broker}, topic)
	require.NoError(t, err)
	defer publisher.Close()
	require.NoError(t, publisher.Ping(ctx))
	require.NoError(t, publisher.EnsureTopic(ctx, 3, 1))
	require.NoError(t, publisher.EnsureTopic(ctx, 3, 1), "creating an existing topic is not an error")

	source := NewMemory()
	mpID := id.NewMeteringPointID()
	require.NoError(t, source.Append(ctx, []meteringpoint.Event{connected(mpID), connected(mpID)}))
	n, err := NewWorker(source, publisher).Drain(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) < 2 {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, fetches.Err())
		records = append(records, fetches.Records()...)
	}

	for _, r := range records {
		assert.Equal(t, gsrn, string(r.Key))
		var env Envelope
		require.NoError(t, json.Unmarshal(r.Value, &env))
		assert.Equal(t, meteringpoint.EventMeteringPointConnected, env.EventType)
		assert.Equal(t, mpID.String(), env.AggregateID)
		require.NotEmpty(t, r.Headers)
		assert.Equal(t, "event_type", r.Headers[0].Key)
		assert.Equal(t, meteringpoint.EventMeteringPointConnected, string(r.Headers[0].Value))
	}
	assert.Equal(t, records[0].Partition, records[1].Partition, "events of one metering point share a partition")
}
