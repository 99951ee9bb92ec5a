package audit_test

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"securevote/internal/platform/audit"
	"securevote/pkg/testutil"
)

func TestKafkaPublisherDelivers(t *testing.T) {
	brokers := testutil.StartRedpanda(t)
	ctx := testutil.WaitCtx(t)
	const topic = "securevote.audit.test"

	publisher, err := audit.NewKafkaPublisher(brokers, topic, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	event := audit.Event{
		Category:  audit.CategorySecurity,
		Action:    audit.EventVoterEnrolled,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Subject:   "handle-1",
		Detail:    map[string]any{"templates": float64(2)},
	}
	require.NoError(t, publisher.Emit(ctx, event))
	publisher.Close()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, audit.EventVoterEnrolled, string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, event.Action, got.Action)
	require.Equal(t, event.Subject, got.Subject)
	require.Equal(t, event.Detail, got.Detail)
}
