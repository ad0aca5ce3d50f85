//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"memento/internal/platform/config"
	"memento/internal/platform/kafka"
	id "memento/pkg/domain"
	"memento/pkg/platform/audit"
	auditpostgres "memento/pkg/platform/audit/store/postgres"
	"memento/pkg/testutil"
	"memento/pkg/testutil/containers"
)

// The relay is the only path from the outbox table to Kafka, so this test
// runs against a real Postgres and a real Redpanda broker.
func TestOutboxRelayPublishesCommittedEvents(t *testing.T) {
	ctx := context.Background()
	pg := containers.GetManager().GetPostgres(t)
	rp := containers.GetManager().GetRedpanda(t)
	require.NoError(t, pg.Truncate(ctx))

	topic := "memento.audit." + uuid.NewString()[:8]
	producer, err := kafka.NewClient(config.KafkaConfig{Brokers: []string{rp.Broker}, AuditTopic: topic})
	require.NoError(t, err)
	t.Cleanup(producer.Close)
	require.NoError(t, kafka.EnsureTopics(ctx, producer, testutil.DiscardLogger(), topic))

	store := auditpostgres.New(pg.DB)
	relay := kafka.NewOutboxRelay(pg.DB, producer, topic, 2, testutil.DiscardLogger())
	accountID := id.AccountID(uuid.New())

	testutil.Given(t, "three audit events in the outbox", func(t *testing.T) {
		for _, action := range []audit.AuditEvent{audit.EventReportConfirmed, audit.EventReportFinalized, audit.EventAccountDeceased} {
			require.NoError(t, store.Append(ctx, audit.Event{
				Timestamp: time.Now(),
				AccountID: accountID,
				Action:    string(action),
				ActorID:   "system",
			}))
		}
	})

	testutil.When(t, "the relay drains the outbox", func(t *testing.T) {
		require.NoError(t, relay.Drain(ctx))

		n, err := relay.RunOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, n, "published rows are not claimed again")

		var pending int
		require.NoError(t, pg.DB.QueryRowContext(ctx, `SELECT count(*) FROM outbox WHERE published_at IS NULL`).Scan(&pending))
		assert.Zero(t, pending)
	})

	testutil.Then(t, "every event reaches the topic keyed by account", func(t *testing.T) {
		consumer, err := kgo.NewClient(
			kgo.SeedBrokers(rp.Broker),
			kgo.ConsumeTopics(topic),
			kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		)
		require.NoError(t, err)
		defer consumer.Close()

		pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		var actions []string
		for len(actions) < 3 && pollCtx.Err() == nil {
			fetches := consumer.PollFetches(pollCtx)
			fetches.EachRecord(func(r *kgo.Record) {
				assert.Equal(t, accountID.String(), string(r.Key))
				var payload auditpostgres.Payload
				require.NoError(t, json.Unmarshal(r.Value, &payload))
				assert.Equal(t, string(audit.CategoryCompliance), payload.Category)
				actions = append(actions, payload.Action)
			})
		}
		assert.ElementsMatch(t, []string{
			string(audit.EventReportConfirmed),
			string(audit.EventReportFinalized),
			string(audit.EventAccountDeceased),
		}, actions)
	})
}
