package kafka

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Producer is the subset of *kgo.Client the relay needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// OutboxRelay publishes committed outbox rows to Kafka and stamps them as
// published. Rows are claimed with FOR UPDATE SKIP LOCKED so replicas can run
// the relay concurrently; a crash between produce and commit republishes the
// batch, so consumers dedupe on the payload id.
type OutboxRelay struct {
	db       *sql.DB
	producer Producer
	topic    string
	batch    int
	logger   *slog.Logger
	metrics  *relayMetrics
}

type relayMetrics struct {
	published prometheus.Counter
	failures  prometheus.Counter
}

func NewOutboxRelay(db *sql.DB, producer Producer, topic string, batch int, logger *slog.Logger) *OutboxRelay {
	if batch <= 0 {
		batch = 100
	}
	return &OutboxRelay{
		db:       db,
		producer: producer,
		topic:    topic,
		batch:    batch,
		logger:   logger,
		metrics: &relayMetrics{
			published: promauto.NewCounter(prometheus.CounterOpts{
				Name: "memento_outbox_published_total",
				Help: "Outbox rows published to Kafka",
			}),
			failures: promauto.NewCounter(prometheus.CounterOpts{
				Name: "memento_outbox_publish_failures_total",
				Help: "Outbox relay batches that failed to publish",
			}),
		},
	}
}

type outboxRow struct {
	id          uuid.UUID
	aggregateID string
	eventType   string
	payload     []byte
}

// RunOnce publishes up to one batch. It returns the number of rows published.
func (r *OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin outbox tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, aggregate_id, event_type, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, r.batch)
	if err != nil {
		return 0, fmt.Errorf("claim outbox rows: %w", err)
	}
	var claimed []outboxRow
	for rows.Next() {
		var row outboxRow
		if err := rows.Scan(&row.id, &row.aggregateID, &row.eventType, &row.payload); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox row: %w", err)
		}
		claimed = append(claimed, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox rows: %w", err)
	}
	if len(claimed) == 0 {
		return 0, nil
	}

	records := make([]*kgo.Record, 0, len(claimed))
	ids := make([]string, 0, len(claimed))
	for _, row := range claimed {
		records = append(records, &kgo.Record{
			Topic: r.topic,
			Key:   []byte(row.aggregateID),
			Value: row.payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_type", Value: []byte(row.eventType)},
				{Key: "outbox_id", Value: []byte(row.id.String())},
			},
		})
		ids = append(ids, row.id.String())
	}

	if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		r.metrics.failures.Inc()
		return 0, fmt.Errorf("produce outbox batch: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`,
		time.Now(), pq.Array(ids),
	); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit outbox tx: %w", err)
	}

	r.metrics.published.Add(float64(len(claimed)))
	r.logger.DebugContext(ctx, "outbox batch published", "count", len(claimed))
	return len(claimed), nil
}

// Drain publishes batches until the outbox is empty or ctx is done. It is the
// body of the scheduled relay job.
func (r *OutboxRelay) Drain(ctx context.Context) error {
	for {
		n, err := r.RunOnce(ctx)
		if err != nil {
			return err
		}
		if n < r.batch || ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
