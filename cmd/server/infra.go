package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"memento/internal/admin"
	"memento/internal/directory"
	dirstore "memento/internal/directory/store"
	"memento/internal/escalation"
	"memento/internal/notify"
	notifystore "memento/internal/notify/store"
	"memento/internal/platform/config"
	"memento/internal/platform/kafka"
	"memento/internal/platform/postgres"
	redisclient "memento/internal/platform/redis"
	releaseservice "memento/internal/release/service"
	releasestore "memento/internal/release/store"
	verificationservice "memento/internal/verification/service"
	verificationstore "memento/internal/verification/store"
	id "memento/pkg/domain"
	"memento/pkg/platform/audit"
	auditmemory "memento/pkg/platform/audit/store/memory"
	auditpostgres "memento/pkg/platform/audit/store/postgres"
	"memento/pkg/platform/tx"
)

// directoryStore is the read side of the registration and asset services,
// plus the two writes this process owns: MarkDeceased and demo seeding.
type directoryStore interface {
	dirstore.Seeder
	FindByID(ctx context.Context, accountID id.AccountID) (*directory.Account, error)
	FindByUsername(ctx context.Context, username string) (*directory.Account, error)
	MarkDeceased(ctx context.Context, accountID id.AccountID, at time.Time) (bool, error)
	ListByAccount(ctx context.Context, accountID id.AccountID) ([]directory.TrustedContact, error)
	ListDirectives(ctx context.Context, accountID id.AccountID) ([]directory.AssetDirective, error)
	FindWillDocument(ctx context.Context, accountID id.AccountID) (*directory.WillDocument, error)
}

type reportStore interface {
	verificationservice.ReportStore
	escalation.ReportStore
	releaseservice.FinalizedTargets
}

type deliverableStore interface {
	releaseservice.DeliverableStore
	admin.ReleaseLedger
}

type notificationLog interface {
	notify.LogStore
	admin.NotificationLog
}

// infra holds the connections and stores for one process. With no
// DATABASE_URL every store lives in memory and transactions are local.
type infra struct {
	db    *sql.DB
	redis *redisclient.Client
	kafka *kgo.Client

	directory     directoryStore
	reports       reportStore
	deliverables  deliverableStore
	notifications notificationLog
	auditStore    audit.Store
	runner        tx.Runner
}

func openInfra(ctx context.Context, cfg config.Server, logger *slog.Logger) (*infra, error) {
	in := &infra{}

	rc, err := redisclient.Open(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	in.redis = rc

	if cfg.Database.URL == "" {
		logger.Info("no DATABASE_URL, using in-memory stores")
		in.directory = dirstore.NewInMemoryDirectory()
		in.reports = verificationstore.NewInMemory()
		in.deliverables = releasestore.NewInMemory()
		in.notifications = notifystore.NewInMemoryLog()
		in.auditStore = auditmemory.NewInMemoryStore()
		in.runner = tx.NewLocalRunner()
		return in, nil
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.db = db
	if err := postgres.Migrate(ctx, db); err != nil {
		in.Close()
		return nil, err
	}
	in.directory = dirstore.NewPostgres(db)
	in.reports = verificationstore.NewPostgres(db)
	in.deliverables = releasestore.NewPostgres(db)
	in.notifications = notifystore.NewPostgres(db)
	in.auditStore = auditpostgres.New(db)
	in.runner = tx.NewSQLRunner(db)

	kc, err := kafka.NewClient(cfg.Kafka)
	if err != nil {
		in.Close()
		return nil, err
	}
	in.kafka = kc
	if kc != nil && cfg.Kafka.CreateTopics {
		if err := kafka.EnsureTopics(ctx, kc, logger, cfg.Kafka.AuditTopic); err != nil {
			in.Close()
			return nil, fmt.Errorf("ensure audit topic: %w", err)
		}
	}
	return in, nil
}

func (in *infra) Close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
}
