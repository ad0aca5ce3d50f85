package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"memento/internal/admin"
	"memento/internal/content"
	dirstore "memento/internal/directory/store"
	"memento/internal/escalation"
	jwttoken "memento/internal/jwt_token"
	"memento/internal/notify"
	"memento/internal/platform/config"
	"memento/internal/platform/httpserver"
	"memento/internal/platform/kafka"
	"memento/internal/platform/logger"
	"memento/internal/platform/metrics"
	"memento/internal/platform/scheduler"
	ratelimitmetrics "memento/internal/ratelimit/metrics"
	ratelimitmw "memento/internal/ratelimit/middleware"
	ratelimitmodels "memento/internal/ratelimit/models"
	"memento/internal/ratelimit/store/bucket"
	releasehandler "memento/internal/release/handler"
	releasemetrics "memento/internal/release/metrics"
	releaseservice "memento/internal/release/service"
	"memento/internal/release/willexec"
	httptransport "memento/internal/transport/http"
	verificationhandler "memento/internal/verification/handler"
	verificationmetrics "memento/internal/verification/metrics"
	verificationservice "memento/internal/verification/service"
	"memento/pkg/platform/audit/publishers/compliance"
	"memento/pkg/platform/circuit"
	"memento/pkg/platform/sentinel"
)

const (
	shutdownTimeout  = 15 * time.Second
	outboxRelayJob   = "outbox_relay"
	ownerJWTAudience = "memento-owner"
	demoTokenTTL     = 24 * time.Hour
)

// main wires the stores, services, sweepers and HTTP surface, then runs the
// server and the scheduler until SIGINT or SIGTERM.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("memento exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	in, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer in.Close()

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, ownerJWTAudience)
	if cfg.DemoMode {
		if err := seedDemo(ctx, in.directory, jwtService, log); err != nil {
			return err
		}
	}

	auditPublisher := compliance.New(in.auditStore,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)

	var sender notify.Sender = notify.NewLogSender(log)
	if cfg.SMTP.Host != "" {
		sender = notify.NewSMTPSender(cfg.SMTP)
	}
	dispatcher := notify.NewDispatcher(sender, in.notifications,
		notify.WithLogger(log),
		notify.WithCounter(notify.NewAttemptCounter()),
	)

	verificationSvc, err := verificationservice.New(in.reports, in.directory, in.directory, in.runner,
		verificationservice.Config{
			ContactsPerReport: cfg.Verification.ContactsPerReport,
			Threshold:         cfg.Verification.Threshold,
			VerifyURL:         cfg.Verification.VerifyURL,
			Dwell:             cfg.Sweeps.Dwell,
		},
		verificationservice.WithLogger(log),
		verificationservice.WithMetrics(verificationmetrics.New()),
		verificationservice.WithAuditPublisher(auditPublisher),
		verificationservice.WithNotifier(dispatcher),
		verificationservice.WithContactSelector(contactSelector(cfg.Verification, log)),
	)
	if err != nil {
		return err
	}

	releaseMetrics := releasemetrics.New()
	releaseSvc, err := releaseservice.New(in.deliverables, in.reports, in.directory, in.runner,
		releaseservice.WithLogger(log),
		releaseservice.WithMetrics(releaseMetrics),
		releaseservice.WithAuditPublisher(auditPublisher),
		releaseservice.WithNotifier(dispatcher),
	)
	if err != nil {
		return err
	}

	// NewHTTPGenerator returns a nil pointer when unconfigured; keep the
	// interface nil so the executor falls back to templates.
	var generator content.Generator
	if g := content.NewHTTPGenerator(cfg.Content); g != nil {
		generator = content.WithBreaker(g, circuit.New("content_generator"), log)
	}
	executor, err := willexec.New(in.directory, in.directory, dispatcher,
		willexec.WithLogger(log),
		willexec.WithMetrics(releaseMetrics),
		willexec.WithAuditPublisher(auditPublisher),
		willexec.WithGenerator(generator),
	)
	if err != nil {
		return err
	}

	sweeper, err := escalation.New(in.reports, in.directory, in.runner,
		escalation.WithDwell(cfg.Sweeps.Dwell),
		escalation.WithFinalityHook(executor),
		escalation.WithLogger(log),
		escalation.WithMetrics(escalation.NewMetrics()),
		escalation.WithAuditPublisher(auditPublisher),
	)
	if err != nil {
		return err
	}

	adminSvc, err := admin.NewService(in.reports, in.deliverables, in.notifications)
	if err != nil {
		return err
	}

	var buckets ratelimitmw.BucketStore = bucket.NewInMemoryBucketStore()
	if in.redis != nil {
		buckets = bucket.NewRedis(in.redis.Client)
	}
	limiter := ratelimitmw.New(buckets, log,
		ratelimitmw.WithDisabled(cfg.RateLimit.Disabled),
		ratelimitmw.WithMetrics(ratelimitmetrics.New()),
		ratelimitmw.WithAuditPublisher(auditPublisher),
	)

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Logger:       log,
		Metrics:      metrics.New(),
		Verification: verificationhandler.New(verificationSvc, log, cfg.DemoMode),
		Release:      releasehandler.New(releaseSvc, log),
		Admin:        admin.NewHandler(adminSvc, log),
		CreateLimit: limiter.Limit(ratelimitmodels.Rule{
			Name:   "death_reports",
			Limit:  cfg.RateLimit.ReportsPerHour,
			Window: time.Hour,
		}),
		VerifyLimit: limiter.Limit(ratelimitmodels.Rule{
			Name:   "attestation_decisions",
			Limit:  cfg.RateLimit.DecisionsPerMin,
			Window: time.Minute,
		}),
		JWTValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		AdminToken:   cfg.AdminToken,
		HealthChecks: healthChecks(in),
	})

	schedOpts := []scheduler.Option{
		scheduler.WithLogger(log),
		scheduler.WithMetrics(scheduler.NewMetrics()),
	}
	if in.redis != nil {
		schedOpts = append(schedOpts, scheduler.WithLease(scheduler.NewRedisLease(in.redis.Client), cfg.Sweeps.LeaseTTL))
	}
	sched := scheduler.New(schedOpts...)
	sched.Register(sweeper.Job(cfg.Sweeps.EscalationInterval))
	sched.Register(releaseSvc.OnDeathJob(cfg.Sweeps.OnDeathInterval))
	sched.Register(releaseSvc.OnDateJob(cfg.Sweeps.OnDateInterval))
	if in.db != nil && in.kafka != nil {
		relay := kafka.NewOutboxRelay(in.db, in.kafka, cfg.Kafka.AuditTopic, cfg.Kafka.RelayBatch, log)
		sched.Register(scheduler.Job{Name: outboxRelayJob, Interval: cfg.Kafka.RelayPoll, Run: relay.Drain})
	}

	srv := httpserver.New(cfg.Addr, router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting memento", "addr", cfg.Addr, "demo_mode", cfg.DemoMode)
		return httpserver.Serve(gctx, srv, shutdownTimeout)
	})
	g.Go(func() error {
		return sched.Start(gctx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("memento stopped")
	return nil
}

func contactSelector(cfg config.VerificationConfig, log *slog.Logger) verificationservice.ContactSelector {
	switch cfg.ContactSelector {
	case "email_first":
		return verificationservice.WithEmailFirst(cfg.ContactsPerReport)
	case "", "first_registered":
	default:
		log.Warn("unknown contact selector, using first_registered", "selector", cfg.ContactSelector)
	}
	return verificationservice.FirstRegistered(cfg.ContactsPerReport)
}

func healthChecks(in *infra) map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if in.db != nil {
		checks["postgres"] = in.db.PingContext
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health
	}
	return checks
}

// seedDemo creates the demo estate once and logs an owner token for it.
func seedDemo(ctx context.Context, dir directoryStore, jwtService *jwttoken.JWTService, log *slog.Logger) error {
	account, err := dir.FindByUsername(ctx, "demo")
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		estate, err := dirstore.SeedDemo(ctx, dir, time.Now())
		if err != nil {
			return err
		}
		account = &estate.Account
		log.Info("demo estate seeded",
			"account_id", account.ID,
			"contacts", len(estate.Contacts),
			"directives", len(estate.Directives),
		)
	case err != nil:
		return err
	}

	token, err := jwtService.Issue(account.ID, demoTokenTTL)
	if err != nil {
		return err
	}
	log.Info("demo owner token", "account_id", account.ID, "token", token)
	return nil
}
