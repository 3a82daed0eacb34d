package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/AmineOzil/user-registration/internal/audit"
	"github.com/AmineOzil/user-registration/internal/platform/config"
	"github.com/AmineOzil/user-registration/internal/platform/database"
	redisclient "github.com/AmineOzil/user-registration/internal/platform/redis"
	"github.com/AmineOzil/user-registration/internal/user/service"
	"github.com/AmineOzil/user-registration/internal/user/store"
)

type userStore struct {
	store service.UserStore
	db    *sql.DB
	ping  func(context.Context) error
	close func()
}

// openUserStore builds the backend selected by STORE_BACKEND.
func openUserStore(ctx context.Context, cfg config.Server, log *slog.Logger) (*userStore, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgres(db)
		if err := pg.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate users schema: %w", err)
		}
		return &userStore{
			store: pg,
			db:    db,
			ping:  pg.Ping,
			close: func() { logClose(log, "postgres", db.Close) },
		}, nil

	case config.StoreRedis:
		client, err := redisclient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		rs := store.NewRedis(client.Client)
		return &userStore{
			store: rs,
			ping:  rs.Ping,
			close: func() { logClose(log, "redis", client.Close) },
		}, nil

	default:
		mem := store.NewInMemory()
		return &userStore{store: mem, ping: mem.Ping, close: func() {}}, nil
	}
}

type auditSink struct {
	store audit.Store
	ping  func(context.Context) error
	close func()
}

// openAuditSink publishes to Kafka when brokers are configured; Kafka outages
// divert events to the log. Without brokers events go to the audit_events
// table when db is set, and to the log otherwise.
func openAuditSink(ctx context.Context, cfg config.Server, log *slog.Logger, db *sql.DB) (*auditSink, error) {
	if len(cfg.Audit.Brokers) == 0 {
		if db == nil {
			return &auditSink{store: audit.NewLogStore(log), close: func() {}}, nil
		}
		pg := audit.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		return &auditSink{store: pg, close: func() {}}, nil
	}
	ks, err := audit.NewKafkaStore(cfg.Audit.Brokers, cfg.Audit.Topic)
	if err != nil {
		return nil, err
	}
	return &auditSink{
		store: audit.NewFailoverStore(ks, audit.NewLogStore(log), log),
		ping:  ks.Ping,
		close: ks.Close,
	}, nil
}
