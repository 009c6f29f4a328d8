package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/core/ports"
	"github.com/djabaro/stock-console/internal/infrastructure/config"
	"github.com/djabaro/stock-console/internal/infrastructure/db/memory"
	"github.com/djabaro/stock-console/internal/infrastructure/db/mongo"
	"github.com/djabaro/stock-console/internal/infrastructure/db/redis"
)

type localStore interface {
	ports.LocalStore
	Name() string
	Ping(ctx context.Context) error
}

// store bundles the selected backend with its optional login latch.
type store struct {
	local localStore
	latch ports.LoginLatch
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return &store{
			local: redis.NewLocalStore(client, cfg.Session.ContextTTL),
			latch: redis.NewLoginLatch(client),
			close: func() {
				if err := client.Close(); err != nil {
					log.Warn().Err(err).Msg("closing redis client")
				}
			},
		}, nil

	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		local := mongo.NewLocalStore(db)
		if err := local.EnsureIndexes(ctx, cfg.Session.ContextTTL); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			local: local,
			close: func() {
				dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := client.Disconnect(dctx); err != nil {
					log.Warn().Err(err).Msg("closing mongo client")
				}
			},
		}, nil
	}

	return &store{local: memory.NewLocalStore(), close: func() {}}, nil
}
