package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/maturity/internal/config"
	"github.com/aretw0/maturity/pkg/adapters/file"
	"github.com/aretw0/maturity/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/maturity/pkg/adapters/redis"
	"github.com/aretw0/maturity/pkg/persistence/middleware"
	"github.com/aretw0/maturity/pkg/ports"
)

// sessionBackend bundles the configured store with its optional distributed locker.
type sessionBackend struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	Close  func() error
}

func openStore(ctx context.Context, c config.StoreConfig) (*sessionBackend, error) {
	backend, err := openBackend(ctx, c)
	if err != nil {
		return nil, err
	}
	if c.EncryptionKey == "" {
		return backend, nil
	}

	enc, err := encryptionConfig(c)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	mw, err := middleware.NewEncryptionMiddleware(enc)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	backend.Store = middleware.Chain(backend.Store, mw)
	logger.Debug("session encryption enabled", "fallback_keys", len(enc.FallbackKeys))
	return backend, nil
}

func encryptionConfig(c config.StoreConfig) (middleware.EncryptionConfig, error) {
	active, err := middleware.ParseKey(c.EncryptionKey)
	if err != nil {
		return middleware.EncryptionConfig{}, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc := middleware.EncryptionConfig{ActiveKey: active}
	for i, s := range c.FallbackKeys {
		key, err := middleware.ParseKey(s)
		if err != nil {
			return middleware.EncryptionConfig{}, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

func openBackend(ctx context.Context, c config.StoreConfig) (*sessionBackend, error) {
	switch c.Backend {
	case config.BackendRedis:
		store := redisAdapter.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			redisAdapter.WithTTL(c.TTL),
			redisAdapter.WithPrefix(c.Redis.Prefix),
		)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := store.Client().Ping(pingCtx).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("redis %s unreachable: %w", c.Redis.Addr, err)
		}
		logger.Info("session store: redis", "addr", c.Redis.Addr, "db", c.Redis.DB)
		return &sessionBackend{
			Store:  store,
			Locker: redisAdapter.NewLocker(store.Client(), c.Redis.Prefix),
			Close:  store.Close,
		}, nil
	case config.BackendFile:
		logger.Debug("session store: file", "dir", c.Dir)
		return &sessionBackend{
			Store: file.NewStore(c.Dir),
			Close: func() error { return nil },
		}, nil
	default:
		logger.Debug("session store: memory", "ttl", c.TTL)
		return &sessionBackend{
			Store: memory.NewStore(memory.WithTTL(c.TTL)),
			Close: func() error { return nil },
		}, nil
	}
}
