// Package server wires configuration into storage backends, services and the
// gin router shared by the service binaries.
package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/typeshelf/typeshelf/backend/go-services/handlers"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/config"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/database"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/font"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/fontgroup/repository"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/lock"
	"github.com/typeshelf/typeshelf/backend/go-services/internal/storage"
	"github.com/typeshelf/typeshelf/backend/go-services/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	groupsCollection = "font_groups"
	groupLockKey     = "typeshelf:lock:font-groups"
	fontLockKey      = "typeshelf:lock:fonts"
)

// Backends holds every external resource opened at startup.
type Backends struct {
	Store    storage.Backend
	FontLock lock.Locker
	Groups   repository.Repository
	Redis    *redis.Client
	Mongo    *mongo.Client
	Ready    []handlers.ReadyCheck

	closers []func(context.Context) error
}

// Close releases connections in reverse opening order.
func (b *Backends) Close(ctx context.Context) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			logger.Warnf("close backend: %v", err)
		}
	}
	b.closers = nil
}

// Open connects Redis (when configured), the font store and the group store.
// On error everything opened so far is closed again.
func Open(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b, err := OpenGroupBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := OpenStorage(ctx, cfg)
	if err != nil {
		b.Close(ctx)
		return nil, err
	}
	b.Store = store
	b.FontLock, err = FontLocker(cfg, b.Redis)
	if err != nil {
		b.Close(ctx)
		return nil, err
	}
	b.Ready = append(b.Ready, handlers.ReadyCheck{Name: "storage", Check: func(ctx context.Context) error {
		_, err := store.List(ctx, "."+font.Extension)
		return err
	}})
	return b, nil
}

// OpenGroupBackends is Open without the font store, for the group-only binary.
func OpenGroupBackends(ctx context.Context, cfg *config.Config) (*Backends, error) {
	b := &Backends{}
	rdb, err := OpenRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		b.Redis = rdb
		b.closers = append(b.closers, func(context.Context) error { return rdb.Close() })
		b.Ready = append(b.Ready, handlers.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	switch cfg.Groups.Backend {
	case config.GroupsMemory:
		logger.Warn("GROUP_STORE=memory: font groups are lost on restart")
		b.Groups = repository.NewMemoryRepo()
	case config.GroupsMongo:
		client, err := database.ConnectMongoRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, database.DefaultRetry)
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.Mongo = client
		b.closers = append(b.closers, client.Disconnect)
		b.Ready = append(b.Ready, handlers.ReadyCheck{Name: "mongo", Check: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}})
		repo, err := repository.NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database).Collection(groupsCollection))
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.Groups = repo
	default:
		locker, err := GroupLocker(cfg, b.Redis)
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		repo, err := repository.NewFileRepo(cfg.Groups.DataFile, locker)
		if err != nil {
			b.Close(ctx)
			return nil, err
		}
		b.Groups = repo
	}
	logger.Infof("font groups: backend=%s lock=%s", cfg.Groups.Backend, cfg.Groups.Lock)
	return b, nil
}

// OpenRedis returns nil, nil when REDIS_HOST is unset. A failed ping is fatal
// only when a lock depends on Redis; otherwise Redis features are skipped.
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	addr := cfg.Redis.Addr()
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		if cfg.Storage.Lock == config.LockRedis ||
			(cfg.Groups.Backend == config.GroupsFile && cfg.Groups.Lock == config.LockRedis) {
			return nil, fmt.Errorf("redis %s: %w", addr, err)
		}
		logger.Warnf("redis %s unavailable, continuing without it: %v", addr, err)
		return nil, nil
	}
	logger.Infof("connected to Redis at %s", addr)
	return rdb, nil
}

// GroupLocker picks the lock guarding the group data file.
func GroupLocker(cfg *config.Config, rdb *redis.Client) (lock.Locker, error) {
	if cfg.Groups.Lock != config.LockRedis {
		return lock.NewLocal(), nil
	}
	if rdb == nil {
		return nil, lock.ErrNoClient
	}
	abs, err := filepath.Abs(cfg.Groups.DataFile)
	if err != nil {
		abs = cfg.Groups.DataFile
	}
	// keyed by file so unrelated deployments sharing one Redis don't contend
	return lock.NewRedis(rdb, groupLockKey+":"+abs, cfg.Groups.LockTTL), nil
}

// FontLocker picks the lock guarding stored-name reservation.
func FontLocker(cfg *config.Config, rdb *redis.Client) (lock.Locker, error) {
	if cfg.Storage.Lock != config.LockRedis {
		return lock.NewLocal(), nil
	}
	if rdb == nil {
		return nil, lock.ErrNoClient
	}
	target := cfg.MinIO.Endpoint + "/" + cfg.MinIO.Bucket
	if cfg.Storage.Backend != config.StorageMinIO {
		if abs, err := filepath.Abs(cfg.Storage.UploadDir); err == nil {
			target = abs
		} else {
			target = cfg.Storage.UploadDir
		}
	}
	return lock.NewRedis(rdb, fontLockKey+":"+target, cfg.Groups.LockTTL), nil
}

// OpenStorage opens the font store selected by FONT_STORAGE.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageMinIO:
		st, err := storage.NewMinIOStorage(ctx, &storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("minio storage: %w", err)
		}
		logger.Infof("fonts: minio bucket %s at %s", cfg.MinIO.Bucket, cfg.MinIO.Endpoint)
		return st, nil
	default:
		st, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
		if err != nil {
			return nil, err
		}
		logger.Infof("fonts: local directory %s", st.Dir())
		return st, nil
	}
}
