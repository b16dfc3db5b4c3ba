package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncredis "github.com/go-redsync/redsync/v4/redis"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

type ILock interface {
	TryLockContext(context.Context) error
	UnlockContext(context.Context) (bool, error)
	Name() string
}

type IRegistryStorage interface {
	SetActiveVersion(ctx context.Context, version int) error
	GetActiveVersion(ctx context.Context) (int, error)
	AcquireFitLock(ctx context.Context, duration time.Duration) (ILock, error)
	ReleaseFitLock(ctx context.Context, lock ILock) (bool, error)
}

type RegistryStorageOptions struct {
	Address   string
	Password  string
	KeyPrefix string
}

// RegistryStorage tracks which published pipeline version serving
// processes should load and guards re-fits with a distributed lock so a
// fitted state is never replaced while a publish is in flight.
type RegistryStorage struct {
	logger *slog.Logger
	client *goredislib.Client
	pool   redsyncredis.Pool
	sync   *redsync.Redsync

	KeyPrefix string
}

func NewRegistryStorage(
	ctx context.Context,
	logger *slog.Logger,
	options RegistryStorageOptions,
) (*RegistryStorage, error) {
	client := goredislib.NewClient(&goredislib.Options{
		Addr:     options.Address,
		Password: options.Password,
		DB:       0,
	})

	redisPool := goredis.NewPool(client)
	mutexSync := redsync.New(redisPool)

	registryStorage := RegistryStorage{
		logger:    logger,
		client:    client,
		pool:      redisPool,
		sync:      mutexSync,
		KeyPrefix: options.KeyPrefix,
	}
	return &registryStorage, nil
}

func (obj *RegistryStorage) Key(key string) string {
	return fmt.Sprintf("%s-%s", obj.KeyPrefix, key)
}

func (obj *RegistryStorage) DerCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	derivedCtx, cancelFunc := context.WithTimeout(ctx, time.Second*15)
	return derivedCtx, cancelFunc
}

func (obj *RegistryStorage) activeVersionKey() string {
	return obj.Key("pipeline-state/active-version")
}

func (obj *RegistryStorage) SetActiveVersion(ctx context.Context, version int) error {
	ctx, cancelFunc := obj.DerCtx(ctx)
	defer cancelFunc()

	result := obj.client.Set(ctx, obj.activeVersionKey(), version, 0)
	if result.Err() != nil {
		return result.Err()
	}

	obj.logger.Info("set active pipeline version", slog.Int("version", version))
	return nil
}

func (obj *RegistryStorage) GetActiveVersion(ctx context.Context) (int, error) {
	ctx, cancelFunc := obj.DerCtx(ctx)
	defer cancelFunc()

	result := obj.client.Get(ctx, obj.activeVersionKey())
	if result.Err() == goredislib.Nil {
		return 0, ErrNoActiveVersion
	}
	if result.Err() != nil {
		return 0, result.Err()
	}

	version, err := strconv.Atoi(result.Val())
	if err != nil {
		return 0, err
	}
	return version, nil
}

// AcquireFitLock claims the registry-wide fit lock. The caller must
// finish fitting and publishing before the expiry, or release early.
func (obj *RegistryStorage) AcquireFitLock(ctx context.Context, duration time.Duration) (ILock, error) {
	mutex := obj.sync.NewMutex(obj.Key("pipeline-state/fit-lock"), redsync.WithExpiry(duration))
	if err := mutex.TryLockContext(ctx); err != nil {
		return nil, err
	}
	return mutex, nil
}

func (obj *RegistryStorage) ReleaseFitLock(ctx context.Context, lock ILock) (bool, error) {
	ok, err := lock.UnlockContext(ctx)
	return ok, err
}
