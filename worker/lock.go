package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"movehub-backend/models"
	"os"
	"path/filepath"
	"time"

	"github.com/bsm/redislock"
)

// ErrLockHeld is returned when another instance owns the lock
var ErrLockHeld = errors.New("lock is held by another worker")

// Lease is a held lock
type Lease interface {
	Release(ctx context.Context) error
}

// Locker guards a job so that only one instance runs it at a time
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// RedisLocker takes the lock in redis. Used when redis is enabled.
type RedisLocker struct {
	client *redislock.Client
}

func NewRedisLocker(client redislock.RedisClient) *RedisLocker {
	return &RedisLocker{client: redislock.New(client)}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockHeld
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain redis lock %s: %w", key, err)
	}
	return lock, nil
}

// FileLock keeps the lock in a JSON file. It only serialises instances that share a filesystem.
type FileLock struct {
	path    string
	ownerID string
	env     string
	now     func() time.Time
}

func NewFileLock(path, ownerID, env string) *FileLock {
	return &FileLock{
		path:    path,
		ownerID: ownerID,
		env:     env,
		now:     time.Now,
	}
}

type fileLease struct {
	lock *FileLock
	info *models.LockInfo
}

func (l *fileLease) Release(_ context.Context) error {
	return l.lock.release(l.info)
}

func (l *FileLock) Acquire(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return nil, err
	}

	now := l.now()
	if existing, err := l.read(); err == nil && now.Before(existing.ExpiresAt) && existing.Owner != l.ownerID {
		return nil, ErrLockHeld
	}

	info := &models.LockInfo{
		ID:          fmt.Sprintf("%s-%d", key, now.UnixNano()),
		Owner:       l.ownerID,
		AcquiredAt:  now,
		ExpiresAt:   now.Add(ttl),
		Environment: l.env,
	}
	if err := l.write(info); err != nil {
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}
	return &fileLease{lock: l, info: info}, nil
}

func (l *FileLock) read() (*models.LockInfo, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	var info models.LockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}
	return &info, nil
}

func (l *FileLock) write(info *models.LockInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	tempFile := l.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tempFile, l.path); err != nil {
		os.Remove(tempFile)
		return err
	}
	return nil
}

func (l *FileLock) release(info *models.LockInfo) error {
	current, err := l.read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read lock file: %w", err)
	}

	if current.Owner != info.Owner {
		return fmt.Errorf("cannot release lock owned by %s", current.Owner)
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
