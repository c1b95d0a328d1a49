package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	values map[string]string
}

func newFakeRedisStore() *fakeRedisStore {
	return &fakeRedisStore{values: map[string]string{}}
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.values[key]; exists {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireAndRelease(t *testing.T) {
	store := newFakeRedisStore()
	lock, err := NewRedisLock(store, "lock:test", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisLock: %v", err)
	}

	ok, err := lock.Acquire(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected acquire, got ok=%v err=%v", ok, err)
	}
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, exists := store.values["lock:test"]; exists {
		t.Fatal("expected lock key removed")
	}
}

func TestRedisLockSecondAcquireLoses(t *testing.T) {
	store := newFakeRedisStore()
	first, _ := NewRedisLock(store, "lock:test", time.Minute)
	second, _ := NewRedisLock(store, "lock:test", time.Minute)

	if ok, _ := first.Acquire(context.Background()); !ok {
		t.Fatal("expected first acquire to win")
	}
	if ok, _ := second.Acquire(context.Background()); ok {
		t.Fatal("expected second acquire to lose")
	}
}

func TestRedisLockReleaseSkipsForeignOwner(t *testing.T) {
	store := newFakeRedisStore()
	lock, _ := NewRedisLock(store, "lock:test", time.Minute)

	if ok, _ := lock.Acquire(context.Background()); !ok {
		t.Fatal("expected acquire")
	}
	store.values["lock:test"] = "someone-else"
	if err := lock.Release(context.Background()); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if store.values["lock:test"] != "someone-else" {
		t.Fatal("expected foreign lock to survive release")
	}
}

func TestLocalLockBlocksOverlap(t *testing.T) {
	lock := NewLocalLock()
	ctx := context.Background()

	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected acquire")
	}
	if ok, _ := lock.Acquire(ctx); ok {
		t.Fatal("expected overlap to be denied")
	}
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("expected reacquire after release")
	}
}
