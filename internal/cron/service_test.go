package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arcadehq/freegames-backend/pkg/logger"
)

type countingJob struct {
	mu   sync.Mutex
	name string
	runs int
	err  error
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	return j.err
}

func (j *countingJob) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runs
}

type fakeLock struct {
	acquired bool
	releases int
	denied   bool
}

func (l *fakeLock) Acquire(ctx context.Context) (bool, error) {
	if l.denied {
		return false, nil
	}
	l.acquired = true
	return true, nil
}

func (l *fakeLock) Release(ctx context.Context) error {
	l.releases++
	return nil
}

func newTestService(t *testing.T, registry *Registry, lock Lock) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "test"}),
		Registry: registry,
		Lock:     lock,
		Interval: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestRunExecutesJobsImmediatelyAndReleasesLock(t *testing.T) {
	job := &countingJob{name: "refresh"}
	lock := &fakeLock{}
	svc := newTestService(t, NewRegistry(job), lock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	deadline := time.After(time.Second)
	for job.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("job never ran")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if lock.releases == 0 {
		t.Fatal("expected lock release")
	}
}

func TestRunSkipsCycleWhenLockDenied(t *testing.T) {
	job := &countingJob{name: "refresh"}
	lock := &fakeLock{denied: true}
	svc := newTestService(t, NewRegistry(job), lock)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_ = svc.Run(ctx)

	if job.count() != 0 {
		t.Fatalf("expected no runs, got %d", job.count())
	}
}

func TestFailingJobDoesNotStopOthers(t *testing.T) {
	failing := &countingJob{name: "broken", err: errors.New("boom")}
	healthy := &countingJob{name: "healthy"}
	svc := newTestService(t, NewRegistry(failing, healthy), &fakeLock{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	deadline := time.After(time.Second)
	for healthy.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("healthy job never ran")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	<-done
}

func TestRegistryIgnoresNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &countingJob{name: "a"})
	registry.Register(nil)
	if len(registry.Jobs()) != 1 {
		t.Fatalf("expected 1 job, got %d", len(registry.Jobs()))
	}
}
