package report

import (
	"context"
	"errors"
	"sync"
	"time"

	"daily-report-ai-api/pkg/metrics"
)

// ErrLockTimeout 等待房间锁超时
var ErrLockTimeout = errors.New("room lock wait timeout")

type keyedLock struct {
	ch   chan struct{}
	refs int
}

// LocalLocker 进程内按键互斥锁（未启用 Redis 时使用）
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
	wait  time.Duration
}

// NewLocalLocker 创建进程内锁，wait 为最长等待时间
func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyedLock), wait: wait}
}

// Lock 获取锁
func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	start := time.Now()

	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyedLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	var timeout <-chan time.Time
	if l.wait > 0 {
		timer := time.NewTimer(l.wait)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case kl.ch <- struct{}{}:
	case <-timeout:
		l.release(key, kl)
		metrics.RoomLockWait.WithLabelValues("timeout").Observe(time.Since(start).Seconds())
		return nil, ErrLockTimeout
	case <-ctx.Done():
		l.release(key, kl)
		metrics.RoomLockWait.WithLabelValues("canceled").Observe(time.Since(start).Seconds())
		return nil, ctx.Err()
	}
	metrics.RoomLockWait.WithLabelValues("acquired").Observe(time.Since(start).Seconds())

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.release(key, kl)
		})
	}, nil
}

func (l *LocalLocker) release(key string, kl *keyedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}
