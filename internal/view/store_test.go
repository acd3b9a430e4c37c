package view

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LoadReturnsLivePage(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	p, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	p.SetValue(CourseName, "Physics")

	again, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	require.Same(t, p, again)

	_, err = s.Load(ctx, "")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStore_ExpiresIdlePages(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := s.Load(ctx, "old")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	now = now.Add(2 * time.Minute)
	_, err = s.Load(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "new"))
	require.Zero(t, s.Len())
}

func TestRedisStore_SaveLoadDelete(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := NewRedisStore(client, "test:page:", time.Minute)
	ctx := context.Background()

	fresh, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.False(t, fresh.Loaded())

	fresh.SetValue(StudentName, "Ada")
	fresh.MarkLoaded()
	require.NoError(t, store.Save(ctx, "abc", fresh))
	require.True(t, m.Exists("test:page:abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "Ada", got.Value(StudentName))
	require.True(t, got.Loaded())

	require.NoError(t, store.Delete(ctx, "abc"))
	gone, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.Empty(t, gone.Value(StudentName))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	store := NewRedisStore(client, "", time.Second)
	ctx := context.Background()

	p := NewPage()
	p.MarkLoaded()
	require.NoError(t, store.Save(ctx, "s", p))

	m.FastForward(2 * time.Second)

	got, err := store.Load(ctx, "s")
	require.NoError(t, err)
	require.False(t, got.Loaded())
}

func TestLocksSerializePerSession(t *testing.T) {
	var l Locks
	var mu sync.Mutex
	active, maxActive := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("same")
			defer unlock()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxActive)

	// a different session is not blocked by a held lock
	unlock := l.Lock("a")
	done := make(chan struct{})
	go func() {
		u := l.Lock("b")
		u()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for another session blocked")
	}
	unlock()
}

func TestLocksReleaseEntries(t *testing.T) {
	var l Locks
	for i := 0; i < 1000; i++ {
		l.Lock(fmt.Sprintf("s-%d", i))()
	}
	require.Equal(t, 0, l.Len())

	// held and waiting callers keep the entry alive
	unlock := l.Lock("busy")
	waiting := make(chan func())
	go func() { waiting <- l.Lock("busy") }()
	require.Equal(t, 1, l.Len())
	unlock()
	second := <-waiting
	require.Equal(t, 1, l.Len())
	second()
	second()
	require.Equal(t, 0, l.Len())
}

func TestLocksConcurrentSessionsDrain(t *testing.T) {
	var l Locks
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Lock(fmt.Sprintf("s-%d", (i+j)%7))()
			}
		}(i)
	}
	wg.Wait()
	require.Equal(t, 0, l.Len())
}
