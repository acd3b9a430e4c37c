package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeBanner struct {
	mu      sync.Mutex
	message string
	class   string
	visible bool
	hideAt  time.Time
	hides   int
}

func (f *fakeBanner) ShowStatus(message, class string, hideAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.message, f.class, f.visible, f.hideAt = message, class, true, hideAt
}

func (f *fakeBanner) HideStatus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = false
	f.hides++
}

func (f *fakeBanner) snapshot() (string, string, bool, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message, f.class, f.visible, f.hides
}

func TestSeverityClass(t *testing.T) {
	require.Equal(t, "message success", Success.Class())
	require.Equal(t, "message error", Error.Class())
	require.Equal(t, "message success", Severity("").Class())
}

func TestShowThenAutoDismiss(t *testing.T) {
	b := &fakeBanner{}
	n := NewWithDelay(b, 40*time.Millisecond)

	n.Show("Student added successfully!", Success)
	msg, class, visible, _ := b.snapshot()
	require.Equal(t, "Student added successfully!", msg)
	require.Equal(t, "message success", class)
	require.True(t, visible)

	require.Eventually(t, func() bool {
		_, _, v, _ := b.snapshot()
		return !v
	}, time.Second, 5*time.Millisecond)
}

func TestLatestTimerWins(t *testing.T) {
	b := &fakeBanner{}
	n := NewWithDelay(b, 80*time.Millisecond)

	n.Show("first", Success)
	time.Sleep(50 * time.Millisecond)
	n.Show("second", Error)

	// the first call's deadline has passed; the banner must still be up
	time.Sleep(50 * time.Millisecond)
	msg, class, visible, hides := b.snapshot()
	require.Equal(t, "second", msg)
	require.Equal(t, "message error", class)
	require.True(t, visible)
	require.Zero(t, hides)

	require.Eventually(t, func() bool {
		_, _, v, _ := b.snapshot()
		return !v
	}, time.Second, 5*time.Millisecond)
	_, _, _, hides = b.snapshot()
	require.Equal(t, 1, hides)
}

func TestShowRecordsDeadline(t *testing.T) {
	b := &fakeBanner{}
	n := New(b)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	n.Show("hello", Success)
	defer n.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Equal(t, fixed.Add(DismissAfter), b.hideAt)
}

func TestStopCancelsDismiss(t *testing.T) {
	b := &fakeBanner{}
	n := NewWithDelay(b, 20*time.Millisecond)
	n.Show("stay", Success)
	n.Stop()

	time.Sleep(60 * time.Millisecond)
	_, _, visible, hides := b.snapshot()
	require.True(t, visible)
	require.Zero(t, hides)
}
