package notify

import (
	"sync"
	"time"
)

// DismissAfter is how long a status message stays visible.
const DismissAfter = 3 * time.Second

// Severity selects the banner styling.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
)

// Class returns the CSS class string applied to the status element.
func (s Severity) Class() string {
	if s == "" {
		s = Success
	}
	return "message " + string(s)
}

// Banner is the status element a Notifier drives.
type Banner interface {
	ShowStatus(message, class string, hideAt time.Time)
	HideStatus()
}

// Notifier shows transient status messages on a Banner. Calls are not
// queued: each Show replaces the message and restarts the dismiss timer,
// and only the latest timer hides the banner.
type Notifier struct {
	banner Banner
	delay  time.Duration
	now    func() time.Time

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

func New(b Banner) *Notifier {
	return &Notifier{banner: b, delay: DismissAfter, now: time.Now}
}

// NewWithDelay is New with a custom dismiss delay; tests use short delays.
func NewWithDelay(b Banner, d time.Duration) *Notifier {
	n := New(b)
	n.delay = d
	return n
}

func (n *Notifier) Show(message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.gen++
	gen := n.gen
	n.banner.ShowStatus(message, severity.Class(), n.now().Add(n.delay))

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(n.delay, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if gen == n.gen {
			n.banner.HideStatus()
			n.timer = nil
		}
	})
}

// Stop cancels a pending dismiss without hiding the banner.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
