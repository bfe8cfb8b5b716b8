// Package carousel rotates the disclosure messages shown at the bottom of
// every page.
package carousel

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"pass.share/internal/locale"
)

const DefaultPeriod = 15 * time.Second

// Messages returns the disclosure sentences in rotation order, translated.
func Messages(tr locale.Translator) []string {
	out := make([]string, len(locale.Disclosures))
	for i, key := range locale.Disclosures {
		out[i] = tr.T(key)
	}
	return out
}

// Carousel is owned by one page instance. Start it on mount and Stop it on
// teardown; the index always starts at 0.
type Carousel struct {
	clock    clock.Clock
	period   time.Duration
	messages []string

	mu      sync.Mutex
	index   int
	next    time.Time
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(clk clock.Clock, period time.Duration, messages []string) *Carousel {
	if clk == nil {
		clk = clock.New()
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Carousel{
		clock:    clk,
		period:   period,
		messages: messages,
	}
}

// Start is a no-op after the first call.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || len(c.messages) == 0 {
		return
	}
	c.started = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.next = c.clock.Now().Add(c.period)

	ticker := c.clock.Ticker(c.period)
	go c.rotate(ctx, ticker)
}

func (c *Carousel) rotate(ctx context.Context, ticker *clock.Ticker) {
	defer close(c.done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			// Stop may have won the lock while this tick was pending.
			if ctx.Err() == nil {
				c.index = (c.index + 1) % len(c.messages)
				c.next = c.next.Add(c.period)
			}
			c.mu.Unlock()
		}
	}
}

// Stop cancels the rotation and waits for it to exit. Safe to call more than once.
func (c *Carousel) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel = nil
	if cancel != nil {
		cancel()
	}
	c.mu.Unlock()

	if done != nil && cancel != nil {
		<-done
	}
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// NextIn returns the time left until the next rotation, or 0 when the
// carousel is not running.
func (c *Carousel) NextIn() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel == nil {
		return 0
	}
	return max(c.next.Sub(c.clock.Now()), 0)
}

// Current returns the message at the current index, or "" when there are none.
func (c *Carousel) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) == 0 {
		return ""
	}
	return c.messages[c.index]
}
