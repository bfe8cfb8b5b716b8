package pages

import (
	"sync"
	"time"

	"go.uber.org/atomic"

	"pass.share/internal/carousel"
	"pass.share/internal/issuer"
	"pass.share/internal/locale"
	"pass.share/internal/redeemer"
)

type Kind int

const (
	KindIssuer Kind = iota
	KindRedeemer
)

func (k Kind) String() string {
	if k == KindRedeemer {
		return "redeemer"
	}
	return "issuer"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Clipboard keeps the last text a page asked to copy. The browser performs
// the actual write with the text returned by the copy action.
type Clipboard struct {
	mu   sync.Mutex
	text string
}

func (c *Clipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

func (c *Clipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Page is one mounted instance of either page. Exactly one of Issuer and
// Redeemer is set.
type Page struct {
	ID       string
	Kind     Kind
	Token    string
	Engine   *locale.Engine
	Carousel *carousel.Carousel
	Issuer   *issuer.Issuer
	Redeemer *redeemer.Redeemer

	clipboard *Clipboard
	lastSeen  atomic.Time
	version   atomic.Uint64
	closeOnce sync.Once
}

func (p *Page) Clipboard() string {
	return p.clipboard.Text()
}

// Changed bumps the view version after an action mutated the page. Clients
// drop responses older than the newest version they rendered.
func (p *Page) Changed() {
	p.version.Inc()
}

func (p *Page) touch(now time.Time) {
	p.lastSeen.Store(now)
}

func (p *Page) idleSince(now time.Time) time.Duration {
	return now.Sub(p.lastSeen.Load())
}

// Close stops the carousel and any state machine timers. Safe to call more than once.
func (p *Page) Close() {
	p.closeOnce.Do(func() {
		p.Carousel.Stop()
		if p.Issuer != nil {
			p.Issuer.Close()
		}
		if p.Redeemer != nil {
			p.Redeemer.Close()
		}
	})
}

type View struct {
	ID         string        `json:"id"`
	Kind       Kind          `json:"kind"`
	Version    uint64        `json:"version"`
	Locale     locale.Locale `json:"locale"`
	Disclosure string        `json:"disclosure"`
	// DisclosureNextMS is the time left until the disclosure rotates.
	DisclosureNextMS int64          `json:"disclosure_next_ms"`
	Issuer           *issuer.View   `json:"issuer,omitempty"`
	Redeemer         *redeemer.View `json:"redeemer,omitempty"`
}

// View snapshots the page. The version is read first so a view never carries
// a version newer than its contents.
func (p *Page) View() View {
	v := View{
		ID:               p.ID,
		Kind:             p.Kind,
		Version:          p.version.Load(),
		Locale:           p.Engine.Locale(),
		Disclosure:       p.Carousel.Current(),
		DisclosureNextMS: p.Carousel.NextIn().Milliseconds(),
	}
	if p.Issuer != nil {
		iv := p.Issuer.Snapshot()
		v.Issuer = &iv
	}
	if p.Redeemer != nil {
		rv := p.Redeemer.Snapshot()
		v.Redeemer = &rv
	}
	return v
}
