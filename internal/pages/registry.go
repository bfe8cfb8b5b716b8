// Package pages mounts issuer and redeemer page instances, each with its own
// locale engine and disclosure carousel, and tears them down on every exit path.
package pages

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pass.share/internal/carousel"
	"pass.share/internal/issuer"
	"pass.share/internal/locale"
	"pass.share/internal/metrics"
	"pass.share/internal/redeemer"
	"pass.share/internal/shareapi"
)

var ErrNotFound = errors.New("page not found")

// API is the backend surface both page kinds need.
type API interface {
	issuer.API
	redeemer.API
}

type Config struct {
	API     API
	Clock   clock.Clock
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	Origin           string
	CopyResetDelay   time.Duration
	DisclosurePeriod time.Duration
	// PageTTL is how long an untouched page stays mounted.
	PageTTL       time.Duration
	SweepInterval time.Duration
}

type Registry struct {
	cfg   Config
	clock clock.Clock
	log   *zap.Logger

	mu    sync.RWMutex
	pages map[string]*Page

	sweepCancel context.CancelFunc
	sweepDone   chan struct{}
}

var _ API = (*shareapi.Client)(nil)

func NewRegistry(cfg Config) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DisclosurePeriod <= 0 {
		cfg.DisclosurePeriod = carousel.DefaultPeriod
	}
	if cfg.PageTTL <= 0 {
		cfg.PageTTL = 30 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		cfg:         cfg,
		clock:       cfg.Clock,
		log:         cfg.Logger,
		pages:       make(map[string]*Page),
		sweepCancel: cancel,
		sweepDone:   make(chan struct{}),
	}
	go r.sweepLoop(ctx, r.clock.Ticker(cfg.SweepInterval))
	return r
}

// MountIssuer creates a share page. The probe is consulted once.
func (r *Registry) MountIssuer(probe locale.Probe) *Page {
	engine := locale.NewEngine(probe)
	p := r.newPage(KindIssuer, engine)
	p.Issuer = issuer.New(issuer.Config{
		API:            r.cfg.API,
		Translator:     engine,
		Clipboard:      p.clipboard,
		Clock:          r.clock,
		Logger:         r.log.With(zap.String("page", p.ID)),
		Origin:         r.cfg.Origin,
		CopyResetDelay: r.cfg.CopyResetDelay,
	})
	r.add(p)
	return p
}

// MountRedeemer creates a view page for the raw token taken from the link.
// Loading is a separate step so the caller decides when the single call happens.
func (r *Registry) MountRedeemer(probe locale.Probe, rawToken string) *Page {
	engine := locale.NewEngine(probe)
	p := r.newPage(KindRedeemer, engine)
	p.Token = rawToken
	p.Redeemer = redeemer.New(redeemer.Config{
		API:       r.cfg.API,
		Formatter: engine,
		Clipboard: p.clipboard,
		Logger:    r.log.With(zap.String("page", p.ID)),
	})
	r.add(p)
	return p
}

func (r *Registry) newPage(kind Kind, engine *locale.Engine) *Page {
	p := &Page{
		ID:        uuid.NewString(),
		Kind:      kind,
		Engine:    engine,
		Carousel:  carousel.New(r.clock, r.cfg.DisclosurePeriod, carousel.Messages(engine)),
		clipboard: &Clipboard{},
	}
	p.touch(r.clock.Now())
	return p
}

func (r *Registry) add(p *Page) {
	p.Carousel.Start()

	r.mu.Lock()
	r.pages[p.ID] = p
	r.mu.Unlock()

	r.cfg.Metrics.PageMounted()
	r.log.Debug("page mounted", zap.String("page", p.ID), zap.Stringer("kind", p.Kind), zap.String("locale", string(p.Engine.Locale())))
}

// Get returns the page and marks it as seen.
func (r *Registry) Get(id string) (*Page, error) {
	r.mu.RLock()
	p, ok := r.pages[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	p.touch(r.clock.Now())
	return p, nil
}

func (r *Registry) Unmount(id string) error {
	r.mu.Lock()
	p, ok := r.pages[id]
	delete(r.pages, id)
	r.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	r.release(p, "unmounted")
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pages)
}

// Close stops the sweep and tears down every mounted page.
func (r *Registry) Close() {
	if r.sweepCancel != nil {
		r.sweepCancel()
		<-r.sweepDone
		r.sweepCancel = nil
	}

	r.mu.Lock()
	pages := r.pages
	r.pages = make(map[string]*Page)
	r.mu.Unlock()

	for _, p := range pages {
		r.release(p, "closed")
	}
}

func (r *Registry) release(p *Page, reason string) {
	p.Close()
	r.cfg.Metrics.PageUnmounted()
	r.log.Debug("page released", zap.String("page", p.ID), zap.String("reason", reason))
}

func (r *Registry) sweepLoop(ctx context.Context, ticker *clock.Ticker) {
	defer close(r.sweepDone)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	now := r.clock.Now()

	var stale []*Page
	r.mu.Lock()
	for id, p := range r.pages {
		if p.idleSince(now) >= r.cfg.PageTTL {
			stale = append(stale, p)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, p := range stale {
		r.release(p, "idle")
	}
}
