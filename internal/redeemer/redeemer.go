// Package redeemer drives the page that opens a share link: it exchanges the
// token for the secret exactly once and exposes reveal and copy actions.
package redeemer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"pass.share/internal/locale"
	"pass.share/internal/models"
)

var (
	ErrAlreadyLoaded = errors.New("redeemer: token already requested")
	// ErrUnavailable covers missing, expired, exhausted and unknown secrets alike.
	ErrUnavailable       = errors.New("redeemer: password unavailable")
	ErrNotRevealed       = errors.New("redeemer: no secret to copy")
	ErrRevokeUnavailable = errors.New("redeemer: revoke is not supported by the share API")
)

type State int

const (
	Loading State = iota
	Revealed
	Unavailable
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Revealed:
		return "revealed"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type API interface {
	Redeem(ctx context.Context, token string) (*models.SecretRecord, error)
}

type Clipboard interface {
	WriteText(text string) error
}

// Formatter is the subset of locale.Engine used for rendering.
type Formatter interface {
	locale.Translator
	FormatDateTime(t time.Time) string
}

type Config struct {
	API       API
	Formatter Formatter
	Clipboard Clipboard
	Logger    *zap.Logger
}

type Redeemer struct {
	api       API
	formatter Formatter
	clipboard Clipboard
	log       *zap.Logger

	// requested is set before the redemption call is dispatched.
	requested atomic.Bool

	mu       sync.Mutex
	state    State
	record   *models.SecretRecord
	message  string
	revealed bool
	copied   bool
}

func New(cfg Config) *Redeemer {
	r := &Redeemer{
		api:       cfg.API,
		formatter: cfg.Formatter,
		clipboard: cfg.Clipboard,
		log:       cfg.Logger,
	}
	if r.formatter == nil {
		r.formatter = locale.NewEngineFor(locale.English)
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Load redeems rawToken, the path segment of the share link. Only the first
// call reaches the backend; later calls return ErrAlreadyLoaded, even while
// the first is still waiting for its response.
func (r *Redeemer) Load(ctx context.Context, rawToken string) error {
	if !r.requested.CompareAndSwap(false, true) {
		return ErrAlreadyLoaded
	}

	token, err := url.PathUnescape(rawToken)
	if err != nil {
		r.log.Info("malformed share token", zap.Error(err))
		r.fail()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rec, err := r.api.Redeem(ctx, token)
	if err != nil || rec == nil || rec.Password == "" {
		if err != nil {
			r.log.Info("redemption failed", zap.Error(err))
		}
		r.fail()
		return ErrUnavailable
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = rec
	r.state = Revealed
	r.message = ""
	return nil
}

func (r *Redeemer) fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = Unavailable
	r.record = nil
	r.message = r.formatter.T(locale.KeyUnavailable)
}

// ToggleReveal flips between masked and plain display. It is purely local.
func (r *Redeemer) ToggleReveal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Revealed {
		r.revealed = !r.revealed
	}
}

// CopySecret writes the secret to the clipboard. The copied flag stays set.
func (r *Redeemer) CopySecret() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Revealed {
		return ErrNotRevealed
	}
	if r.clipboard != nil {
		if err := r.clipboard.WriteText(r.record.Password); err != nil {
			return fmt.Errorf("copy secret: %w", err)
		}
	}
	r.copied = true
	return nil
}

// Revoke has no backend operation to call yet. It sends nothing.
func (r *Redeemer) Revoke(ctx context.Context) error {
	return ErrRevokeUnavailable
}

// Close exists so page teardown treats both page kinds alike; the redeemer
// owns no timers.
func (r *Redeemer) Close() {}

type View struct {
	State     State  `json:"state"`
	Message   string `json:"message,omitempty"`
	Revealed  bool   `json:"revealed"`
	Copied    bool   `json:"copied"`
	Password  string `json:"password,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	ViewsLeft int    `json:"views_left"`
	// Availability reads "… until <date> or for N more view(s)."
	Availability string `json:"availability,omitempty"`
}

// Snapshot renders the current state. Secret fields are only set when Revealed.
func (r *Redeemer) Snapshot() View {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := View{
		State:    r.state,
		Message:  r.message,
		Revealed: r.revealed,
		Copied:   r.copied,
	}
	if r.state != Revealed {
		return v
	}

	rec := r.record
	v.Password = rec.Password
	v.ExpiresAt = r.formatter.FormatDateTime(rec.ExpireAt)
	v.CreatedAt = r.formatter.FormatDateTime(rec.CreatedAt)
	v.ViewsLeft = rec.ViewsLeft
	v.Availability = fmt.Sprintf("%s %s %s %d %s",
		r.formatter.T(locale.KeyAvailableUntil),
		v.ExpiresAt,
		r.formatter.T(locale.KeyOrFor),
		rec.ViewsLeft,
		r.formatter.Plural(rec.ViewsLeft, locale.KeyMoreView, locale.KeyMoreViews),
	)
	return v
}
