// Package issuer drives the "share a password" form: editing options,
// generating or submitting a password, and handing back the share link.
package issuer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"pass.share/internal/expiry"
	"pass.share/internal/locale"
	"pass.share/internal/models"
)

const DefaultCopyResetDelay = 2 * time.Second

type State int

const (
	Editing State = iota
	Submitting
	Ready
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// API is the part of the share backend the issuer calls.
type API interface {
	Generate(ctx context.Context, req *models.GenerateRequest) (*models.ShareLink, error)
	SharePassword(ctx context.Context, req *models.PasswordRequest) (*models.ShareLink, error)
}

type Clipboard interface {
	WriteText(text string) error
}

type Config struct {
	API        API
	Translator locale.Translator
	Clipboard  Clipboard
	Clock      clock.Clock
	Logger     *zap.Logger

	// Origin is prepended to /view/<token>/ to build the share link.
	Origin         string
	CopyResetDelay time.Duration
}

type Issuer struct {
	api       API
	tr        locale.Translator
	clipboard Clipboard
	clock     clock.Clock
	log       *zap.Logger
	origin    string
	copyDelay time.Duration

	mu        sync.Mutex
	state     State
	epoch     uint64
	opts      ShareOptions
	password  string
	message   string
	link      string
	copied    bool
	copyUntil time.Time
	copyGen   uint64
	copyTimer *clock.Timer
}

func New(cfg Config) *Issuer {
	i := &Issuer{
		api:       cfg.API,
		tr:        cfg.Translator,
		clipboard: cfg.Clipboard,
		clock:     cfg.Clock,
		log:       cfg.Logger,
		origin:    strings.TrimRight(cfg.Origin, "/"),
		copyDelay: cfg.CopyResetDelay,
		opts:      DefaultShareOptions(),
	}
	if i.tr == nil {
		i.tr = locale.NewEngineFor(locale.English)
	}
	if i.clock == nil {
		i.clock = clock.New()
	}
	if i.log == nil {
		i.log = zap.NewNop()
	}
	if i.copyDelay <= 0 {
		i.copyDelay = DefaultCopyResetDelay
	}
	return i
}

// BuildLink returns <origin>/view/<token>/. The trailing slash is part of the route.
func BuildLink(origin, token string) string {
	return strings.TrimRight(origin, "/") + "/view/" + token + "/"
}

// UpdatePasswordField stores text as typed and validates it.
func (i *Issuer) UpdatePasswordField(text string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != Editing {
		return ErrNotEditable
	}
	i.password = text
	i.message = i.translate(validationKey(text))
	return nil
}

// Validate returns the advisory message for text and shows it on the form.
// Empty text clears the message.
func (i *Issuer) Validate(text string) string {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.message = i.translate(validationKey(text))
	return i.message
}

func (i *Issuer) SetOptions(opts ShareOptions) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != Editing {
		return ErrNotEditable
	}
	i.opts = opts.Clamped()
	return nil
}

// GenerateRandom asks the backend to generate a password with the current
// options. The password field is not consulted.
func (i *Issuer) GenerateRandom(ctx context.Context) error {
	i.mu.Lock()
	if i.state != Editing {
		i.mu.Unlock()
		return ErrNotEditable
	}
	opts := i.opts
	req := &models.GenerateRequest{
		Size:        opts.Size,
		Numbers:     opts.IncludeNumbers,
		SpecialChar: opts.IncludeSymbols,
		ViewsLeft:   opts.ViewsLeft,
		ExpireAt:    expiry.ComputeExpireAt(i.clock.Now(), opts.DaysAvailable, expiry.Generated),
	}
	i.state = Submitting
	epoch := i.epoch
	i.mu.Unlock()

	link, err := i.api.Generate(ctx, req)
	return i.finish(epoch, expiry.Generated, link, err, locale.KeyGenerateFailed)
}

// SubmitCustom shares the typed password. Nothing is sent unless the field
// holds 4 to 128 characters.
func (i *Issuer) SubmitCustom(ctx context.Context) error {
	i.mu.Lock()
	if i.state != Editing {
		i.mu.Unlock()
		return ErrNotEditable
	}

	key := validationKey(i.password)
	if strings.TrimSpace(i.password) == "" {
		key = locale.KeyEmptyPassword
	}
	if key != "" {
		i.message = i.translate(key)
		msg := i.message
		i.mu.Unlock()
		return &ValidationError{Message: msg}
	}

	opts := i.opts
	req := &models.PasswordRequest{
		Password:  i.password,
		ViewsLeft: opts.ViewsLeft,
		ExpireAt:  expiry.ComputeExpireAt(i.clock.Now(), opts.DaysAvailable, expiry.Custom),
	}
	i.message = ""
	i.state = Submitting
	epoch := i.epoch
	i.mu.Unlock()

	link, err := i.api.SharePassword(ctx, req)
	return i.finish(epoch, expiry.Custom, link, err, locale.KeyLinkFailed)
}

func (i *Issuer) finish(epoch uint64, path expiry.Variant, link *models.ShareLink, err error, failKey string) error {
	if err == nil && (link == nil || link.TokenURL == "") {
		err = errors.New("response carries no token_url")
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if epoch != i.epoch {
		// Reset while the call was in flight; its result belongs to a form that no longer exists.
		return nil
	}

	if err != nil {
		i.state = Editing
		i.message = i.translate(failKey)
		i.log.Warn("share link request failed", zap.Stringer("path", path), zap.Error(err))
		return &TransportError{Message: i.message, Err: err}
	}

	i.state = Ready
	i.message = ""
	i.link = BuildLink(i.origin, link.TokenURL)
	i.log.Info("share link issued", zap.Stringer("path", path))
	return nil
}

// Reset returns to an empty form with default options.
func (i *Issuer) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.stopCopyTimer()
	i.epoch++
	i.state = Editing
	i.opts = DefaultShareOptions()
	i.password = ""
	i.message = ""
	i.link = ""
	i.copied = false
}

// CopyLink writes the link to the clipboard and raises the copied flag for
// the reset delay. Each call restarts the delay.
func (i *Issuer) CopyLink() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != Ready || i.link == "" {
		return ErrNoLink
	}
	if i.clipboard != nil {
		if err := i.clipboard.WriteText(i.link); err != nil {
			return fmt.Errorf("copy link: %w", err)
		}
	}

	i.stopCopyTimer()
	i.copied = true
	i.copyUntil = i.clock.Now().Add(i.copyDelay)
	i.copyGen++
	gen := i.copyGen
	i.copyTimer = i.clock.AfterFunc(i.copyDelay, func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		if i.copyGen == gen {
			i.copied = false
			i.copyTimer = nil
		}
	})
	return nil
}

// Close releases the copy timer. The issuer must not be used afterwards.
func (i *Issuer) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.stopCopyTimer()
}

func (i *Issuer) stopCopyTimer() {
	if i.copyTimer != nil {
		i.copyTimer.Stop()
		i.copyTimer = nil
	}
	i.copyGen++
}

func (i *Issuer) translate(key string) string {
	if key == "" {
		return ""
	}
	return i.tr.T(key)
}

func validationKey(text string) string {
	n := utf8.RuneCountInString(text)
	switch {
	case n == 0:
		return ""
	case n < MinPasswordLength:
		return locale.KeyTooShort
	case n > MaxPasswordLength:
		return locale.KeyTooLong
	}
	return ""
}

// View is a rendering snapshot.
type View struct {
	State          State        `json:"state"`
	Options        ShareOptions `json:"options"`
	Password       string       `json:"password"`
	PasswordLength int          `json:"password_length"`
	CanSubmit      bool         `json:"can_submit"`
	Message        string       `json:"message,omitempty"`
	Link           string       `json:"link,omitempty"`
	Copied         bool         `json:"copied"`
	// CopyResetMS is how long the copied flag has left, 0 when it is down.
	CopyResetMS  int64  `json:"copy_reset_ms"`
	Availability string `json:"availability"`
}

func (i *Issuer) Snapshot() View {
	i.mu.Lock()
	defer i.mu.Unlock()

	n := utf8.RuneCountInString(i.password)
	var copyLeft time.Duration
	if i.copied {
		copyLeft = max(i.copyUntil.Sub(i.clock.Now()), 0)
	}
	return View{
		State:          i.state,
		Options:        i.opts,
		Password:       i.password,
		PasswordLength: n,
		CanSubmit:      i.state == Editing && n >= MinPasswordLength,
		Message:        i.message,
		Link:           i.link,
		Copied:         i.copied,
		CopyResetMS:    copyLeft.Milliseconds(),
		Availability: locale.Quantity(i.tr, i.opts.DaysAvailable, locale.KeyDay, locale.KeyDays) +
			" " + i.tr.T(locale.KeyOr) + " " +
			locale.Quantity(i.tr, i.opts.ViewsLeft, locale.KeyView, locale.KeyViews) + ".",
	}
}
