package locale

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
)

// Translator is what the state machines need from an Engine.
type Translator interface {
	T(key string) string
	Plural(n int, singular, plural string) string
}

var (
	universalOnce sync.Once
	universal     *ut.UniversalTranslator
)

// dateLayouts are numeric dates with a four-digit year. The CLDR short date
// patterns use two-digit years for en_US and es.
var dateLayouts = map[Locale]string{
	English:      "01/02/2006",
	PortugueseBR: "02/01/2006",
	Spanish:      "02/01/2006",
}

var cldrNames = map[Locale]string{
	English:      "en_US",
	PortugueseBR: "pt_BR",
	Spanish:      "es",
}

func loadUniversal() *ut.UniversalTranslator {
	universalOnce.Do(func() {
		fallback := en_US.New()
		universal = ut.New(fallback, fallback, pt_BR.New(), es.New())

		for loc, entries := range catalog {
			trans, _ := universal.GetTranslator(cldrNames[loc])
			for key, text := range entries {
				if err := trans.Add(key, text, false); err != nil {
					panic(fmt.Sprintf("locale: bad %s entry %q: %v", loc, key, err))
				}
			}
		}
	})
	return universal
}

// Engine is one session's translation context. The locale is probed once, on
// first use, and never changes afterwards.
type Engine struct {
	once  sync.Once
	probe Probe

	locale Locale
	trans  ut.Translator
	cldr   locales.Translator
	loc    *time.Location
}

type Option func(*Engine)

// WithLocation sets the zone timestamps are rendered in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.loc = loc
	}
}

func NewEngine(probe Probe, opts ...Option) *Engine {
	e := &Engine{probe: probe, loc: time.Local}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEngineFor skips detection.
func NewEngineFor(l Locale, opts ...Option) *Engine {
	return NewEngine(func() string { return string(l) }, opts...)
}

func (e *Engine) init() {
	e.once.Do(func() {
		pref := ""
		if e.probe != nil {
			pref = e.probe()
		}
		e.locale = Detect(pref)

		trans, _ := loadUniversal().GetTranslator(cldrNames[e.locale])
		e.trans = trans
		e.cldr = trans
	})
}

func (e *Engine) Locale() Locale {
	e.init()
	return e.locale
}

// T returns the localized text for key, or key itself when there is none.
func (e *Engine) T(key string) string {
	e.init()
	if e.locale == English {
		return key
	}
	text, err := e.trans.T(key)
	if err != nil || text == "" {
		return key
	}
	return text
}

// Plural picks the singular key when n == 1 and translates it.
func (e *Engine) Plural(n int, singular, plural string) string {
	if n == 1 {
		return e.T(singular)
	}
	return e.T(plural)
}

// FormatDateTime renders t as the locale's numeric date followed by its
// short time.
func (e *Engine) FormatDateTime(t time.Time) string {
	e.init()
	t = t.In(e.loc)
	return t.Format(dateLayouts[e.locale]) + " " + e.cldr.FmtTimeShort(t)
}

// Quantity renders "n unit" with the unit pluralized by n.
func Quantity(tr Translator, n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, tr.Plural(n, singular, plural))
}
