// Package locale resolves the canonical English strings of the UI into
// Portuguese (Brazil) or Spanish and formats timestamps for the active locale.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	English      Locale = "en"
	PortugueseBR Locale = "pt-BR"
	Spanish      Locale = "es"
)

// Detect maps a reported language preference to a supported locale by prefix.
func Detect(pref string) Locale {
	p := strings.ToLower(strings.TrimSpace(pref))
	switch {
	case strings.HasPrefix(p, "pt"):
		return PortugueseBR
	case strings.HasPrefix(p, "es"):
		return Spanish
	default:
		return English
	}
}

// Probe reports the runtime's language preference, e.g. "pt-BR" or "es_AR.UTF-8".
type Probe func() string

// EnvProbe reads the POSIX locale variables in precedence order.
func EnvProbe() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// AcceptLanguageProbe reports the highest weighted tag of an Accept-Language header.
func AcceptLanguageProbe(header string) Probe {
	return func() string {
		tags, _, err := language.ParseAcceptLanguage(header)
		if err != nil || len(tags) == 0 {
			return ""
		}
		return tags[0].String()
	}
}
