package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"pass.share/config"
	"pass.share/internal/backend"
	"pass.share/internal/store"
)

type memClipboard struct{ text string }

func (c *memClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

func runCLI(t *testing.T, apiURL string, clip *memClipboard, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out, clip)
	app.ExitErrHandler = func(*cli.Context, error) {}

	argv := append([]string{"pwshare", "--api-url", apiURL, "--origin", "https://share.example.com"}, args...)
	err := app.Run(argv)
	return out.String(), err
}

func newBackend(t *testing.T) string {
	t.Helper()
	st := store.NewMemoryStore(nil, time.Minute)
	t.Cleanup(func() { _ = st.Close() })
	srv := httptest.NewServer(backend.SetupRouter(backend.NewHandler(st, config.Default().Reference, nil, nil), nil))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestShareThenView(t *testing.T) {
	t.Setenv("LC_ALL", "en_US.UTF-8")
	api := newBackend(t)
	clip := &memClipboard{}

	out, err := runCLI(t, api, clip, "share", "--password", "correct horse", "--views", "2", "--days", "3", "--copy")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	link := lines[0]
	assert.True(t, strings.HasPrefix(link, "https://share.example.com/view/"))
	assert.Equal(t, link, clip.text)
	assert.Contains(t, out, "3 days or 2 views.")

	out, err = runCLI(t, api, clip, "view", "--copy", link)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "correct horse\n"))
	assert.Contains(t, out, "or for 1 more view.")
	assert.Equal(t, "correct horse", clip.text)
}

func TestGenerate(t *testing.T) {
	t.Setenv("LC_ALL", "en_US.UTF-8")
	api := newBackend(t)

	out, err := runCLI(t, api, &memClipboard{}, "generate", "--size", "24", "--symbols=false")
	require.NoError(t, err)
	link := strings.SplitN(out, "\n", 2)[0]

	out, err = runCLI(t, api, &memClipboard{}, "view", TokenFromArg(link))
	require.NoError(t, err)
	assert.Len(t, strings.SplitN(out, "\n", 2)[0], 24)
}

func TestShareRejectsShortPassword(t *testing.T) {
	t.Setenv("LC_ALL", "es_ES.UTF-8")
	out, err := runCLI(t, "http://127.0.0.1:1", &memClipboard{}, "share", "--password", "ab")

	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.ExitCode())
	assert.Equal(t, "La contraseña debe tener al menos 4 caracteres.", exit.Error())
	assert.Empty(t, out)
}

func TestViewUnavailable(t *testing.T) {
	t.Setenv("LC_ALL", "pt_BR.UTF-8")
	api := newBackend(t)

	_, err := runCLI(t, api, &memClipboard{}, "view", "missing.key")
	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, "Senha Indisponivel", exit.Error())
}

func TestTokenFromArg(t *testing.T) {
	tests := map[string]string{
		"abc.def":                           "abc.def",
		"https://x.example/view/abc.def/":   "abc.def",
		"https://x.example/view/a%2Fb/?s=1": "a%2Fb",
		"/view/tok":                         "tok",
	}
	for in, want := range tests {
		assert.Equal(t, want, TokenFromArg(in), in)
	}
}
