package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pass.share/config"
	"pass.share/internal/backend"
	"pass.share/internal/metrics"
	"pass.share/internal/pages"
	"pass.share/internal/shareapi"
	"pass.share/internal/store"
)

const origin = "https://share.example.com"

type backendCall struct {
	path string
	body map[string]any
}

// fakeBackend answers every call with the given status and body and records
// what it received.
type fakeBackend struct {
	mu     sync.Mutex
	calls  []backendCall
	status int
	body   string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	call := backendCall{path: r.URL.EscapedPath()}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &call.body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.WriteHeader(f.status)
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeBackend) Calls() []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backendCall(nil), f.calls...)
}

type frontend struct {
	srv *httptest.Server
	reg *prometheus.Registry
}

func newFrontend(t *testing.T, backendURL string) *frontend {
	t.Helper()
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	reg := pages.NewRegistry(pages.Config{
		API:     shareapi.NewClient(backendURL, 5*time.Second, nil),
		Clock:   clock.New(),
		Metrics: m,
		Origin:  origin,
	})
	t.Cleanup(reg.Close)

	router, err := SetupRouter(reg, m, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &frontend{srv: srv, reg: promReg}
}

var pageIDPattern = regexp.MustCompile(`data-page="([^"]+)"`)

func (f *frontend) mount(t *testing.T, path, acceptLanguage string) (string, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+path, nil)
	require.NoError(t, err)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	m := pageIDPattern.FindSubmatch(html)
	require.NotNil(t, m, "page id missing from %s", html)
	return string(m[1]), string(html)
}

type actionView struct {
	Issuer *struct {
		State          string `json:"state"`
		Message        string `json:"message"`
		Link           string `json:"link"`
		Copied         bool   `json:"copied"`
		CopyResetMS    int64  `json:"copy_reset_ms"`
		CanSubmit      bool   `json:"can_submit"`
		PasswordLength int    `json:"password_length"`
	} `json:"issuer"`
	Redeemer *struct {
		State     string `json:"state"`
		Message   string `json:"message"`
		Password  string `json:"password"`
		ExpiresAt string `json:"expires_at"`
		CreatedAt string `json:"created_at"`
		ViewsLeft int    `json:"views_left"`
		Revealed  bool   `json:"revealed"`
	} `json:"redeemer"`
	Version          uint64 `json:"version"`
	Disclosure       string `json:"disclosure"`
	DisclosureNextMS int64  `json:"disclosure_next_ms"`
}

type actionResult struct {
	View      actionView `json:"view"`
	Error     string     `json:"error"`
	Clipboard string     `json:"clipboard"`
}

func (f *frontend) action(t *testing.T, method, id, action string, payload any) (int, actionResult) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	url := f.srv.URL + "/pages/" + id
	if action != "" {
		url += "/" + action
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out actionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestGenerateWithDefaults(t *testing.T) {
	fb := &fakeBackend{status: http.StatusOK, body: `{"token_url":"abc123"}`}
	be := httptest.NewServer(fb)
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, _ := f.mount(t, "/", "")
	status, res := f.action(t, http.MethodPost, id, "generate", nil)
	require.Equal(t, http.StatusOK, status)

	require.NotNil(t, res.View.Issuer)
	assert.Equal(t, "ready", res.View.Issuer.State)
	assert.Equal(t, origin+"/view/abc123/", res.View.Issuer.Link)

	calls := fb.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/share/generate", calls[0].path)
	assert.NotContains(t, calls[0].body, "expire_at")
	assert.Equal(t, float64(1), calls[0].body["views_left"])
}

func TestViewCarriesDeadlinesAndVersion(t *testing.T) {
	fb := &fakeBackend{status: http.StatusOK, body: `{"token_url":"abc123"}`}
	be := httptest.NewServer(fb)
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, _ := f.mount(t, "/", "")
	_, res := f.action(t, http.MethodGet, id, "", nil)
	assert.Zero(t, res.View.Version)
	assert.Greater(t, res.View.DisclosureNextMS, int64(0))
	assert.LessOrEqual(t, res.View.DisclosureNextMS, (15 * time.Second).Milliseconds())
	assert.Zero(t, res.View.Issuer.CopyResetMS)

	_, res = f.action(t, http.MethodPost, id, "password", map[string]string{"password": "abc"})
	assert.Equal(t, uint64(1), res.View.Version)

	// reads do not move the version
	_, res = f.action(t, http.MethodGet, id, "", nil)
	assert.Equal(t, uint64(1), res.View.Version)

	_, res = f.action(t, http.MethodPost, id, "generate", nil)
	require.Equal(t, "ready", res.View.Issuer.State)

	status, res := f.action(t, http.MethodPost, id, "copy", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, uint64(3), res.View.Version)
	assert.True(t, res.View.Issuer.Copied)
	assert.Greater(t, res.View.Issuer.CopyResetMS, int64(0))
	assert.LessOrEqual(t, res.View.Issuer.CopyResetMS, (2 * time.Second).Milliseconds())
}

func TestShortPasswordIsNotSent(t *testing.T) {
	fb := &fakeBackend{status: http.StatusOK, body: `{"token_url":"abc123"}`}
	be := httptest.NewServer(fb)
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, _ := f.mount(t, "/", "")
	_, res := f.action(t, http.MethodPost, id, "password", map[string]string{"password": "ab"})
	assert.Equal(t, "The password must be at least 4 characters.", res.View.Issuer.Message)
	assert.False(t, res.View.Issuer.CanSubmit)

	_, res = f.action(t, http.MethodPost, id, "submit", nil)
	assert.Equal(t, "editing", res.View.Issuer.State)
	assert.Equal(t, "The password must be at least 4 characters.", res.View.Issuer.Message)
	assert.Empty(t, fb.Calls())
}

func TestRedeemNotFound(t *testing.T) {
	fb := &fakeBackend{status: http.StatusNotFound, body: `{"error":"secret not found"}`}
	be := httptest.NewServer(fb)
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, html := f.mount(t, "/view/gone-token/", "")
	assert.Contains(t, html, "Loading...")

	status, res := f.action(t, http.MethodPost, id, "load", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, res.View.Redeemer)
	assert.Equal(t, "unavailable", res.View.Redeemer.State)
	assert.Equal(t, "Password Unavailable", res.View.Redeemer.Message)
	assert.Empty(t, res.View.Redeemer.Password)
	assert.Empty(t, res.View.Redeemer.ExpiresAt)
	assert.Empty(t, res.View.Redeemer.CreatedAt)

	// a second load on the same page does not reach the backend
	f.action(t, http.MethodPost, id, "load", nil)
	assert.Len(t, fb.Calls(), 1)
	assert.Equal(t, "/share/gone-token", fb.Calls()[0].path)
}

func TestRoundTripThroughReferenceBackend(t *testing.T) {
	st := store.NewMemoryStore(nil, time.Minute)
	defer st.Close()
	be := httptest.NewServer(backend.SetupRouter(backend.NewHandler(st, config.Default().Reference, nil, nil), nil))
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, _ := f.mount(t, "/", "")
	f.action(t, http.MethodPost, id, "options", map[string]any{
		"size": 16, "include_numbers": true, "include_symbols": true, "views_left": 2, "days_available": 3,
	})
	f.action(t, http.MethodPost, id, "password", map[string]string{"password": "correct horse"})
	_, res := f.action(t, http.MethodPost, id, "submit", nil)
	require.Equal(t, "ready", res.View.Issuer.State, res.Error)

	link := res.View.Issuer.Link
	require.True(t, strings.HasPrefix(link, origin+"/view/"))
	require.True(t, strings.HasSuffix(link, "/"))

	status, copied := f.action(t, http.MethodPost, id, "copy", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, link, copied.Clipboard)
	assert.True(t, copied.View.Issuer.Copied)

	path := strings.TrimPrefix(link, origin)
	viewID, _ := f.mount(t, path, "")
	_, res = f.action(t, http.MethodPost, viewID, "load", nil)
	require.Equal(t, "revealed", res.View.Redeemer.State)
	assert.Equal(t, "correct horse", res.View.Redeemer.Password)
	assert.Equal(t, 1, res.View.Redeemer.ViewsLeft)
	assert.False(t, res.View.Redeemer.Revealed)

	_, res = f.action(t, http.MethodPost, viewID, "reveal", nil)
	assert.True(t, res.View.Redeemer.Revealed)

	// second page instance, last view
	otherID, _ := f.mount(t, path, "")
	_, res = f.action(t, http.MethodPost, otherID, "load", nil)
	assert.Equal(t, 0, res.View.Redeemer.ViewsLeft)

	thirdID, _ := f.mount(t, path, "")
	_, res = f.action(t, http.MethodPost, thirdID, "load", nil)
	assert.Equal(t, "unavailable", res.View.Redeemer.State)
}

func TestViewWithoutSlashRedirects(t *testing.T) {
	f := newFrontend(t, "http://127.0.0.1:1")

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(f.srv.URL + "/view/a%2Fb")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/view/a%2Fb/", resp.Header.Get("Location"))
}

func TestRevokeIsNotImplemented(t *testing.T) {
	fb := &fakeBackend{status: http.StatusOK, body: `{"password":"s3cret","views_left":1}`}
	be := httptest.NewServer(fb)
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, _ := f.mount(t, "/view/tok/", "")
	f.action(t, http.MethodPost, id, "load", nil)

	status, res := f.action(t, http.MethodPost, id, "revoke", nil)
	assert.Equal(t, http.StatusNotImplemented, status)
	assert.NotEmpty(t, res.Error)
	assert.Len(t, fb.Calls(), 1)
}

func TestLocalizedPage(t *testing.T) {
	f := newFrontend(t, "http://127.0.0.1:1")

	id, html := f.mount(t, "/", "pt-BR,pt;q=0.9,en;q=0.8")
	assert.Contains(t, html, "Compartilhamento Seguro de Senhas")
	assert.Contains(t, html, `lang="pt-BR"`)

	_, res := f.action(t, http.MethodPost, id, "password", map[string]string{"password": "ab"})
	assert.Equal(t, "A senha deve ter pelo menos 4 caracteres.", res.View.Issuer.Message)
}

func TestTransportFailureKeepsForm(t *testing.T) {
	f := newFrontend(t, "http://127.0.0.1:1")

	id, _ := f.mount(t, "/", "es")
	_, res := f.action(t, http.MethodPost, id, "generate", nil)
	assert.Equal(t, "editing", res.View.Issuer.State)
	assert.Equal(t, "Error al generar contraseña. Intenta de nuevo.", res.View.Issuer.Message)
}

func TestQRCode(t *testing.T) {
	fb := &fakeBackend{status: http.StatusOK, body: `{"token_url":"abc123"}`}
	be := httptest.NewServer(fb)
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, _ := f.mount(t, "/", "")

	resp, err := http.Get(f.srv.URL + "/pages/" + id + "/qr.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	f.action(t, http.MethodPost, id, "generate", nil)

	resp, err = http.Get(f.srv.URL + "/pages/" + id + "/qr.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	png, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestUnmountAndUnknownPage(t *testing.T) {
	f := newFrontend(t, "http://127.0.0.1:1")
	id, _ := f.mount(t, "/", "")

	req, err := http.NewRequest(http.MethodDelete, f.srv.URL+"/pages/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(f.srv.URL + "/pages/" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWrongPageKind(t *testing.T) {
	f := newFrontend(t, "http://127.0.0.1:1")
	id, _ := f.mount(t, "/view/tok/", "")

	resp, err := http.Post(f.srv.URL+"/pages/"+id+"/generate", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	fb := &fakeBackend{status: http.StatusOK, body: `{"token_url":"abc123"}`}
	be := httptest.NewServer(fb)
	defer be.Close()
	f := newFrontend(t, be.URL)

	id, _ := f.mount(t, "/", "")
	f.action(t, http.MethodPost, id, "generate", nil)

	resp, err := http.Get(f.srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(f.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `pass_share_issuance_total{outcome="success",path="generated"} 1`)
	assert.Contains(t, string(body), "pass_share_pages_mounted 1")
}

func TestStaticAssets(t *testing.T) {
	f := newFrontend(t, "http://127.0.0.1:1")

	resp, err := http.Get(f.srv.URL + "/static/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the script relies on these view fields
	script, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	for _, field := range []string{"version", "disclosure_next_ms", "copy_reset_ms"} {
		assert.Contains(t, string(script), field)
	}
}
