package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"pass.share/internal/expiry"
	"pass.share/internal/issuer"
	"pass.share/internal/locale"
	"pass.share/internal/metrics"
	"pass.share/internal/pages"
	"pass.share/internal/redeemer"
	"pass.share/web"
)

const (
	qrSize       = 256
	maxBodyBytes = 8 << 10
)

type Handler struct {
	pages     *pages.Registry
	templates *template.Template
	metrics   *metrics.Metrics
	log       *zap.Logger
}

func NewHandler(reg *pages.Registry, m *metrics.Metrics, log *zap.Logger) (*Handler, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		pages:     reg,
		templates: tmpl,
		metrics:   m,
		log:       log,
	}, nil
}

// ActionResponse is returned by every page action.
type ActionResponse struct {
	View      pages.View `json:"view"`
	Error     string     `json:"error,omitempty"`
	Clipboard string     `json:"clipboard,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]any{"status": "ok", "pages": h.pages.Len()})
}

// Index mounts a fresh share page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	p := h.pages.MountIssuer(locale.AcceptLanguageProbe(r.Header.Get("Accept-Language")))
	h.render(w, "issuer.html", p)
}

// ViewRedirect adds the trailing slash share links are defined with.
func (h *Handler) ViewRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, r.URL.EscapedPath()+"/", http.StatusMovedPermanently)
}

// ViewPage mounts a redemption page. The token is taken still escaped from
// the request path; the redeemer decodes it exactly once.
func (h *Handler) ViewPage(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSuffix(strings.TrimPrefix(r.URL.EscapedPath(), "/view/"), "/")
	p := h.pages.MountRedeemer(locale.AcceptLanguageProbe(r.Header.Get("Accept-Language")), raw)
	h.render(w, "redeemer.html", p)
}

func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusOK, p, nil)
}

func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	if err := h.pages.Unmount(chi.URLParam(r, "id")); err != nil {
		h.error(w, http.StatusNotFound, "page not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type passwordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := h.issuerPage(w, r)
	if !ok {
		return
	}
	var req passwordRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := p.Issuer.UpdatePasswordField(req.Password)
	p.Changed()
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) SetOptions(w http.ResponseWriter, r *http.Request) {
	p, ok := h.issuerPage(w, r)
	if !ok {
		return
	}
	var opts issuer.ShareOptions
	if !h.decode(w, r, &opts) {
		return
	}
	err := p.Issuer.SetOptions(opts)
	p.Changed()
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.issuerPage(w, r)
	if !ok {
		return
	}
	err := p.Issuer.GenerateRandom(r.Context())
	p.Changed()
	h.recordIssuance(expiry.Generated, err)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.issuerPage(w, r)
	if !ok {
		return
	}
	err := p.Issuer.SubmitCustom(r.Context())
	p.Changed()
	h.recordIssuance(expiry.Custom, err)
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	p, ok := h.issuerPage(w, r)
	if !ok {
		return
	}
	p.Issuer.Reset()
	p.Changed()
	h.respond(w, http.StatusOK, p, nil)
}

// Copy works on both page kinds. The browser writes the returned text.
func (h *Handler) Copy(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}

	var err error
	if p.Issuer != nil {
		err = p.Issuer.CopyLink()
	} else {
		err = p.Redeemer.CopySecret()
	}
	p.Changed()
	if err != nil {
		h.respond(w, http.StatusConflict, p, err)
		return
	}

	h.json(w, http.StatusOK, ActionResponse{View: p.View(), Clipboard: p.Clipboard()})
}

func (h *Handler) Load(w http.ResponseWriter, r *http.Request) {
	p, ok := h.redeemerPage(w, r)
	if !ok {
		return
	}

	err := p.Redeemer.Load(r.Context(), p.Token)
	p.Changed()
	switch {
	case err == nil:
		h.metrics.Redemption(metrics.OutcomeSuccess)
	case errors.Is(err, redeemer.ErrAlreadyLoaded):
		// repeated mounts of the same instance render what the first load produced
		err = nil
	default:
		h.metrics.Redemption(metrics.OutcomeUnavailable)
	}
	h.respond(w, http.StatusOK, p, err)
}

func (h *Handler) Reveal(w http.ResponseWriter, r *http.Request) {
	p, ok := h.redeemerPage(w, r)
	if !ok {
		return
	}
	p.Redeemer.ToggleReveal()
	p.Changed()
	h.respond(w, http.StatusOK, p, nil)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	p, ok := h.redeemerPage(w, r)
	if !ok {
		return
	}
	h.respond(w, http.StatusNotImplemented, p, p.Redeemer.Revoke(r.Context()))
}

func (h *Handler) QRCode(w http.ResponseWriter, r *http.Request) {
	p, ok := h.issuerPage(w, r)
	if !ok {
		return
	}

	link := p.Issuer.Snapshot().Link
	if link == "" {
		h.error(w, http.StatusNotFound, "no link issued")
		return
	}

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		h.log.Error("qr encode failed", zap.Error(err))
		h.error(w, http.StatusInternalServerError, "qr encode failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (h *Handler) recordIssuance(path expiry.Variant, err error) {
	var ve *issuer.ValidationError
	switch {
	case err == nil:
		h.metrics.Issuance(path.String(), metrics.OutcomeSuccess)
	case errors.As(err, &ve):
		h.metrics.Issuance(path.String(), metrics.OutcomeInvalid)
	case errors.Is(err, issuer.ErrNotEditable):
	default:
		h.metrics.Issuance(path.String(), metrics.OutcomeFailure)
	}
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) (*pages.Page, bool) {
	p, err := h.pages.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, http.StatusNotFound, "page not found")
		return nil, false
	}
	return p, true
}

func (h *Handler) issuerPage(w http.ResponseWriter, r *http.Request) (*pages.Page, bool) {
	p, ok := h.page(w, r)
	if ok && p.Issuer == nil {
		h.error(w, http.StatusBadRequest, "action not available on this page")
		return nil, false
	}
	return p, ok
}

func (h *Handler) redeemerPage(w http.ResponseWriter, r *http.Request) (*pages.Page, bool) {
	p, ok := h.page(w, r)
	if ok && p.Redeemer == nil {
		h.error(w, http.StatusBadRequest, "action not available on this page")
		return nil, false
	}
	return p, ok
}

// respond writes the page view. Errors the page already shows (validation,
// transport, unavailable) keep the given status; state conflicts become 409.
func (h *Handler) respond(w http.ResponseWriter, status int, p *pages.Page, err error) {
	resp := ActionResponse{View: p.View()}
	if err != nil {
		resp.Error = err.Error()
		if errors.Is(err, issuer.ErrNotEditable) || errors.Is(err, issuer.ErrNoLink) || errors.Is(err, redeemer.ErrNotRevealed) {
			status = http.StatusConflict
		}
	}
	h.json(w, status, resp)
}

type pageData struct {
	View pages.View
}

func (h *Handler) render(w http.ResponseWriter, name string, p *pages.Page) {
	tmpl, err := h.templates.Clone()
	if err == nil {
		tmpl = tmpl.Funcs(template.FuncMap{"t": p.Engine.T})
		var buf bytes.Buffer
		if err = tmpl.ExecuteTemplate(&buf, name, pageData{View: p.View()}); err == nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = buf.WriteTo(w)
			return
		}
	}

	h.log.Error("render failed", zap.String("template", name), zap.Error(err))
	_ = h.pages.Unmount(p.ID)
	http.Error(w, "render failed", http.StatusInternalServerError)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) json(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (h *Handler) error(w http.ResponseWriter, status int, message string) {
	h.json(w, status, ErrorResponse{Error: message})
}
