// Package backend is a self-contained implementation of the share API the
// frontend talks to. It seals every password with a key that only lives in
// the share token.
package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pass.share/config"
	"pass.share/internal/crypto"
	"pass.share/internal/models"
	"pass.share/internal/store"
)

const (
	minPasswordLength = 4
	maxPasswordLength = 128
	maxBodyBytes      = 16 << 10
)

type Handler struct {
	store  store.Store
	config config.ReferenceConfig
	clock  clock.Clock
	log    *zap.Logger
}

func NewHandler(s store.Store, cfg config.ReferenceConfig, clk clock.Clock, log *zap.Logger) *Handler {
	if clk == nil {
		clk = clock.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		store:  s,
		config: cfg,
		clock:  clk,
		log:    log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Size < minPasswordLength || req.Size > maxPasswordLength {
		h.error(w, http.StatusBadRequest, "size must be between 4 and 128")
		return
	}

	password, err := crypto.GeneratePassword(crypto.PasswordOptions{
		Size:    req.Size,
		Numbers: req.Numbers,
		Symbols: req.SpecialChar,
	})
	if err != nil {
		h.log.Error("password generation failed", zap.Error(err))
		h.error(w, http.StatusInternalServerError, "password generation failed")
		return
	}

	h.issue(w, r, password, req.ViewsLeft, req.ExpireAt)
}

func (h *Handler) SharePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	n := utf8.RuneCountInString(req.Password)
	if strings.TrimSpace(req.Password) == "" || n < minPasswordLength || n > maxPasswordLength {
		h.error(w, http.StatusBadRequest, "password must be between 4 and 128 characters")
		return
	}

	h.issue(w, r, req.Password, req.ViewsLeft, req.ExpireAt)
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request, password string, views int, expireAt *time.Time) {
	now := h.clock.Now().UTC()

	expires, ok := h.expiry(now, expireAt)
	if !ok {
		h.error(w, http.StatusBadRequest, "expire_at must be in the future")
		return
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		h.log.Error("key generation failed", zap.Error(err))
		h.error(w, http.StatusInternalServerError, "encryption failed")
		return
	}

	sealed, err := crypto.Seal([]byte(password), key)
	if err != nil {
		h.log.Error("seal failed", zap.Error(err))
		h.error(w, http.StatusInternalServerError, "encryption failed")
		return
	}

	secret := &models.StoredSecret{
		ID:        crypto.GenerateID(),
		Sealed:    sealed,
		ViewsLeft: clamp(views, 1, h.config.MaxViews),
		ExpireAt:  expires,
		CreatedAt: now,
	}

	if err := h.store.Save(r.Context(), secret); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.log.Info("secret stored",
		zap.Int("views_left", secret.ViewsLeft),
		zap.Time("expire_at", secret.ExpireAt),
	)
	h.json(w, http.StatusCreated, models.ShareLink{TokenURL: Token(secret.ID, key)})
}

// expiry resolves the requested expiry. Absent means the default TTL; a time
// beyond the maximum is pulled in to it.
func (h *Handler) expiry(now time.Time, requested *time.Time) (time.Time, bool) {
	if requested == nil {
		return now.Add(h.config.DefaultTTL), true
	}
	ttl := requested.Sub(now)
	if ttl <= 0 {
		return time.Time{}, false
	}
	return now.Add(clampDuration(ttl, h.config.DefaultTTL, h.config.MaxTTL)), true
}

func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	id, key, ok := ParseToken(chi.URLParam(r, "token"))
	if !ok {
		h.error(w, http.StatusNotFound, "secret not found")
		return
	}

	secret, err := h.store.Consume(r.Context(), id)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	password, err := crypto.Open(secret.Sealed, key)
	if err != nil {
		h.error(w, http.StatusNotFound, "secret not found")
		return
	}

	h.json(w, http.StatusOK, models.SecretRecord{
		Password:  string(password),
		ExpireAt:  secret.ExpireAt,
		CreatedAt: secret.CreatedAt,
		ViewsLeft: secret.ViewsLeft,
	})
}

// Token joins a record id and its key into the value placed in share links.
func Token(id, key string) string {
	return id + "." + key
}

func ParseToken(token string) (id, key string, ok bool) {
	id, key, ok = strings.Cut(token, ".")
	if !ok || id == "" || key == "" {
		return "", "", false
	}
	return id, key, true
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
	h.json(w, status, models.ErrorResponse{Error: message})
}

func (h *Handler) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.error(w, http.StatusNotFound, "secret not found")
	case errors.Is(err, store.ErrExpired):
		h.error(w, http.StatusGone, "secret has expired")
	case errors.Is(err, store.ErrNoViewsLeft):
		h.error(w, http.StatusGone, "secret has no views left")
	default:
		h.log.Error("store failure", zap.Error(err))
		h.error(w, http.StatusInternalServerError, "internal error")
	}
}

func clamp(val, defaultVal, maxVal int) int {
	if val <= 0 {
		return defaultVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func clampDuration(val, defaultVal, maxVal time.Duration) time.Duration {
	if val <= 0 {
		return defaultVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
