// Package apiclient реализует удалённый доступ к бэкенду портала: JSON
// поверх HTTP, bearer-аутентификация с одноразовым обновлением токена
// по 401 и клиентская блокировка мутаций при залоченном портале.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hostfolio/portal/internal/config"
	"github.com/hostfolio/portal/internal/lib/sl"
	"github.com/hostfolio/portal/internal/models"
)

// TokenSource выдаёт и принимает токены сессии. Реализуется витриной сессии.
type TokenSource interface {
	// Tokens возвращает текущие access и refresh токены ("" если нет).
	Tokens() (access, refresh string)
	// SetTokens заменяет токены после успешного обновления.
	SetTokens(access, refresh string)
	// Logout сбрасывает сессию, вызывается при провале обновления токена.
	Logout()
}

// Конечные точки, доступные даже при заблокированном портале.
var lockdownAllowed = []string{
	"/auth/subscription-status",
	"/auth/notifications",
	"/auth/token/refresh",
	"/auth/profile",
}

func allowedWhenLocked(path string) bool {
	for _, allowed := range lockdownAllowed {
		if strings.HasPrefix(path, allowed) {
			return true
		}
	}
	return false
}

// Client клиент бэкенда портала. Безопасен для конкурентного использования.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	limiter    *rate.Limiter
	metrics    *Metrics
	tokens     TokenSource

	guardMu   sync.RWMutex
	lockGuard func() bool

	// refreshMu дедуплицирует конкурентные обновления токена.
	refreshMu sync.Mutex
}

// New создаёт новый клиент бэкенда. tokens и metrics могут быть nil.
func New(cfg config.APIClient, log *slog.Logger, tokens TokenSource, metrics *Metrics) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
		burst = cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
		limiter:    rate.NewLimiter(limit, burst),
		metrics:    metrics,
		tokens:     tokens,
	}
}

// SetLockGuard задаёт предикат блокировки портала. Вызывается на этапе
// сборки приложения после создания витрины подписки: обе стороны нужны
// друг другу, поэтому ссылка доставляется сеттером.
func (c *Client) SetLockGuard(guard func() bool) {
	c.guardMu.Lock()
	defer c.guardMu.Unlock()
	c.lockGuard = guard
}

func (c *Client) portalLocked() bool {
	c.guardMu.RLock()
	guard := c.lockGuard
	c.guardMu.RUnlock()
	return guard != nil && guard()
}

// Get выполняет GET-запрос и декодирует тело ответа в out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post выполняет POST-запрос. body и out могут быть nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put выполняет PUT-запрос.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Patch выполняет PATCH-запрос.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete выполняет DELETE-запрос.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	// Мутации при залоченном портале отклоняются на клиенте,
	// кроме разрешённого списка конечных точек.
	if method != http.MethodGet && !allowedWhenLocked(path) && c.portalLocked() {
		if c.metrics != nil {
			c.metrics.LockedRejects.Inc()
		}
		c.log.Warn("mutation rejected, portal is locked", slog.String("op", op))
		return ErrPortalLocked
	}

	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return &FetchError{Kind: KindDecode, Op: op, Err: err}
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &FetchError{Kind: KindTransport, Op: op, Err: err}
	}

	start := time.Now()
	err := c.roundTrip(ctx, method, path, encoded, out, true)
	if c.metrics != nil {
		c.metrics.DurationSeconds.WithLabelValues(method).Observe(time.Since(start).Seconds())
		c.metrics.Requests.WithLabelValues(method, outcome(err)).Inc()
	}
	return err
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if fe, ok := err.(*FetchError); ok {
		return fe.Kind.String()
	}
	return "error"
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte, out any, allowRefresh bool) error {
	op := method + " " + path

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return &FetchError{Kind: KindTransport, Op: op, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusUnauthorized && allowRefresh && c.tokens != nil {
		if c.refreshAccessToken(ctx) {
			return c.roundTrip(ctx, method, path, body, out, false)
		}
		return &FetchError{Kind: KindStatus, Op: op, StatusCode: resp.StatusCode}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &FetchError{Kind: KindStatus, Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &FetchError{Kind: KindDecode, Op: op, Err: err}
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	url := c.baseURL + path
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if access, _ := c.tokens.Tokens(); access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}
	return req, nil
}

// refreshAccessToken выполняет одно обновление access-токена. Конкурентные
// 401 дедуплицируются: кто первым взял замок, тот и обновляет, остальные
// видят уже сменившийся токен и повторяют запрос без собственного обновления.
func (c *Client) refreshAccessToken(ctx context.Context) bool {
	const op = "apiclient.refreshAccessToken"

	access, refresh := c.tokens.Tokens()
	if refresh == "" {
		return false
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current, _ := c.tokens.Tokens(); current != access {
		// Другой запрос уже обновил токен, пока мы ждали замок.
		return true
	}

	if c.metrics != nil {
		c.metrics.TokenRefreshes.Inc()
	}

	encoded, err := json.Marshal(models.RefreshRequest{Refresh: refresh})
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/token/refresh/", bytes.NewReader(encoded))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("token refresh failed", sl.Err(err), sl.Op(op))
		return false
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		// Refresh-токен мёртв, сессия завершается.
		c.log.Warn("refresh token rejected, clearing session",
			slog.Int("status", resp.StatusCode), sl.Op(op))
		c.tokens.Logout()
		return false
	}

	var payload models.RefreshPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn("token refresh response malformed", sl.Err(err), sl.Op(op))
		return false
	}
	if payload.Refresh == "" {
		payload.Refresh = refresh
	}
	c.tokens.SetTokens(payload.Access, payload.Refresh)
	return true
}

// BaseURL возвращает корень API, от которого строятся пути запросов.
func (c *Client) BaseURL() string { return c.baseURL }
