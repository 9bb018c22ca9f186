// Package apiclient клиент REST API менторской платформы.
//
// Все запросы проходят через Client.do: он подставляет bearer-токен из
// хранилища сессий, переводит ошибки бэкенда в *APIError и при 401/403
// очищает сессию и отправляет пользователя на вход.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/Freeeeeet/mentor_connect_bot/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UnauthorizedHandler вызывается один раз на каждый ответ 401/403 после очистки сессии
type UnauthorizedHandler func(ctx context.Context, scope int64)

type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	store          *session.Store
	onUnauthorized UnauthorizedHandler
	logger         *zap.Logger
}

type Option func(*Client)

// WithHTTPClient подменяет HTTP-клиент (таймауты, тесты)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout задаёт таймаут HTTP-клиента по умолчанию
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithUnauthorizedHandler задаёт переход на вход после потери авторизации
func WithUnauthorizedHandler(fn UnauthorizedHandler) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

func New(baseURL string, store *session.Store, logger *zap.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute, got %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetUnauthorizedHandler задаёт обработчик после создания клиента
// (контроллер бота создаётся позже клиента)
func (c *Client) SetUnauthorizedHandler(fn UnauthorizedHandler) {
	c.onUnauthorized = fn
}

// Store возвращает хранилище сессий клиента
func (c *Client) Store() *session.Store {
	return c.store
}

// For возвращает клиент, работающий от имени сессии scope
func (c *Client) For(scope int64) *Conn {
	return &Conn{client: c, scope: scope}
}

// Conn запросы от имени одной сессии
type Conn struct {
	client *Client
	scope  int64
}

// Scope идентификатор сессии
func (s *Conn) Scope() int64 {
	return s.scope
}

// multipartFile файл для multipart-запроса
type multipartFile struct {
	field       string
	name        string
	contentType string
	content     io.Reader
}

type request struct {
	method string
	path   string
	body   any
	fields map[string]string
	file   *multipartFile
	header http.Header
	// anonymous запрос без сохранённого токена (вход)
	anonymous bool
}

func (r *request) isMultipart() bool {
	return r.file != nil || r.fields != nil
}

// do выполняет запрос и декодирует ответ в out (если out != nil)
func (c *Client) do(ctx context.Context, scope int64, req request, out any) error {
	if req.method == "" {
		req.method = http.MethodGet
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.resolve(req.path), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, values := range req.header {
		for _, v := range values {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)

	if !req.anonymous && httpReq.Header.Get("Authorization") == "" {
		token, err := c.store.StoredToken(ctx, scope)
		if err != nil {
			c.logger.Warn("Failed to read stored token", zap.Int64("scope", scope), zap.Error(err))
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("API request failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("API request",
		zap.String("method", req.method),
		zap.String("path", req.path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(started)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr := &APIError{Status: resp.StatusCode, Detail: parseDetail(raw)}

		if isAuthFailure(resp.StatusCode) {
			c.handleAuthFailure(ctx, scope, req, apiErr)
		}
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) handleAuthFailure(ctx context.Context, scope int64, req request, apiErr *APIError) {
	c.logger.Warn("Authorization failed, clearing session",
		zap.Int64("scope", scope),
		zap.String("path", req.path),
		zap.Int("status", apiErr.Status),
		zap.String("detail", apiErr.Detail))

	if err := c.store.ClearStoredAuth(ctx, scope); err != nil {
		c.logger.Error("Failed to clear session", zap.Int64("scope", scope), zap.Error(err))
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(ctx, scope)
	}
}

func (c *Client) resolve(path string) string {
	return c.baseURL.String() + "/" + strings.TrimLeft(path, "/")
}

// absoluteURL достраивает относительные ссылки на файлы ("/uploads/x.pdf") до полного адреса
func (c *Client) absoluteURL(raw string) string {
	if raw == "" {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() {
		return raw
	}
	return c.baseURL.ResolveReference(ref).String()
}

func encodeBody(req request) (io.Reader, string, error) {
	if req.isMultipart() {
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)

		for k, v := range req.fields {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("write form field %s: %w", k, err)
			}
		}

		if f := req.file; f != nil {
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
			h.Set("Content-Type", f.contentType)
			part, err := w.CreatePart(h)
			if err != nil {
				return nil, "", fmt.Errorf("create form file: %w", err)
			}
			if _, err := io.Copy(part, f.content); err != nil {
				return nil, "", fmt.Errorf("copy form file: %w", err)
			}
		}

		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close form: %w", err)
		}
		return buf, w.FormDataContentType(), nil
	}

	if req.body == nil {
		return nil, "application/json", nil
	}

	raw, err := json.Marshal(req.body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}
