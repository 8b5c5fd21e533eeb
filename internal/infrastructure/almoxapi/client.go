package almoxapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.WarehouseAPI     = (*Client)(nil)
	_ ports.LotFanOut        = (*Client)(nil)
	_ ports.CredentialBinder = (*Client)(nil)
)

const (
	maxBodyBytes          = 8 << 20
	defaultMaxConcurrency = 4
	defaultMaxProducts    = 200
	requestIDHeader       = "X-Request-ID"
)

// Options configuración del cliente.
type Options struct {
	BaseURL        string // ej. http://almox:5000
	Timeout        time.Duration
	MaxConcurrency int // llamadas simultáneas en el recorrido de lotes
	MaxProducts    int // productos examinados como máximo en el recorrido de lotes
	Location       *time.Location
	HTTPClient     *http.Client
	Logger         zerolog.Logger
}

// Client adaptador REST del backend del almoxarifado.
// Usa net/http de la librería estándar; no hay SDK para este backend.
type Client struct {
	base           *url.URL
	httpClient     *http.Client
	log            zerolog.Logger
	loc            *time.Location
	maxConcurrency int
	maxProducts    int
	creds          func() string
}

// NewClient construye el adaptador. BaseURL es obligatorio.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("almoxapi: BACKEND_URL no configurado")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("almoxapi: BACKEND_URL inválido: %w", err)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	c := &Client{
		base:           base,
		httpClient:     hc,
		log:            opts.Logger.With().Str("component", "almoxapi").Logger(),
		loc:            loc,
		maxConcurrency: opts.MaxConcurrency,
		maxProducts:    opts.MaxProducts,
	}
	if c.maxConcurrency <= 0 {
		c.maxConcurrency = defaultMaxConcurrency
	}
	if c.maxProducts <= 0 {
		c.maxProducts = defaultMaxProducts
	}
	return c, nil
}

// Location zona usada para interpretar fechas sin zona.
func (c *Client) Location() *time.Location { return c.loc }

// ── Credenciales por request ──────────────────────────────────────────────────

type authKey struct{}

// WithAuthorization adjunta al contexto el header Authorization que se reenvía al backend.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if header == "" {
		return ctx
	}
	return context.WithValue(ctx, authKey{}, header)
}

func authorizationFrom(ctx context.Context) string {
	v, _ := ctx.Value(authKey{}).(string)
	return v
}

type requestIDKey struct{}

// WithRequestID propaga el id del request entrante a las llamadas al backend.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if v, _ := ctx.Value(requestIDKey{}).(string); v != "" {
		return v
	}
	return uuid.NewString()
}

// WithCredentials copia del cliente que, sin Authorization en el contexto, usa fn().
func (c *Client) WithCredentials(fn func() string) ports.WarehouseAPI {
	cp := *c
	cp.creds = fn
	return &cp
}

func (c *Client) authorization(ctx context.Context) string {
	if auth := authorizationFrom(ctx); auth != "" {
		return auth
	}
	if c.creds != nil {
		return c.creds()
	}
	return ""
}

// ── Transporte ────────────────────────────────────────────────────────────────

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do ejecuta la llamada y devuelve el cuerpo crudo de una respuesta 2xx.
// Errores: ErrTransport (red/timeout), *domain.RemoteError (no-2xx).
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("almoxapi: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return nil, fmt.Errorf("almoxapi: crear HTTP request: %w", err)
	}
	reqID := requestIDFrom(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, reqID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := c.authorization(ctx); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).Msg("llamada al backend fallida")
		if ctx.Err() != nil {
			return nil, fmt.Errorf("almoxapi: %s %s: %w: %w", method, path, domain.ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("almoxapi: %s %s: %w: %v", method, path, domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("almoxapi: leer respuesta: %w: %v", domain.ErrTransport, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", reqID).
		Msg("backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := &domain.RemoteError{Status: resp.StatusCode}
		var eb errorBody
		if jsonErr := json.Unmarshal(raw, &eb); jsonErr == nil {
			remote.Message = firstString(eb.Error, eb.Message)
		}
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Str("request_id", reqID).Msg(remote.Error())
		return nil, remote
	}

	// Algunos endpoints responden 200 con {"error": "..."}.
	if t := bytes.TrimSpace(raw); len(t) > 0 && t[0] == '{' {
		var eb errorBody
		if jsonErr := json.Unmarshal(raw, &eb); jsonErr == nil && strings.TrimSpace(eb.Error) != "" {
			return nil, &domain.RemoteError{Status: resp.StatusCode, Message: eb.Error}
		}
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("almoxapi: GET %s: %w: %v", path, domain.ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	if payload == nil {
		payload = struct{}{}
	}
	raw, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("almoxapi: POST %s: %w: %v", path, domain.ErrMalformedResponse, err)
	}
	return nil
}

// IsTransport indica si err proviene de la red o de un timeout.
func IsTransport(err error) bool { return errors.Is(err, domain.ErrTransport) }

func itoa(n int) string { return strconv.Itoa(n) }

func setIf(q url.Values, key, val string) {
	if strings.TrimSpace(val) != "" {
		q.Set(key, val)
	}
}

func escape(id string) string { return url.PathEscape(id) }
