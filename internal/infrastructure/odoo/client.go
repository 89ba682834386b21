// Package odoo envía órdenes de venta a Odoo por XML-RPC (endpoints /xmlrpc/2/common y /xmlrpc/2/object).
package odoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kolo/xmlrpc"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Cotizador-api/pkg/config"
)

var (
	// ErrAuthenticationFailed credenciales rechazadas o uid 0.
	ErrAuthenticationFailed = errors.New("odoo: authentication failed")
	// ErrRPC fallo genérico de una llamada execute_kw.
	ErrRPC = errors.New("odoo: XML-RPC call failed")
)

// RPCError fault devuelto por el servidor Odoo.
type RPCError struct {
	Code    int
	Message string
	Err     error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRPC, e.Message)
}

func (e *RPCError) Unwrap() []error { return []error{ErrRPC, e.Err} }

// kolo/xmlrpc entrega el fault como texto: "Fault(2): msg" o "Fault 2: 'msg'".
var faultRe = regexp.MustCompile(`Fault\s*\(?(\d+)\)?:\s*(.*)`)

// parseFault convierte el error de kolo/xmlrpc en un *RPCError.
func parseFault(err error) error {
	msg := err.Error()
	out := &RPCError{Message: msg, Err: err}
	if m := faultRe.FindStringSubmatch(msg); len(m) == 3 {
		out.Code, _ = strconv.Atoi(m[1])
		out.Message = strings.Trim(m[2], "'")
	} else if strings.HasPrefix(msg, "XML-RPC fault: ") {
		out.Message = strings.TrimPrefix(msg, "XML-RPC fault: ")
	}
	return out
}

// Option configura el cliente.
type Option func(*Client)

// WithTransport usa un transporte HTTP propio (pruebas, proxies).
func WithTransport(tr http.RoundTripper) Option {
	return func(c *Client) { c.transport = tr }
}

// WithAuthTimeout fija cada cuánto se renueva la sesión.
func WithAuthTimeout(d time.Duration) Option {
	return func(c *Client) { c.authTimeout = d }
}

// Client cliente XML-RPC con sesión perezosa: autentica en la primera llamada
// y vuelve a hacerlo cuando vence authTimeout.
type Client struct {
	url, db, username, password string

	transport   http.RoundTripper
	authTimeout time.Duration

	mu       sync.Mutex
	uid      int64
	object   *xmlrpc.Client
	lastAuth time.Time
}

// New valida la URL y construye el cliente; no abre conexión.
func New(cfg config.OdooConfig, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("odoo: parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("odoo: esquema de URL inválido %q (http|https)", u.Scheme)
	}
	c := &Client{
		url:         strings.TrimRight(cfg.URL, "/"),
		db:          cfg.Database,
		username:    cfg.Username,
		password:    cfg.Password,
		transport:   http.DefaultTransport,
		authTimeout: 6 * time.Hour,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// authenticate obtiene el uid por /common y deja listo el cliente de /object. Requiere c.mu.
func (c *Client) authenticate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	common, err := xmlrpc.NewClient(c.url+"/xmlrpc/2/common", c.transport)
	if err != nil {
		return fmt.Errorf("odoo: connect common: %w", err)
	}
	defer common.Close()

	var uid int64
	err = call(ctx, func() error {
		return common.Call("authenticate", []any{c.db, c.username, c.password, map[string]any{}}, &uid)
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if uid == 0 {
		return ErrAuthenticationFailed
	}

	object, err := xmlrpc.NewClient(c.url+"/xmlrpc/2/object", c.transport)
	if err != nil {
		return fmt.Errorf("odoo: connect object: %w", err)
	}
	if c.object != nil {
		c.object.Close()
	}
	c.uid, c.object, c.lastAuth = uid, object, time.Now()
	log.Info().Int64("uid", uid).Str("db", c.db).Msg("odoo: sesión iniciada")
	return nil
}

func (c *Client) connection(ctx context.Context) (int64, *xmlrpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uid == 0 || c.object == nil || time.Since(c.lastAuth) >= c.authTimeout {
		if err := c.authenticate(ctx); err != nil {
			return 0, nil, err
		}
	}
	return c.uid, c.object, nil
}

// execute llama execute_kw(db, uid, password, model, method, args, kwargs).
func (c *Client) execute(ctx context.Context, model, method string, args []any, kwargs map[string]any, reply any) error {
	uid, object, err := c.connection(ctx)
	if err != nil {
		return err
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	err = call(ctx, func() error {
		return object.Call("execute_kw", []any{c.db, uid, c.password, model, method, args, kwargs}, reply)
	})
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		log.Error().Err(err).Str("model", model).Str("method", method).Msg("odoo: execute_kw")
		return parseFault(err)
	}
	return nil
}

// call corre la llamada bloqueante y respeta la cancelación del contexto;
// kolo/xmlrpc no acepta context.
func call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// Close libera la conexión de /object.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.object == nil {
		return nil
	}
	err := c.object.Close()
	c.object, c.uid = nil, 0
	return err
}
