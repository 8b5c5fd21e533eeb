package view

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/domain"
)

// Snapshot estado observable de un Loader.
type Snapshot[T any] struct {
	State      State     `json:"state"`
	Data       T         `json:"data"`
	Error      string    `json:"error,omitempty"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LoaderOptions configuración de un Loader.
type LoaderOptions[T any] struct {
	Timeout  time.Duration // 0 = sin límite propio (solo el del contexto)
	Fallback string        // mensaje si el error no trae uno del servidor
	IsEmpty  func(T) bool  // nil = nunca vacío
	Logger   zerolog.Logger
	Name     string
}

// Loader ejecuta fetches etiquetados con un token de generación monótono.
// Solo el resultado del último fetch emitido se aplica; los anteriores se descartan.
type Loader[T any] struct {
	mu        sync.Mutex
	opts      LoaderOptions[T]
	gen       uint64
	cancel    context.CancelFunc
	snap      Snapshot[T]
	prevState State
}

// NewLoader crea un loader en estado loading (aún sin datos).
func NewLoader[T any](opts LoaderOptions[T]) *Loader[T] {
	if opts.Fallback == "" {
		opts.Fallback = DefaultFallback
	}
	return &Loader[T]{opts: opts, snap: Snapshot[T]{State: Loading}, prevState: Loading}
}

// Load cancela el fetch en vuelo, ejecuta fetch con timeout y aplica el resultado
// si sigue siendo el más reciente. Devuelve el snapshot vigente y si este fetch se aplicó.
func (l *Loader[T]) Load(ctx context.Context, fetch func(ctx context.Context) (T, error)) (Snapshot[T], bool) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	token := l.gen
	var fctx context.Context
	var cancel context.CancelFunc
	if l.opts.Timeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, l.opts.Timeout)
	} else {
		fctx, cancel = context.WithCancel(ctx)
	}
	l.cancel = cancel
	if l.snap.State != Loading {
		l.prevState = l.snap.State
	}
	l.snap.State = Loading
	l.snap.Generation = token
	l.mu.Unlock()

	data, err := fetch(fctx)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	if token != l.gen {
		l.opts.Logger.Debug().Str("view", l.opts.Name).Uint64("token", token).Uint64("latest", l.gen).Msg("respuesta obsoleta descartada")
		return l.snap, false
	}
	l.cancel = nil
	l.snap.UpdatedAt = time.Now()
	var zero T
	switch {
	case err != nil:
		l.snap.State = Error
		l.snap.Data = zero
		l.snap.Error = domain.UserMessage(err, l.opts.Fallback)
	case l.opts.IsEmpty != nil && l.opts.IsEmpty(data):
		l.snap.State = Empty
		l.snap.Data = data
		l.snap.Error = ""
	default:
		l.snap.State = Populated
		l.snap.Data = data
		l.snap.Error = ""
	}
	return l.snap, true
}

// Cancel aborta el fetch en vuelo; su resultado ya no se aplicará.
func (l *Loader[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel == nil {
		return
	}
	l.cancel()
	l.cancel = nil
	l.gen++
	if l.snap.State == Loading {
		l.snap.State = l.prevState
	}
}

// Snapshot devuelve una copia del estado actual.
func (l *Loader[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// Update modifica los datos aplicados (p. ej. "carregar mais") sin pasar por un fetch.
func (l *Loader[T]) Update(fn func(T) T) Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap.Data = fn(l.snap.Data)
	if l.opts.IsEmpty != nil && l.opts.IsEmpty(l.snap.Data) {
		l.snap.State = Empty
	} else if l.snap.State != Error {
		l.snap.State = Populated
	}
	return l.snap
}
