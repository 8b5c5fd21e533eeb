// Package workspace mantiene en memoria, por usuario, los controladores de vista y los
// flujos modales del painel, con sus preferencias persistidas.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/application/analytics"
	"github.com/jhoicas/painel-almoxarifado/internal/application/demand"
	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/movement"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/stock"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

const prefsSaveTimeout = 5 * time.Second

// Workspace vistas y flujos de un usuario autenticado.
type Workspace struct {
	ID     string
	UserID string

	Stock        *stock.View
	Movements    *movement.ListView
	Transfer     *movement.TransferFlow
	Distribution *movement.DistributionFlow
	Demands      *demand.View

	store    ports.PreferenceStore
	log      zerolog.Logger
	now      func() time.Time
	timeout  time.Duration
	lastUsed atomic.Int64 // unix nano
	refs     atomic.Int32

	mu     sync.Mutex
	access entity.AccessContext
	prefs  dto.Preferences
	auth   string
}

func newWorkspace(userID string, access entity.AccessContext, prefs dto.Preferences, api ports.WarehouseAPI, store ports.PreferenceStore, cfg Config) *Workspace {
	w := &Workspace{
		ID:      uuid.NewString(),
		UserID:  userID,
		store:   store,
		access:  access,
		prefs:   prefs,
		now:     cfg.Now,
		timeout: cfg.Timeout,
	}
	w.touch()
	w.log = cfg.Logger.With().Str("workspace", w.ID).Str("user", userID).Logger()
	if b, ok := api.(ports.CredentialBinder); ok {
		api = b.WithCredentials(w.Authorization)
	}

	w.Stock = stock.New(api, stock.Options{
		PerPage:   prefs.PerPageEstoque,
		Policy:    cfg.Policy,
		Timeout:   cfg.Timeout,
		Location:  cfg.Location,
		Logger:    w.log,
		OnPerPage: func(n int) { w.savePrefs(func(p *dto.Preferences) { p.PerPageEstoque = n }) },
	})
	w.Movements = movement.NewListView(api, movement.ListOptions{
		PerPage:   prefs.MovsPerPage,
		Timeout:   cfg.Timeout,
		Location:  cfg.Location,
		Logger:    w.log,
		OnPerPage: func(n int) { w.savePrefs(func(p *dto.Preferences) { p.MovsPerPage = n }) },
	})
	flowOpts := movement.FlowOptions{
		Timeout:   cfg.Timeout,
		Logger:    w.log,
		OnSuccess: w.reloadMovements,
	}
	w.Transfer = movement.NewTransferFlow(api, flowOpts)
	w.Distribution = movement.NewDistributionFlow(api, flowOpts)
	w.Demands = demand.New(api, demand.Options{Timeout: cfg.Timeout, Location: cfg.Location, Logger: w.log})
	return w
}

// Access contexto de acceso vigente del usuario.
func (w *Workspace) Access() entity.AccessContext {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.access
}

// Authorize guarda el último header Authorization del usuario; lo usan los fetches
// que no nacen de un request (debounce, recarga tras un flujo).
func (w *Workspace) Authorize(header string) {
	if header == "" {
		return
	}
	w.mu.Lock()
	w.auth = header
	w.mu.Unlock()
}

// Authorization último header recibido.
func (w *Workspace) Authorization() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.auth
}

// Preferences preferencias actuales.
func (w *Workspace) Preferences() dto.Preferences {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.prefs
}

// UpdatePreferences reemplaza las preferencias y aplica los tamaños de página a las vistas.
func (w *Workspace) UpdatePreferences(ctx context.Context, p dto.Preferences) error {
	p = p.WithDefaults()
	w.mu.Lock()
	prev := w.prefs
	w.mu.Unlock()

	if p.PerPageEstoque != prev.PerPageEstoque {
		if err := w.Stock.SetPerPage(p.PerPageEstoque); err != nil {
			return err
		}
	}
	if p.MovsPerPage != prev.MovsPerPage {
		if _, err := w.Movements.SetPerPage(ctx, p.MovsPerPage); err != nil {
			return err
		}
	}

	w.mu.Lock()
	w.prefs = p
	w.mu.Unlock()
	if err := w.store.Save(ctx, w.UserID, p); err != nil {
		return fmt.Errorf("workspace: salvar preferências: %w", err)
	}
	return nil
}

// Acquire marca el workspace en uso; Release lo libera. Uno en uso nunca se desaloja.
func (w *Workspace) Acquire() {
	w.refs.Add(1)
	w.touch()
}

func (w *Workspace) Release() {
	w.refs.Add(-1)
	w.touch()
}

// Close cancela debounces y fetches en vuelo de todas las vistas.
func (w *Workspace) Close() {
	w.Stock.Close()
	w.Movements.Close()
	w.Transfer.Shutdown()
	w.Distribution.Shutdown()
	w.Demands.Close()
}

func (w *Workspace) touch() { w.lastUsed.Store(w.now().UnixNano()) }

func (w *Workspace) idleSince(t time.Time) bool {
	return w.refs.Load() <= 0 && w.lastUsed.Load() < t.UnixNano()
}

func (w *Workspace) setAccess(a entity.AccessContext) {
	w.mu.Lock()
	w.access = a
	w.mu.Unlock()
}

// reloadMovements recarga la lista en página 1 tras un envío exitoso de un flujo.
func (w *Workspace) reloadMovements() {
	ctx := context.Background()
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	w.Movements.Refresh(ctx, 1)
}

// savePrefs aplica fn y persiste; un fallo de escritura solo se registra.
func (w *Workspace) savePrefs(fn func(*dto.Preferences)) {
	w.mu.Lock()
	fn(&w.prefs)
	p := w.prefs
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), prefsSaveTimeout)
	defer cancel()
	if err := w.store.Save(ctx, w.UserID, p); err != nil {
		w.log.Warn().Err(err).Msg("preferências não salvas")
	}
}

// Config parámetros compartidos por todos los workspaces.
type Config struct {
	Policy      analytics.UnknownLevelPolicy
	Timeout     time.Duration
	Location    *time.Location
	IdleTimeout time.Duration
	Now         func() time.Time
	Logger      zerolog.Logger
}

// userKey identifica al usuario del token; sin id ni nombre no hay workspace.
func userKey(a entity.AccessContext) (string, error) {
	if a.UserID != "" {
		return a.UserID, nil
	}
	if a.UserName != "" {
		return "name:" + a.UserName, nil
	}
	return "", domain.ErrUnauthorized
}
