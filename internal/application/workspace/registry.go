package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

const (
	defaultIdleTimeout = 30 * time.Minute
	evictionSpec       = "@every 1m"
)

// Registry workspaces vivos indexados por usuario. Los que quedan inactivos más de
// IdleTimeout se cierran desde un job periódico.
type Registry struct {
	api   ports.WarehouseAPI
	prefs ports.PreferenceStore
	cfg   Config
	log   zerolog.Logger

	mu         sync.Mutex
	workspaces map[string]*Workspace

	cron *cron.Cron
}

// NewRegistry construye el registro; no arranca la limpieza hasta Start.
func NewRegistry(api ports.WarehouseAPI, prefs ports.PreferenceStore, cfg Config) *Registry {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Registry{
		api:        api,
		prefs:      prefs,
		cfg:        cfg,
		log:        cfg.Logger.With().Str("component", "workspaces").Logger(),
		workspaces: make(map[string]*Workspace),
	}
}

// Get devuelve el workspace del usuario, creándolo en el primer acceso. Las
// preferencias se leen solo al crearlo; si fallan se usan los defaults.
func (r *Registry) Get(ctx context.Context, access entity.AccessContext) (*Workspace, error) {
	key, err := userKey(access)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if w, ok := r.workspaces[key]; ok {
		r.mu.Unlock()
		w.setAccess(access)
		w.touch()
		return w, nil
	}
	r.mu.Unlock()

	prefs, err := r.prefs.Load(ctx, key)
	if err != nil {
		r.log.Warn().Err(err).Str("user", key).Msg("preferências indisponíveis, usando padrão")
		prefs = dto.Preferences{}
	}
	prefs = prefs.WithDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()
	// Otro request pudo crearlo mientras se leían las preferencias.
	if w, ok := r.workspaces[key]; ok {
		w.setAccess(access)
		w.touch()
		return w, nil
	}
	w := newWorkspace(key, access, prefs, r.api, r.prefs, r.cfg)
	r.workspaces[key] = w
	r.log.Debug().Str("user", key).Str("workspace", w.ID).Msg("workspace criado")
	return w, nil
}

// Acquire como Get pero marca el workspace en uso hasta llamar a release.
func (r *Registry) Acquire(ctx context.Context, access entity.AccessContext) (*Workspace, func(), error) {
	w, err := r.Get(ctx, access)
	if err != nil {
		return nil, func() {}, err
	}
	w.Acquire()
	return w, w.Release, nil
}

// Len cantidad de workspaces vivos.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// EvictIdle cierra los workspaces sin uso desde hace más de IdleTimeout.
func (r *Registry) EvictIdle() int {
	threshold := r.cfg.Now().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	var idle []*Workspace
	for key, w := range r.workspaces {
		if w.idleSince(threshold) {
			idle = append(idle, w)
			delete(r.workspaces, key)
		}
	}
	r.mu.Unlock()

	for _, w := range idle {
		w.Close()
		r.log.Info().Str("user", w.UserID).Str("workspace", w.ID).Msg("workspace inativo encerrado")
	}
	return len(idle)
}

// Start programa la limpieza periódica.
func (r *Registry) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(evictionSpec, func() { r.EvictIdle() }); err != nil {
		return err
	}
	r.mu.Lock()
	r.cron = c
	r.mu.Unlock()
	c.Start()
	return nil
}

// Stop detiene el job, espera al que esté en curso y cierra todos los workspaces.
func (r *Registry) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	all := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	for _, w := range all {
		w.Close()
	}
}
