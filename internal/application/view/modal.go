package view

import "sync"

// Modal adaptador de visibilidad de un diálogo. Los flujos solo hablan con esta
// interfaz; quien renderiza decide cómo mostrarlo.
type Modal interface {
	Show()
	Hide()
	OnShown(fn func())
	OnHidden(fn func())
}

// StateModal implementación con visibilidad explícita en memoria.
type StateModal struct {
	mu       sync.Mutex
	visible  bool
	onShown  []func()
	onHidden []func()
}

// NewStateModal crea un modal oculto.
func NewStateModal() *StateModal { return &StateModal{} }

func (m *StateModal) Show() {
	m.mu.Lock()
	if m.visible {
		m.mu.Unlock()
		return
	}
	m.visible = true
	cbs := append([]func(){}, m.onShown...)
	m.mu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}

func (m *StateModal) Hide() {
	m.mu.Lock()
	if !m.visible {
		m.mu.Unlock()
		return
	}
	m.visible = false
	cbs := append([]func(){}, m.onHidden...)
	m.mu.Unlock()
	for _, fn := range cbs {
		fn()
	}
}

func (m *StateModal) OnShown(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onShown = append(m.onShown, fn)
}

func (m *StateModal) OnHidden(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onHidden = append(m.onHidden, fn)
}

// Visible indica si el modal está abierto.
func (m *StateModal) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}
