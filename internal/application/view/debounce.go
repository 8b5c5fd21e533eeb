package view

import (
	"sync"
	"time"
)

// Debouncer cancela y reprograma en cada disparo; solo el último de una ráfaga se ejecuta.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

// NewDebouncer crea un debouncer con la ventana indicada.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger programa fn tras la ventana, descartando cualquier disparo pendiente.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	mine := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if mine != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
}

// Stop descarta el disparo pendiente, si lo hay.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending indica si hay un disparo programado.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
