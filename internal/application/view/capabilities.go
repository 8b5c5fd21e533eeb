package view

import "github.com/jhoicas/painel-almoxarifado/internal/domain/entity"

// Capability id de widget/vista con la lista de niveles que pueden verlo.
type Capability struct {
	ID      string
	Allowed []entity.AccessLevel
}

// Capabilities registro declarativo; conserva el orden de registro.
type Capabilities struct {
	order   []string
	allowed map[string]map[entity.AccessLevel]struct{}
}

// NewCapabilities construye el registro.
func NewCapabilities(caps ...Capability) *Capabilities {
	c := &Capabilities{allowed: make(map[string]map[entity.AccessLevel]struct{}, len(caps))}
	for _, cp := range caps {
		if _, dup := c.allowed[cp.ID]; !dup {
			c.order = append(c.order, cp.ID)
			c.allowed[cp.ID] = make(map[entity.AccessLevel]struct{}, len(cp.Allowed))
		}
		for _, l := range cp.Allowed {
			c.allowed[cp.ID][l] = struct{}{}
		}
	}
	return c
}

// Allows indica si level puede ver id. Un id no registrado no es visible para nadie.
func (c *Capabilities) Allows(id string, level entity.AccessLevel) bool {
	set, ok := c.allowed[id]
	if !ok {
		return false
	}
	_, ok = set[level]
	return ok
}

// Visible ids visibles para level, en orden de registro.
func (c *Capabilities) Visible(level entity.AccessLevel) []string {
	out := make([]string, 0, len(c.order))
	for _, id := range c.order {
		if c.Allows(id, level) {
			out = append(out, id)
		}
	}
	return out
}
