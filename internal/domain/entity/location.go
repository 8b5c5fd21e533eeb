package entity

import "github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"

// Location local de la jerarquía (central, almoxarifado, sub-almoxarifado o setor).
type Location struct {
	ID        string
	Name      string
	Level     hierarchy.Level
	CentralID string
}

// Sector setor con sus ancestros en la jerarquía (GET /setores/{id}).
type Sector struct {
	ID                 string
	Name               string
	CentralIDs         []string
	AlmoxarifadoIDs    []string
	SubAlmoxarifadoIDs []string
}
