// Package view contiene la maquinaria común de los controladores de vista del painel:
// la máquina de estados loading/error/empty/populated, el cargador con token de
// generación y timeout, el debounce de filtros, el adaptador de modal y el
// registro de capacidades por nivel de acceso.
package view

import "time"

// State uno de los cuatro estados de una vista.
type State string

const (
	Loading   State = "loading"
	Error     State = "error"
	Empty     State = "empty"
	Populated State = "populated"
)

// Ventanas de debounce por vista.
const (
	StockDebounce      = 200 * time.Millisecond
	MovementsDebounce  = 300 * time.Millisecond
	SuggestionDebounce = 250 * time.Millisecond
)

// DefaultFallback mensaje genérico cuando el backend no envía uno.
const DefaultFallback = "Erro ao carregar dados"
