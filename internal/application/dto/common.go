package dto

// PageRequest paginación para listados (page empieza en 1).
type PageRequest struct {
	Page    int `query:"page" json:"page"`
	PerPage int `query:"per_page" json:"per_page"`
}

// DefaultPage aplica valores por defecto si Page/PerPage son cero.
func (p *PageRequest) DefaultPage() {
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
	if p.Page < 1 {
		p.Page = 1
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	PerPage int  `json:"per_page"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
