package almoxapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

// wirePagination cubre las dos formas que usa el backend:
// {page, pages, total} y {current_page, total_pages, total_items}.
type wirePagination struct {
	Page        flexInt  `json:"page"`
	CurrentPage flexInt  `json:"current_page"`
	Pages       flexInt  `json:"pages"`
	TotalPages  flexInt  `json:"total_pages"`
	Total       flexInt  `json:"total"`
	TotalItems  flexInt  `json:"total_items"`
	PerPage     flexInt  `json:"per_page"`
	HasNext     flexBool `json:"has_next"`
	HasPrev     flexBool `json:"has_prev"`
}

func pick(vals ...flexInt) (int, bool) {
	for _, v := range vals {
		if v.Set {
			return v.Value, true
		}
	}
	return 0, false
}

// normalize completa los campos ausentes con lo pedido y con el tamaño de la página recibida.
func (w wirePagination) normalize(requestedPage, requestedPerPage, itemCount int) entity.Pagination {
	p := entity.Pagination{}

	if v, ok := pick(w.Page, w.CurrentPage); ok {
		p.Page = v
	} else {
		p.Page = requestedPage
	}
	if p.Page < 1 {
		p.Page = 1
	}

	if v, ok := pick(w.PerPage); ok && v > 0 {
		p.PerPage = v
	} else if requestedPerPage > 0 {
		p.PerPage = requestedPerPage
	} else {
		p.PerPage = itemCount
	}

	if v, ok := pick(w.Total, w.TotalItems); ok {
		p.Total = v
	} else {
		p.Total = itemCount
	}

	if v, ok := pick(w.Pages, w.TotalPages); ok {
		p.Pages = v
	} else if p.PerPage > 0 {
		p.Pages = (p.Total + p.PerPage - 1) / p.PerPage
	}
	if p.Pages < 1 {
		p.Pages = 1
	}

	if w.HasNext.Set {
		p.HasNext = w.HasNext.Value
	} else {
		p.HasNext = p.Page < p.Pages
	}
	if w.HasPrev.Set {
		p.HasPrev = w.HasPrev.Value
	} else {
		p.HasPrev = p.Page > 1
	}
	return p
}

// NormalizePagination interpreta un cuerpo JSON con paginación anidada en "pagination"
// o en el nivel superior y la lleva a entity.Pagination.
func NormalizePagination(body []byte, requestedPage, requestedPerPage, itemCount int) (entity.Pagination, error) {
	var wp wirePagination
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return wp.normalize(requestedPage, requestedPerPage, itemCount), nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return entity.Pagination{}, fmt.Errorf("almoxapi: paginación: %w: %v", domain.ErrMalformedResponse, err)
	}
	src := trimmed
	if nested, ok := top["pagination"]; ok && len(bytes.TrimSpace(nested)) > 0 && bytes.TrimSpace(nested)[0] == '{' {
		src = nested
	}
	if err := json.Unmarshal(src, &wp); err != nil {
		return entity.Pagination{}, fmt.Errorf("almoxapi: paginación: %w: %v", domain.ErrMalformedResponse, err)
	}
	return wp.normalize(requestedPage, requestedPerPage, itemCount), nil
}

// decodeList extrae la lista bajo key (o el arreglo desnudo) hacia out.
// Una lista ausente o null queda vacía.
func decodeList[T any](body []byte, key string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	out := []T{}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}
	raw := json.RawMessage(trimmed)
	if trimmed[0] == '{' {
		var top map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &top); err != nil {
			return nil, fmt.Errorf("almoxapi: %w: %v", domain.ErrMalformedResponse, err)
		}
		v, ok := top[key]
		if !ok {
			return out, nil
		}
		raw = v
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("almoxapi: lista %q: %w: %v", key, domain.ErrMalformedResponse, err)
	}
	return out, nil
}
