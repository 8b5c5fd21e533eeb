package entity

// Pagination forma única de paginación; el backend usa page|current_page, pages|total_pages
// y total|total_items según el endpoint.
type Pagination struct {
	Page    int
	Pages   int
	Total   int
	PerPage int
	HasNext bool
	HasPrev bool
}

// Page página de resultados con su paginación normalizada.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}
