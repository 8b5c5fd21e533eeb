package entity

// Product producto del catálogo tal como lo lista /produtos.
type Product struct {
	ID          string
	Code        string
	Name        string
	Description string
	Unit        string
	CategoryID  string
	CentralID   string
	Active      bool
}

// NewProduct datos para el cadastro de un producto.
type NewProduct struct {
	CentralID   string  `json:"central_id"`
	Code        string  `json:"codigo"`
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	ExtraNote   *string `json:"observacao_extra"`
	CategoryID  string  `json:"categoria_id"`
	Unit        string  `json:"unidade_medida"`
	Active      bool    `json:"ativo"`
}

// Category categoría de productos (usada para generar códigos).
type Category struct {
	ID   string
	Code string
	Name string
}
