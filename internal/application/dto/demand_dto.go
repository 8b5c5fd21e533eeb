package dto

// DemandRowDTO una demanda lista para las tablas "Minhas" y de gerência.
type DemandRowDTO struct {
	ID              string `json:"id"`
	DisplayID       string `json:"display_id"`
	ProductName     string `json:"produto_nome"`
	SectorName      string `json:"setor_nome"`
	Quantity        string `json:"quantidade"` // sin decimales, con unidad salvo en grupos
	DestinationType string `json:"destino_tipo"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	IsGroup         bool   `json:"grupo"`
}

// DraftItemDTO ítem del carrito de demanda.
type DraftItemDTO struct {
	ID          string `json:"id"`
	ProductName string `json:"produto_nome"`
	Quantity    string `json:"quantidade"`
	Note        string `json:"observacao"`
}
