package dto

import "github.com/shopspring/decimal"

// ── Consultas al backend ──────────────────────────────────────────────────────

// MovementQuery parámetros de GET /api/movimentacoes.
type MovementQuery struct {
	PageRequest
	Tipo       string `json:"tipo"`
	Produto    string `json:"produto"`
	DataInicio string `json:"data_inicio"` // YYYY-MM-DD
	DataFim    string `json:"data_fim"`    // YYYY-MM-DD
	Ordem      string `json:"ordem"`       // desc|asc
}

// StockQuery parámetros de GET /api/estoque/hierarquia (y de su export).
type StockQuery struct {
	PageRequest
	Produto string `json:"produto"`
	Tipo    string `json:"tipo"`
	Status  string `json:"status"`
	Local   string `json:"local"`
}

// ProductQuery parámetros de GET /api/produtos.
type ProductQuery struct {
	Search  string
	PerPage int
	Active  *bool
}

// LotQuery filtro opcional de lotes por local.
type LotQuery struct {
	LocationType string
	LocationID   string
}

// ── Escrituras ────────────────────────────────────────────────────────────────

// LocationRefDTO par tipo/id como lo espera el backend.
type LocationRefDTO struct {
	Tipo string `json:"tipo"`
	ID   string `json:"id"`
}

// TransferRequest cuerpo de POST /api/movimentacoes/transferencia.
type TransferRequest struct {
	ProdutoID   string          `json:"produto_id"`
	Quantidade  decimal.Decimal `json:"quantidade"`
	Origem      LocationRefDTO  `json:"origem"`
	Destino     LocationRefDTO  `json:"destino"`
	Motivo      *string         `json:"motivo"`
	Observacoes *string         `json:"observacoes"`
}

// DistributionTarget un setor destino con su cantidad.
type DistributionTarget struct {
	ID         string          `json:"id"`
	Quantidade decimal.Decimal `json:"quantidade"`
}

// DistributionRequest cuerpo de POST /api/movimentacoes/distribuicao.
type DistributionRequest struct {
	ProdutoID   string               `json:"produto_id"`
	Origem      LocationRefDTO       `json:"origem"`
	Destinos    []DistributionTarget `json:"destinos"`
	Motivo      *string              `json:"motivo"`
	Observacoes *string              `json:"observacoes"`
}

// NewDemandRequest cuerpo de POST /api/demandas.
type NewDemandRequest struct {
	ProdutoID   string          `json:"produto_id"`
	Quantidade  decimal.Decimal `json:"quantidade"`
	DestinoTipo string          `json:"destino_tipo"`
	Observacoes string          `json:"observacoes"`
}

// DraftItemRequest cuerpo de POST /api/demandas/lista.
type DraftItemRequest struct {
	ProdutoID  string          `json:"produto_id"`
	Quantidade decimal.Decimal `json:"quantidade"`
	Observacao string          `json:"observacao"`
}

// FinalizeDraftRequest cuerpo de POST /api/demandas/finalizar.
type FinalizeDraftRequest struct {
	DestinoTipo string `json:"destino_tipo"`
}

// GenerateCodeRequest cuerpo de POST /api/produtos/gerar-codigo.
type GenerateCodeRequest struct {
	CentralID   string `json:"central_id"`
	CategoriaID string `json:"categoria_id"`
}

// ReceiptRequest cuerpo de POST /api/produtos/{id}/recebimento.
type ReceiptRequest struct {
	ProdutoID       string           `json:"produto_id"`
	Quantidade      decimal.Decimal  `json:"quantidade"`
	PrecoUnitario   *decimal.Decimal `json:"preco_unitario"`
	Lote            *string          `json:"lote"`
	Fornecedor      *string          `json:"fornecedor"`
	DataFabricacao  *string          `json:"data_fabricacao"`
	DataVencimento  *string          `json:"data_vencimento"`
	NotaFiscal      *string          `json:"nota_fiscal"`
	Observacoes     *string          `json:"observacoes"`
	DataRecebimento string           `json:"data_recebimento"`
	AlmoxarifadoID  any              `json:"almoxarifado_id"` // número cuando el id es numérico
}

// ConsumptionRequest cuerpo de POST /api/setor/registro.
type ConsumptionRequest struct {
	ProdutoID string          `json:"produto_id"`
	SaidaDia  decimal.Decimal `json:"saida_dia"`
}

// ── Admin ─────────────────────────────────────────────────────────────────────

// BackupFile entrada de GET /api/admin/backup/list.
type BackupFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// BackupRestoreRequest cuerpo de POST /api/admin/backup/restore.
type BackupRestoreRequest struct {
	File string `json:"file"`
	Mode string `json:"mode"`
}

// BackupScheduleRequest cuerpo de POST /api/admin/backup/schedule.
type BackupScheduleRequest struct {
	Enabled   bool   `json:"enabled"`
	Interval  string `json:"interval"`
	Time      string `json:"time"`
	Retention int    `json:"retention"`
}

// ArchiveRequest cuerpo de POST /api/admin/archive.
type ArchiveRequest struct {
	Collection string         `json:"collection"`
	Query      map[string]any `json:"query"`
}

// ResetRequest cuerpo de POST /api/admin/reset-db.
type ResetRequest struct {
	PreserveAdmin bool `json:"preserve_admin"`
}

// ── Respuestas puntuales ──────────────────────────────────────────────────────

// DaySummaryDTO resumen del día de un producto en un setor.
type DaySummaryDTO struct {
	ReceivedFromAlmox decimal.Decimal `json:"recebido_almoxarifado"`
	ReceivedFromSub   decimal.Decimal `json:"recebido_sub_almoxarifado"`
	UsedToday         decimal.Decimal `json:"usado_hoje"`
	Available         decimal.Decimal `json:"disponivel"`
}

// ── Filas de vista ────────────────────────────────────────────────────────────

// StockRowDTO un registro de estoque listo para la tabla detallada.
type StockRowDTO struct {
	ProductID         string          `json:"produto_id"`
	ProductName       string          `json:"produto_nome"`
	ProductCode       string          `json:"produto_codigo"`
	Unit              string          `json:"unidade_medida"`
	LocationType      string          `json:"local_tipo"`
	LocationTypeLabel string          `json:"local_tipo_label"`
	LocationID        string          `json:"local_id"`
	LocationName      string          `json:"local_nome"`
	Quantity          decimal.Decimal `json:"quantidade"`
	Available         decimal.Decimal `json:"quantidade_disponivel"`
	Initial           decimal.Decimal `json:"quantidade_inicial"`
	Status            string          `json:"status"`
	LastUpdated       string          `json:"data_atualizacao"` // DD/MM/YYYY HH:MM o "-"
}

// MovementRowDTO una fila de la lista de movimentações.
type MovementRowDTO struct {
	ID          string `json:"id"`
	Date        string `json:"data"` // DD/MM/YYYY HH:MM o "-"
	Type        string `json:"tipo"`
	TypeLabel   string `json:"tipo_label"`
	TypeIcon    string `json:"tipo_icon"`
	ProductName string `json:"produto_nome"`
	Quantity    string `json:"quantidade"`
	Locations   string `json:"locais"` // "origen → destino"
	User        string `json:"usuario"`
	Reason      string `json:"motivo"`
}

// Preferences preferencias persistidas por usuario.
type Preferences struct {
	PerPageEstoque int  `json:"per_page_estoque" mapstructure:"per_page_estoque"`
	MovsPerPage    int  `json:"movs.per_page" mapstructure:"movs_per_page"`
	DarkMode       bool `json:"dark_mode" mapstructure:"dark_mode"`
}

// WithDefaults completa tamaños de página ausentes con 20.
func (p Preferences) WithDefaults() Preferences {
	if p.PerPageEstoque <= 0 {
		p.PerPageEstoque = 20
	}
	if p.MovsPerPage <= 0 {
		p.MovsPerPage = 20
	}
	return p
}
