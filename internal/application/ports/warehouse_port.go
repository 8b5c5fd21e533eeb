package ports

import (
	"context"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

// WarehouseAPI define el puerto de salida hacia el backend REST del almoxarifado.
// Los casos de uso y las vistas solo conocen este contrato; el adaptador HTTP
// normaliza identificadores, niveles y paginación antes de devolver entidades.
// Toda llamada respeta el deadline del contexto.
type WarehouseAPI interface {
	// Movimentações
	ListMovements(ctx context.Context, q dto.MovementQuery) (entity.Page[entity.Movement], error)
	Transfer(ctx context.Context, req dto.TransferRequest) error
	Distribute(ctx context.Context, req dto.DistributionRequest) error

	// Estoque
	ListStock(ctx context.Context, q dto.StockQuery) (entity.Page[entity.StockRecord], error)
	StockExportURL(q dto.StockQuery) string
	ListLocations(ctx context.Context) ([]entity.Location, error)
	ListLocationsByLevel(ctx context.Context, level hierarchy.Level) ([]entity.Location, error)

	// Setores
	ListSectors(ctx context.Context, perPage int) ([]entity.Location, error)
	GetSector(ctx context.Context, id string) (*entity.Sector, error)
	SectorDaySummary(ctx context.Context, sectorID, productID string) (*dto.DaySummaryDTO, error)
	RegisterConsumption(ctx context.Context, req dto.ConsumptionRequest) error

	// Productos
	ListProducts(ctx context.Context, q dto.ProductQuery) ([]entity.Product, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
	CreateProduct(ctx context.Context, p entity.NewProduct) (string, error)
	GenerateProductCode(ctx context.Context, req dto.GenerateCodeRequest) (string, error)
	ProductLots(ctx context.Context, productID string, q dto.LotQuery) ([]entity.Lot, error)
	ProductStock(ctx context.Context, productID string) ([]entity.ProductStockRow, error)
	ProductWarehouses(ctx context.Context, productID string) ([]entity.Location, error)
	ReceiveProduct(ctx context.Context, productID string, req dto.ReceiptRequest) error

	// Demandas
	ListDemands(ctx context.Context, status string, mine bool, perPage int) ([]entity.Demand, error)
	CreateDemand(ctx context.Context, req dto.NewDemandRequest) error
	ListDraft(ctx context.Context) ([]entity.DraftDemandItem, error)
	AddDraftItem(ctx context.Context, req dto.DraftItemRequest) error
	RemoveDraftItem(ctx context.Context, id string) error
	ClearDraft(ctx context.Context) error
	FinalizeDraft(ctx context.Context, req dto.FinalizeDraftRequest) error

	// Admin
	ListBackups(ctx context.Context) ([]dto.BackupFile, error)
	CreateBackup(ctx context.Context) (string, error)
	RestoreBackup(ctx context.Context, req dto.BackupRestoreRequest) error
	SaveBackupSchedule(ctx context.Context, req dto.BackupScheduleRequest) error
	Archive(ctx context.Context, req dto.ArchiveRequest) (int, error)
	ResetDatabase(ctx context.Context, req dto.ResetRequest) error
}

// LotFanOut recorrido acotado de lotes por producto (widget de vencimientos).
type LotFanOut interface {
	LotsForProducts(ctx context.Context, products []entity.Product) ([]entity.Lot, error)
}

// CredentialBinder lo implementa un adaptador capaz de tomar las credenciales de una
// función cuando el contexto no las trae (fetches disparados por debounce).
type CredentialBinder interface {
	WithCredentials(fn func() string) WarehouseAPI
}
