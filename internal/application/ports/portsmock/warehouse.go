// Package portsmock implementa los puertos de aplicación con funciones
// reemplazables para las pruebas de los casos de uso y handlers.
package portsmock

import (
	"context"
	"sync"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

var (
	_ ports.WarehouseAPI = (*Warehouse)(nil)
	_ ports.LotFanOut    = (*Warehouse)(nil)
)

// Warehouse mock del backend. Un Fn nil devuelve valores cero sin error.
type Warehouse struct {
	mu    sync.Mutex
	calls []string

	ListMovementsFn        func(ctx context.Context, q dto.MovementQuery) (entity.Page[entity.Movement], error)
	TransferFn             func(ctx context.Context, req dto.TransferRequest) error
	DistributeFn           func(ctx context.Context, req dto.DistributionRequest) error
	ListStockFn            func(ctx context.Context, q dto.StockQuery) (entity.Page[entity.StockRecord], error)
	ListLocationsFn        func(ctx context.Context) ([]entity.Location, error)
	ListLocationsByLevelFn func(ctx context.Context, level hierarchy.Level) ([]entity.Location, error)
	ListSectorsFn          func(ctx context.Context, perPage int) ([]entity.Location, error)
	GetSectorFn            func(ctx context.Context, id string) (*entity.Sector, error)
	SectorDaySummaryFn     func(ctx context.Context, sectorID, productID string) (*dto.DaySummaryDTO, error)
	RegisterConsumptionFn  func(ctx context.Context, req dto.ConsumptionRequest) error
	ListProductsFn         func(ctx context.Context, q dto.ProductQuery) ([]entity.Product, error)
	ListCategoriesFn       func(ctx context.Context) ([]entity.Category, error)
	CreateProductFn        func(ctx context.Context, p entity.NewProduct) (string, error)
	GenerateProductCodeFn  func(ctx context.Context, req dto.GenerateCodeRequest) (string, error)
	ProductLotsFn          func(ctx context.Context, productID string, q dto.LotQuery) ([]entity.Lot, error)
	ProductStockFn         func(ctx context.Context, productID string) ([]entity.ProductStockRow, error)
	ProductWarehousesFn    func(ctx context.Context, productID string) ([]entity.Location, error)
	ReceiveProductFn       func(ctx context.Context, productID string, req dto.ReceiptRequest) error
	ListDemandsFn          func(ctx context.Context, status string, mine bool, perPage int) ([]entity.Demand, error)
	CreateDemandFn         func(ctx context.Context, req dto.NewDemandRequest) error
	ListDraftFn            func(ctx context.Context) ([]entity.DraftDemandItem, error)
	AddDraftItemFn         func(ctx context.Context, req dto.DraftItemRequest) error
	RemoveDraftItemFn      func(ctx context.Context, id string) error
	ClearDraftFn           func(ctx context.Context) error
	FinalizeDraftFn        func(ctx context.Context, req dto.FinalizeDraftRequest) error
	ListBackupsFn          func(ctx context.Context) ([]dto.BackupFile, error)
	CreateBackupFn         func(ctx context.Context) (string, error)
	RestoreBackupFn        func(ctx context.Context, req dto.BackupRestoreRequest) error
	SaveBackupScheduleFn   func(ctx context.Context, req dto.BackupScheduleRequest) error
	ArchiveFn              func(ctx context.Context, req dto.ArchiveRequest) (int, error)
	ResetDatabaseFn        func(ctx context.Context, req dto.ResetRequest) error
	LotsForProductsFn      func(ctx context.Context, products []entity.Product) ([]entity.Lot, error)
}

func (w *Warehouse) record(name string) {
	w.mu.Lock()
	w.calls = append(w.calls, name)
	w.mu.Unlock()
}

// Calls nombres de los métodos invocados, en orden.
func (w *Warehouse) Calls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.calls...)
}

// Count veces que se invocó name.
func (w *Warehouse) Count(name string) int {
	n := 0
	for _, c := range w.Calls() {
		if c == name {
			n++
		}
	}
	return n
}

func (w *Warehouse) ListMovements(ctx context.Context, q dto.MovementQuery) (entity.Page[entity.Movement], error) {
	w.record("ListMovements")
	if w.ListMovementsFn == nil {
		return entity.Page[entity.Movement]{}, nil
	}
	return w.ListMovementsFn(ctx, q)
}

func (w *Warehouse) Transfer(ctx context.Context, req dto.TransferRequest) error {
	w.record("Transfer")
	if w.TransferFn == nil {
		return nil
	}
	return w.TransferFn(ctx, req)
}

func (w *Warehouse) Distribute(ctx context.Context, req dto.DistributionRequest) error {
	w.record("Distribute")
	if w.DistributeFn == nil {
		return nil
	}
	return w.DistributeFn(ctx, req)
}

func (w *Warehouse) ListStock(ctx context.Context, q dto.StockQuery) (entity.Page[entity.StockRecord], error) {
	w.record("ListStock")
	if w.ListStockFn == nil {
		return entity.Page[entity.StockRecord]{}, nil
	}
	return w.ListStockFn(ctx, q)
}

func (w *Warehouse) StockExportURL(q dto.StockQuery) string {
	w.record("StockExportURL")
	return "/api/estoque/hierarquia/export?produto=" + q.Produto
}

func (w *Warehouse) ListLocations(ctx context.Context) ([]entity.Location, error) {
	w.record("ListLocations")
	if w.ListLocationsFn == nil {
		return nil, nil
	}
	return w.ListLocationsFn(ctx)
}

func (w *Warehouse) ListLocationsByLevel(ctx context.Context, level hierarchy.Level) ([]entity.Location, error) {
	w.record("ListLocationsByLevel")
	if w.ListLocationsByLevelFn == nil {
		return nil, nil
	}
	return w.ListLocationsByLevelFn(ctx, level)
}

func (w *Warehouse) ListSectors(ctx context.Context, perPage int) ([]entity.Location, error) {
	w.record("ListSectors")
	if w.ListSectorsFn == nil {
		return nil, nil
	}
	return w.ListSectorsFn(ctx, perPage)
}

func (w *Warehouse) GetSector(ctx context.Context, id string) (*entity.Sector, error) {
	w.record("GetSector")
	if w.GetSectorFn == nil {
		return &entity.Sector{ID: id}, nil
	}
	return w.GetSectorFn(ctx, id)
}

func (w *Warehouse) SectorDaySummary(ctx context.Context, sectorID, productID string) (*dto.DaySummaryDTO, error) {
	w.record("SectorDaySummary")
	if w.SectorDaySummaryFn == nil {
		return &dto.DaySummaryDTO{}, nil
	}
	return w.SectorDaySummaryFn(ctx, sectorID, productID)
}

func (w *Warehouse) RegisterConsumption(ctx context.Context, req dto.ConsumptionRequest) error {
	w.record("RegisterConsumption")
	if w.RegisterConsumptionFn == nil {
		return nil
	}
	return w.RegisterConsumptionFn(ctx, req)
}

func (w *Warehouse) ListProducts(ctx context.Context, q dto.ProductQuery) ([]entity.Product, error) {
	w.record("ListProducts")
	if w.ListProductsFn == nil {
		return nil, nil
	}
	return w.ListProductsFn(ctx, q)
}

func (w *Warehouse) ListCategories(ctx context.Context) ([]entity.Category, error) {
	w.record("ListCategories")
	if w.ListCategoriesFn == nil {
		return nil, nil
	}
	return w.ListCategoriesFn(ctx)
}

func (w *Warehouse) CreateProduct(ctx context.Context, p entity.NewProduct) (string, error) {
	w.record("CreateProduct")
	if w.CreateProductFn == nil {
		return "", nil
	}
	return w.CreateProductFn(ctx, p)
}

func (w *Warehouse) GenerateProductCode(ctx context.Context, req dto.GenerateCodeRequest) (string, error) {
	w.record("GenerateProductCode")
	if w.GenerateProductCodeFn == nil {
		return "", nil
	}
	return w.GenerateProductCodeFn(ctx, req)
}

func (w *Warehouse) ProductLots(ctx context.Context, productID string, q dto.LotQuery) ([]entity.Lot, error) {
	w.record("ProductLots")
	if w.ProductLotsFn == nil {
		return nil, nil
	}
	return w.ProductLotsFn(ctx, productID, q)
}

func (w *Warehouse) ProductStock(ctx context.Context, productID string) ([]entity.ProductStockRow, error) {
	w.record("ProductStock")
	if w.ProductStockFn == nil {
		return nil, nil
	}
	return w.ProductStockFn(ctx, productID)
}

func (w *Warehouse) ProductWarehouses(ctx context.Context, productID string) ([]entity.Location, error) {
	w.record("ProductWarehouses")
	if w.ProductWarehousesFn == nil {
		return nil, nil
	}
	return w.ProductWarehousesFn(ctx, productID)
}

func (w *Warehouse) ReceiveProduct(ctx context.Context, productID string, req dto.ReceiptRequest) error {
	w.record("ReceiveProduct")
	if w.ReceiveProductFn == nil {
		return nil
	}
	return w.ReceiveProductFn(ctx, productID, req)
}

func (w *Warehouse) ListDemands(ctx context.Context, status string, mine bool, perPage int) ([]entity.Demand, error) {
	w.record("ListDemands")
	if w.ListDemandsFn == nil {
		return nil, nil
	}
	return w.ListDemandsFn(ctx, status, mine, perPage)
}

func (w *Warehouse) CreateDemand(ctx context.Context, req dto.NewDemandRequest) error {
	w.record("CreateDemand")
	if w.CreateDemandFn == nil {
		return nil
	}
	return w.CreateDemandFn(ctx, req)
}

func (w *Warehouse) ListDraft(ctx context.Context) ([]entity.DraftDemandItem, error) {
	w.record("ListDraft")
	if w.ListDraftFn == nil {
		return nil, nil
	}
	return w.ListDraftFn(ctx)
}

func (w *Warehouse) AddDraftItem(ctx context.Context, req dto.DraftItemRequest) error {
	w.record("AddDraftItem")
	if w.AddDraftItemFn == nil {
		return nil
	}
	return w.AddDraftItemFn(ctx, req)
}

func (w *Warehouse) RemoveDraftItem(ctx context.Context, id string) error {
	w.record("RemoveDraftItem")
	if w.RemoveDraftItemFn == nil {
		return nil
	}
	return w.RemoveDraftItemFn(ctx, id)
}

func (w *Warehouse) ClearDraft(ctx context.Context) error {
	w.record("ClearDraft")
	if w.ClearDraftFn == nil {
		return nil
	}
	return w.ClearDraftFn(ctx)
}

func (w *Warehouse) FinalizeDraft(ctx context.Context, req dto.FinalizeDraftRequest) error {
	w.record("FinalizeDraft")
	if w.FinalizeDraftFn == nil {
		return nil
	}
	return w.FinalizeDraftFn(ctx, req)
}

func (w *Warehouse) ListBackups(ctx context.Context) ([]dto.BackupFile, error) {
	w.record("ListBackups")
	if w.ListBackupsFn == nil {
		return nil, nil
	}
	return w.ListBackupsFn(ctx)
}

func (w *Warehouse) CreateBackup(ctx context.Context) (string, error) {
	w.record("CreateBackup")
	if w.CreateBackupFn == nil {
		return "", nil
	}
	return w.CreateBackupFn(ctx)
}

func (w *Warehouse) RestoreBackup(ctx context.Context, req dto.BackupRestoreRequest) error {
	w.record("RestoreBackup")
	if w.RestoreBackupFn == nil {
		return nil
	}
	return w.RestoreBackupFn(ctx, req)
}

func (w *Warehouse) SaveBackupSchedule(ctx context.Context, req dto.BackupScheduleRequest) error {
	w.record("SaveBackupSchedule")
	if w.SaveBackupScheduleFn == nil {
		return nil
	}
	return w.SaveBackupScheduleFn(ctx, req)
}

func (w *Warehouse) Archive(ctx context.Context, req dto.ArchiveRequest) (int, error) {
	w.record("Archive")
	if w.ArchiveFn == nil {
		return 0, nil
	}
	return w.ArchiveFn(ctx, req)
}

func (w *Warehouse) ResetDatabase(ctx context.Context, req dto.ResetRequest) error {
	w.record("ResetDatabase")
	if w.ResetDatabaseFn == nil {
		return nil
	}
	return w.ResetDatabaseFn(ctx, req)
}

func (w *Warehouse) LotsForProducts(ctx context.Context, products []entity.Product) ([]entity.Lot, error) {
	w.record("LotsForProducts")
	if w.LotsForProductsFn == nil {
		return nil, nil
	}
	return w.LotsForProductsFn(ctx, products)
}
