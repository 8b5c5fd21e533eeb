package operator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/operator"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports/portsmock"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newService(api *portsmock.Warehouse) *operator.Service {
	return operator.NewService(api, operator.Options{Location: time.UTC, Now: func() time.Time { return now }})
}

func day(offset int) *time.Time {
	t := now.AddDate(0, 0, offset)
	return &t
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

var operatorAccess = entity.AccessContext{Level: entity.LevelOperadorSetor, SectorID: "7"}

// ── Estoque no setor ──────────────────────────────────────────────────────────

func TestStockCard_FilaDelSetorYReservado(t *testing.T) {
	updated := time.Date(2024, 6, 9, 8, 15, 0, 0, time.UTC)
	api := &portsmock.Warehouse{
		ProductStockFn: func(context.Context, string) ([]entity.ProductStockRow, error) {
			return []entity.ProductStockRow{
				{LocationType: hierarchy.Almoxarifado, LocationID: "7", Quantity: dec(500), QuantityAvailable: dec(500)},
				{LocationType: hierarchy.Setor, LocationID: "64b7", Quantity: dec(12), QuantityAvailable: dec(9), LastUpdated: &updated},
			}, nil
		},
		GetSectorFn: func(context.Context, string) (*entity.Sector, error) {
			return &entity.Sector{ID: "64b7", Name: "UTI"}, nil
		},
	}
	card := newService(api).StockCard(context.Background(), "7", "p1", "cx")

	assert.True(t, card.Total.Equal(dec(12)))
	assert.True(t, card.Available.Equal(dec(9)))
	assert.True(t, card.Reserved.Equal(dec(3)))
	assert.Equal(t, "09/06/2024 08:15", card.UpdatedAt)
	assert.Equal(t, "cx", card.Unit)
}

func TestStockCard_ReservadoNuncaNegativo(t *testing.T) {
	api := &portsmock.Warehouse{
		ProductStockFn: func(context.Context, string) ([]entity.ProductStockRow, error) {
			return []entity.ProductStockRow{{LocationType: hierarchy.Setor, LocationID: "7", Quantity: dec(2), QuantityAvailable: dec(5)}}, nil
		},
	}
	card := newService(api).StockCard(context.Background(), "7", "p1", "")
	assert.True(t, card.Reserved.IsZero())
	assert.Equal(t, "-", card.UpdatedAt)
}

func TestStockCard_SinFilaQuedaEnCero(t *testing.T) {
	api := &portsmock.Warehouse{
		ProductStockFn: func(context.Context, string) ([]entity.ProductStockRow, error) {
			return nil, domain.ErrTransport
		},
	}
	card := newService(api).StockCard(context.Background(), "7", "p1", "un")
	assert.True(t, card.Total.IsZero())
	assert.Equal(t, "", card.UpdatedAt)
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

type lotCalls struct {
	mu sync.Mutex
	q  []dto.LotQuery
}

func (l *lotCalls) add(q dto.LotQuery) {
	l.mu.Lock()
	l.q = append(l.q, q)
	l.mu.Unlock()
}

func TestLots_CadenaDeRespaldo(t *testing.T) {
	calls := &lotCalls{}
	api := &portsmock.Warehouse{
		GetSectorFn: func(context.Context, string) (*entity.Sector, error) {
			return &entity.Sector{ID: "7", CentralIDs: []string{"c1"}, AlmoxarifadoIDs: []string{"a1", "a2"}, SubAlmoxarifadoIDs: []string{"s1"}}, nil
		},
		ProductLotsFn: func(_ context.Context, _ string, q dto.LotQuery) ([]entity.Lot, error) {
			calls.add(q)
			if q.LocationType == "almoxarifado" && q.LocationID == "a2" {
				return []entity.Lot{{LotNumber: "L1", ExpiryDate: day(5)}}, nil
			}
			if q.LocationID == "a1" {
				return nil, errors.New("boom")
			}
			return nil, nil
		},
	}
	lots := newService(api).Lots(context.Background(), "7", "p1")

	assert.Equal(t, "almoxarifado", lots.Origin)
	require.Len(t, lots.Rows, 1)
	assert.Equal(t, dto.LotRowDTO{Number: "L1", Expiry: "15/06/2024", Status: "Vence em 5 dias"}, lots.Rows[0])
	assert.Equal(t, []dto.LotQuery{
		{LocationType: "setor", LocationID: "7"},
		{LocationType: "central", LocationID: "c1"},
		{LocationType: "almoxarifado", LocationID: "a1"},
		{LocationType: "almoxarifado", LocationID: "a2"},
	}, calls.q)
}

func TestLots_TodoElProductoComoUltimoRecurso(t *testing.T) {
	api := &portsmock.Warehouse{
		GetSectorFn: func(context.Context, string) (*entity.Sector, error) { return nil, domain.ErrTransport },
		ProductLotsFn: func(_ context.Context, _ string, q dto.LotQuery) ([]entity.Lot, error) {
			if q.LocationType == "" {
				return []entity.Lot{{LotNumber: "G1"}, {ExpiryDate: day(-1)}, {LotNumber: "G3", ExpiryDate: day(60)}}, nil
			}
			return nil, nil
		},
	}
	lots := newService(api).Lots(context.Background(), "7", "p1")

	assert.Equal(t, operator.LotsFromProduct, lots.Origin)
	require.Len(t, lots.Rows, 3)
	assert.Equal(t, dto.LotRowDTO{Number: "G1", Expiry: "-", Status: "-"}, lots.Rows[0])
	assert.Equal(t, "-", lots.Rows[1].Number)
	assert.Equal(t, "Vencido", lots.Rows[1].Status)
	assert.Equal(t, "Válido", lots.Rows[2].Status)
}

func TestLots_SinLotes(t *testing.T) {
	lots := newService(&portsmock.Warehouse{}).Lots(context.Background(), "7", "p1")
	assert.Empty(t, lots.Rows)
	assert.Equal(t, "Sem lotes cadastrados.", lots.EmptyText)

	lots = newService(&portsmock.Warehouse{}).Lots(context.Background(), "", "p1")
	assert.Equal(t, "Sem lotes cadastrados.", lots.EmptyText)
}

// ── Panel y consumo ───────────────────────────────────────────────────────────

func TestPanel_PartesIndependientes(t *testing.T) {
	api := &portsmock.Warehouse{
		GetSectorFn: func(context.Context, string) (*entity.Sector, error) {
			return &entity.Sector{ID: "7", Name: "Centro Cirúrgico"}, nil
		},
		SectorDaySummaryFn: func(context.Context, string, string) (*dto.DaySummaryDTO, error) {
			return nil, domain.ErrTransport
		},
		ProductStockFn: func(context.Context, string) ([]entity.ProductStockRow, error) {
			return []entity.ProductStockRow{{LocationType: hierarchy.Setor, LocationID: "7", Quantity: dec(4), QuantityAvailable: dec(4)}}, nil
		},
	}
	p, err := newService(api).Panel(context.Background(), operatorAccess, `"p1"`, "un")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ProductID)
	assert.Equal(t, "Centro Cirúrgico", p.SectorName)
	assert.True(t, p.Stock.Total.Equal(dec(4)))
	assert.True(t, p.Day.UsedToday.IsZero())

	_, err = newService(api).Panel(context.Background(), operatorAccess, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSectorName(t *testing.T) {
	s := newService(&portsmock.Warehouse{
		GetSectorFn: func(context.Context, string) (*entity.Sector, error) { return nil, domain.ErrTransport },
	})
	assert.Equal(t, "-", s.SectorName(context.Background(), entity.AccessContext{}))
	assert.Equal(t, "7", s.SectorName(context.Background(), operatorAccess))
}

func TestRegisterConsumption(t *testing.T) {
	var got dto.ConsumptionRequest
	api := &portsmock.Warehouse{
		RegisterConsumptionFn: func(_ context.Context, req dto.ConsumptionRequest) error {
			got = req
			return nil
		},
	}
	s := newService(api)

	err := s.RegisterConsumption(context.Background(), operatorAccess, "p1", "0")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Informe uma quantidade maior que zero.", operator.ConsumptionMessage(err))

	err = s.RegisterConsumption(context.Background(), operatorAccess, "", "2")
	assert.Equal(t, "Selecione um produto primeiro.", operator.ConsumptionMessage(err))
	assert.Zero(t, api.Count("RegisterConsumption"))

	require.NoError(t, s.RegisterConsumption(context.Background(), operatorAccess, "p1", "1,5"))
	assert.Equal(t, "p1", got.ProdutoID)
	assert.True(t, got.SaidaDia.Equal(decimal.NewFromFloat(1.5)))
	assert.Equal(t, "Consumo registrado.", operator.ConsumptionMessage(nil))

	api.RegisterConsumptionFn = func(context.Context, dto.ConsumptionRequest) error { return domain.ErrTransport }
	err = s.RegisterConsumption(context.Background(), operatorAccess, "p1", "1")
	assert.Equal(t, "Erro ao registrar consumo.", operator.ConsumptionMessage(err))
}
