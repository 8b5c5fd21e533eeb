package movement_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/movement"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports/portsmock"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
)

func flowAPI() *portsmock.Warehouse {
	return &portsmock.Warehouse{
		ListProductsFn: func(_ context.Context, q dto.ProductQuery) ([]entity.Product, error) {
			return []entity.Product{{ID: "p1", Code: "LUV-01", Name: "Luva " + q.Search}}, nil
		},
		ProductStockFn: func(context.Context, string) ([]entity.ProductStockRow, error) {
			return []entity.ProductStockRow{
				{LocationType: hierarchy.Almoxarifado, LocationID: "a1", LocationName: "Almox 1", QuantityAvailable: decimal.NewFromInt(40)},
				{LocationType: hierarchy.SubAlmoxarifado, LocationID: "s1", LocationName: "Sub 1", QuantityAvailable: decimal.NewFromInt(5)},
				{LocationType: hierarchy.Setor, LocationID: "st1", LocationName: "UTI", QuantityAvailable: decimal.NewFromInt(9)},
				{LocationType: hierarchy.Almoxarifado, LocationID: "a2", LocationName: "Almox 2", QuantityAvailable: decimal.Zero},
			}, nil
		},
		ListLocationsByLevelFn: func(_ context.Context, lvl hierarchy.Level) ([]entity.Location, error) {
			switch lvl {
			case hierarchy.Central:
				return []entity.Location{{ID: "c1", Name: "Central Norte"}, {ID: "c2", Name: "Central Sul"}}, nil
			case hierarchy.SubAlmoxarifado:
				return []entity.Location{
					{ID: "s1", Name: "Sub 1", CentralID: "c1"},
					{ID: "s2", Name: "Sub 2", CentralID: "c2"},
					{ID: "s3", Name: "Sub 3", CentralID: "c9"},
				}, nil
			}
			return []entity.Location{{ID: "a1", Name: "Almox 1", CentralID: "c1"}}, nil
		},
		ListSectorsFn: func(context.Context, int) ([]entity.Location, error) {
			return []entity.Location{{ID: "st1", Name: "UTI Adulto"}, {ID: "st2", Name: "Pronto Socorro"}}, nil
		},
	}
}

// ── Transferência ─────────────────────────────────────────────────────────────

func TestTransfer_OrigenesExcluyenSetorYSinSaldo(t *testing.T) {
	f := movement.NewTransferFlow(flowAPI(), movement.FlowOptions{})
	defer f.Shutdown()
	f.Open(context.Background())
	f.SelectProduct(context.Background(), "p1")

	st := f.State()
	require.Len(t, st.Origins, 2)
	assert.Equal(t, "a1", st.Origins[0].ID)
	assert.Equal(t, "s1", st.Origins[1].ID)
	assert.Equal(t, "sub_almoxarifado", st.DestinationType)
}

func TestTransfer_DestinosFiltradosPorCentral(t *testing.T) {
	f := movement.NewTransferFlow(flowAPI(), movement.FlowOptions{})
	defer f.Shutdown()
	f.Open(context.Background())
	f.SelectProduct(context.Background(), "p1")

	st := f.State()
	require.Len(t, st.Destinations, 3)
	assert.Equal(t, "Sub 1 • CCentral Norte", st.Destinations[0].Label)
	assert.True(t, st.Destinations[0].HasStock)
	assert.Equal(t, "Sub 3 • Cc9", st.Destinations[2].Label)

	f.SetCentral("c2")
	st = f.State()
	require.Len(t, st.Destinations, 1)
	assert.Equal(t, "s2", st.Destinations[0].ID)
	assert.False(t, st.Destinations[0].HasStock)

	require.NoError(t, f.SetDestinationType("central"))
	assert.Len(t, f.State().Destinations, 2)
	assert.ErrorIs(t, f.SetDestinationType("setor"), domain.ErrInvalidInput)
}

func TestTransfer_ValidacionNoLlegaALaRed(t *testing.T) {
	api := flowAPI()
	f := movement.NewTransferFlow(api, movement.FlowOptions{})
	defer f.Shutdown()
	f.Open(context.Background())

	err := f.Submit(context.Background(), movement.TransferInput{Quantidade: "3"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Selecione um produto", f.State().Error)

	f.SelectProduct(context.Background(), "p1")
	require.True(t, f.SelectOrigin("almoxarifado", "a1"))
	f.SelectDestination("s2")
	err = f.Submit(context.Background(), movement.TransferInput{Quantidade: "0"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "Quantidade deve ser maior que zero", f.State().Error)
	assert.Zero(t, api.Count("Transfer"))
}

func TestTransfer_ExitoCierraYRecarga(t *testing.T) {
	api := flowAPI()
	var got dto.TransferRequest
	api.TransferFn = func(_ context.Context, req dto.TransferRequest) error {
		got = req
		return nil
	}
	modal := view.NewStateModal()
	var reloaded atomic.Bool
	f := movement.NewTransferFlow(api, movement.FlowOptions{Modal: modal, OnSuccess: func() { reloaded.Store(true) }})
	defer f.Shutdown()

	f.Open(context.Background())
	assert.True(t, modal.Visible())
	f.SelectProduct(context.Background(), "p1")
	f.SelectOrigin("almoxarifado", "a1")
	f.SelectDestination("s1")

	require.NoError(t, f.Submit(context.Background(), movement.TransferInput{Quantidade: "2,5", Motivo: "reposição"}))
	assert.False(t, modal.Visible())
	assert.False(t, f.State().Open)
	assert.True(t, reloaded.Load())

	assert.Equal(t, "p1", got.ProdutoID)
	assert.True(t, got.Quantidade.Equal(decimal.NewFromFloat(2.5)))
	assert.Equal(t, dto.LocationRefDTO{Tipo: "almoxarifado", ID: "a1"}, got.Origem)
	assert.Equal(t, dto.LocationRefDTO{Tipo: "sub_almoxarifado", ID: "s1"}, got.Destino)
	require.NotNil(t, got.Motivo)
	assert.Equal(t, "reposição", *got.Motivo)
	assert.Nil(t, got.Observacoes)
}

func TestTransfer_FallaMantieneElModalAbierto(t *testing.T) {
	api := flowAPI()
	api.TransferFn = func(context.Context, dto.TransferRequest) error {
		return &domain.RemoteError{Status: 400, Message: "Saldo insuficiente"}
	}
	modal := view.NewStateModal()
	f := movement.NewTransferFlow(api, movement.FlowOptions{Modal: modal})
	defer f.Shutdown()

	f.Open(context.Background())
	f.SelectProduct(context.Background(), "p1")
	f.SelectOrigin("almoxarifado", "a1")
	f.SelectDestination("s1")
	err := f.Submit(context.Background(), movement.TransferInput{Quantidade: "1"})
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.True(t, modal.Visible())
	assert.Equal(t, "Saldo insuficiente", f.State().Error)

	api.TransferFn = func(context.Context, dto.TransferRequest) error { return domain.ErrTransport }
	_ = f.Submit(context.Background(), movement.TransferInput{Quantidade: "1"})
	assert.Equal(t, "Falha ao executar transferência", f.State().Error)
}

func TestTransfer_SugerenciasConDebounce(t *testing.T) {
	api := flowAPI()
	f := movement.NewTransferFlow(api, movement.FlowOptions{})
	defer f.Shutdown()
	f.Open(context.Background())

	f.Search("l")
	f.Search("lu")
	f.Search("luv")
	require.Eventually(t, func() bool { return len(f.State().Suggestions) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Luva luv", f.State().Suggestions[0].Name)
	assert.Equal(t, 1, api.Count("ListProducts"))

	f.Search("")
	assert.Empty(t, f.State().Suggestions)
}

// ── Distribuição ──────────────────────────────────────────────────────────────

func TestDistribution_DestinosSinDuplicadosYCantidades(t *testing.T) {
	f := movement.NewDistributionFlow(flowAPI(), movement.FlowOptions{})
	defer f.Shutdown()
	st := f.Open(context.Background())
	require.Len(t, st.Sectors, 2)

	require.NoError(t, f.AddTarget("st1"))
	require.NoError(t, f.AddTarget("st1"))
	require.NoError(t, f.AddTarget("st2"))
	assert.ErrorIs(t, f.AddTarget("zz"), domain.ErrInvalidInput)
	assert.Len(t, f.State().Targets, 2)

	f.UpdateQuantity("st1", "-3")
	f.UpdateQuantity("st2", "abc")
	for _, tg := range f.State().Targets {
		assert.True(t, tg.Quantity.IsZero(), tg.ID)
	}

	f.RemoveTarget("st2")
	assert.Len(t, f.State().Targets, 1)

	f.SetSectorFilter("uti")
	st = f.State()
	require.Len(t, st.Sectors, 1)
	assert.Equal(t, "UTI Adulto", st.Sectors[0].Name)
}

func TestDistribution_EnviaSoloCantidadesPositivas(t *testing.T) {
	api := flowAPI()
	var got dto.DistributionRequest
	api.DistributeFn = func(_ context.Context, req dto.DistributionRequest) error {
		got = req
		return nil
	}
	f := movement.NewDistributionFlow(api, movement.FlowOptions{})
	defer f.Shutdown()
	f.Open(context.Background())
	f.SelectProduct(context.Background(), "p1")
	f.SelectOrigin("sub_almoxarifado", "s1")
	f.AddTarget("st1")
	f.AddTarget("st2")

	err := f.Submit(context.Background(), movement.DistributionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "todos en cero")
	assert.Zero(t, api.Count("Distribute"))

	f.UpdateQuantity("st2", "4")
	require.NoError(t, f.Submit(context.Background(), movement.DistributionInput{Observacoes: "plantão"}))
	require.Len(t, got.Destinos, 1)
	assert.Equal(t, "st2", got.Destinos[0].ID)
	assert.True(t, got.Destinos[0].Quantidade.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, dto.LocationRefDTO{Tipo: "sub_almoxarifado", ID: "s1"}, got.Origem)
	assert.False(t, f.State().Open)
}

func TestDistribution_FallaUsaMensajeGenerico(t *testing.T) {
	api := flowAPI()
	api.DistributeFn = func(context.Context, dto.DistributionRequest) error { return domain.ErrTransport }
	f := movement.NewDistributionFlow(api, movement.FlowOptions{})
	defer f.Shutdown()
	f.Open(context.Background())
	f.SelectProduct(context.Background(), "p1")
	f.SelectOrigin("almoxarifado", "a1")
	f.AddTarget("st1")
	f.UpdateQuantity("st1", "1")

	assert.Error(t, f.Submit(context.Background(), movement.DistributionInput{}))
	st := f.State()
	assert.True(t, st.Open)
	assert.Equal(t, "Falha ao executar distribuição", st.Error)
}
