package demand_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/painel-almoxarifado/internal/application/demand"
	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports/portsmock"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
)

func at(day int) *time.Time {
	t := time.Date(2024, 6, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func demandOf(id, status string, created, updated *time.Time) entity.Demand {
	return entity.Demand{
		ID: id, ProductName: "Luva", Unit: "cx", Status: status,
		QuantityRequested: decimal.NewFromInt(4), CreatedAt: created, UpdatedAt: updated,
	}
}

// ── Criação ───────────────────────────────────────────────────────────────────

func TestCreate_ResuelveTextoAID(t *testing.T) {
	var got dto.NewDemandRequest
	api := &portsmock.Warehouse{
		ListProductsFn: func(_ context.Context, q dto.ProductQuery) ([]entity.Product, error) {
			assert.Equal(t, 1, q.PerPage)
			return []entity.Product{{ID: "42", Name: q.Search}}, nil
		},
		CreateDemandFn: func(_ context.Context, req dto.NewDemandRequest) error {
			got = req
			return nil
		},
	}
	v := demand.New(api, demand.Options{})

	err := v.Create(context.Background(), demand.Input{Produto: " luva nitrílica ", Quantidade: "1,5", Observacoes: "  urgente "})
	require.NoError(t, err)
	assert.Equal(t, "42", got.ProdutoID)
	assert.True(t, got.Quantidade.Equal(decimal.NewFromFloat(1.5)))
	assert.Equal(t, "setor", got.DestinoTipo)
	assert.Equal(t, "urgente", got.Observacoes)
	assert.Equal(t, 1, api.Count("ListDemands"), "recarga minhas")
}

func TestCreate_IDNumericoNoBusca(t *testing.T) {
	api := &portsmock.Warehouse{}
	v := demand.New(api, demand.Options{})

	require.NoError(t, v.Create(context.Background(), demand.Input{Produto: "17", Quantidade: "2", Destino: "almoxarifado"}))
	assert.Zero(t, api.Count("ListProducts"))
}

func TestCreate_SinResultadoUsaElTexto(t *testing.T) {
	api := &portsmock.Warehouse{
		ListProductsFn: func(context.Context, dto.ProductQuery) ([]entity.Product, error) {
			return nil, errors.New("down")
		},
	}
	v := demand.New(api, demand.Options{})
	assert.Equal(t, "abc", v.ResolveProductID(context.Background(), "abc"))
	assert.Equal(t, "", v.ResolveProductID(context.Background(), "  "))
}

func TestCreate_ValidacionNoLlegaALaRed(t *testing.T) {
	api := &portsmock.Warehouse{}
	v := demand.New(api, demand.Options{})

	cases := []demand.Input{
		{Produto: "", Quantidade: "3"},
		{Produto: "1", Quantidade: "0"},
		{Produto: "1", Quantidade: "-2"},
		{Produto: "1", Quantidade: "abc"},
	}
	for _, in := range cases {
		err := v.Create(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrInvalidInput, in)
		assert.Equal(t, "Informe Produto ID e quantidade válida.", domain.UserMessage(err, ""))
	}
	err := v.Create(context.Background(), demand.Input{Produto: "1", Quantidade: "1", Destino: "central"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, api.Count("CreateDemand"))
}

// ── Lista (rascunho) ──────────────────────────────────────────────────────────

func TestDraft_AgregarQuitarYFinalizar(t *testing.T) {
	var finalized dto.FinalizeDraftRequest
	api := &portsmock.Warehouse{
		ListDraftFn: func(context.Context) ([]entity.DraftDemandItem, error) {
			return []entity.DraftDemandItem{{ID: "d1", ProductName: "Luva", Quantity: decimal.NewFromFloat(2.6), Note: "obs"}}, nil
		},
		FinalizeDraftFn: func(_ context.Context, req dto.FinalizeDraftRequest) error {
			finalized = req
			return nil
		},
	}
	v := demand.New(api, demand.Options{})
	ctx := context.Background()

	require.NoError(t, v.AddToDraft(ctx, demand.Input{Produto: "5", Quantidade: "2,6"}))
	snap := v.Draft()
	require.Equal(t, view.Populated, snap.State)
	assert.Equal(t, "3", snap.Data[0].Quantity)

	require.NoError(t, v.RemoveDraftItem(ctx, "d1"))
	require.NoError(t, v.ClearDraft(ctx))
	require.NoError(t, v.FinalizeDraft(ctx, "Sub_Almoxarifado"))
	assert.Equal(t, "sub_almoxarifado", finalized.DestinoTipo)
	assert.ErrorIs(t, v.FinalizeDraft(ctx, "central"), domain.ErrInvalidInput)

	assert.Equal(t, []string{
		"AddDraftItem", "ListDraft",
		"RemoveDraftItem", "ListDraft",
		"ClearDraft", "ListDraft",
		"FinalizeDraft", "ListDraft", "ListDemands",
	}, api.Calls())
}

func TestDraft_ErrorDelServidorSePropaga(t *testing.T) {
	api := &portsmock.Warehouse{
		ClearDraftFn: func(context.Context) error {
			return &domain.RemoteError{Status: 409, Message: "Lista vazia"}
		},
	}
	v := demand.New(api, demand.Options{})
	err := v.ClearDraft(context.Background())
	require.ErrorIs(t, err, domain.ErrRemote)
	assert.Equal(t, "Lista vazia", domain.UserMessage(err, ""))
}

// ── Listas ────────────────────────────────────────────────────────────────────

func TestLoadMine_FiltroDeTexto(t *testing.T) {
	api := &portsmock.Warehouse{
		ListDemandsFn: func(_ context.Context, status string, mine bool, perPage int) ([]entity.Demand, error) {
			assert.True(t, mine)
			assert.Empty(t, status)
			assert.Equal(t, 50, perPage)
			return []entity.Demand{
				demandOf("1", "PENDENTE", at(1), nil),
				demandOf("2", "atendido", at(2), nil),
			}, nil
		},
	}
	v := demand.New(api, demand.Options{Location: time.UTC})

	snap := v.LoadMine(context.Background(), "Atend")
	require.Len(t, snap.Data, 1)
	assert.Equal(t, "2", snap.Data[0].DisplayID)
	assert.Equal(t, "4 cx", snap.Data[0].Quantity)
	assert.Equal(t, "02/06/2024 10:00", snap.Data[0].CreatedAt)

	snap = v.LoadMine(context.Background(), "nada")
	assert.Equal(t, view.Empty, snap.State)
}

func TestLoadResolved_UneYOrdena(t *testing.T) {
	var mu sync.Mutex
	var statuses []string
	api := &portsmock.Warehouse{
		ListDemandsFn: func(_ context.Context, status string, _ bool, _ int) ([]entity.Demand, error) {
			mu.Lock()
			statuses = append(statuses, status)
			mu.Unlock()
			switch status {
			case entity.DemandAtendido:
				return []entity.Demand{demandOf("a", status, at(1), at(5))}, nil
			case entity.DemandParcialmenteAtendido:
				return []entity.Demand{demandOf("p", status, at(7), nil)}, nil
			}
			return []entity.Demand{demandOf("n", status, nil, nil), demandOf("n2", status, at(3), nil)}, nil
		},
	}
	v := demand.New(api, demand.Options{})

	snap := v.LoadResolved(context.Background())
	require.Equal(t, view.Populated, snap.State)
	ids := make([]string, 0, len(snap.Data))
	for _, r := range snap.Data {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"p", "a", "n2", "n"}, ids)
	assert.ElementsMatch(t, demand.ResolvedStatuses, statuses)
}

func TestLoadResolved_UnEstadoFallaTodaLaLista(t *testing.T) {
	api := &portsmock.Warehouse{
		ListDemandsFn: func(_ context.Context, status string, _ bool, _ int) ([]entity.Demand, error) {
			if status == entity.DemandNegado {
				return nil, domain.ErrTransport
			}
			return []entity.Demand{demandOf("x", status, at(1), nil)}, nil
		},
	}
	v := demand.New(api, demand.Options{})

	snap := v.LoadResolved(context.Background())
	assert.Equal(t, view.Error, snap.State)
	assert.Equal(t, "Erro ao listar", snap.Error)
	assert.Empty(t, snap.Data)
}

func TestLoadPending_Grupos(t *testing.T) {
	api := &portsmock.Warehouse{
		ListDemandsFn: func(_ context.Context, status string, mine bool, _ int) ([]entity.Demand, error) {
			assert.Equal(t, entity.DemandPendente, status)
			assert.False(t, mine)
			g := demandOf("g", status, at(1), nil)
			g.ProductName = "Lista (3 itens)"
			s := demandOf("s", status, at(1), nil)
			s.ProductName, s.SectorID = "", "st9"
			s.ProductID = "p9"
			return []entity.Demand{g, s}, nil
		},
	}
	v := demand.New(api, demand.Options{})

	snap := v.LoadPending(context.Background())
	require.Len(t, snap.Data, 2)
	assert.True(t, snap.Data[0].IsGroup)
	assert.Equal(t, "4", snap.Data[0].Quantity)
	assert.Equal(t, "p9", snap.Data[1].ProductName)
	assert.Equal(t, "st9", snap.Data[1].SectorName)
	assert.Equal(t, snap, v.Pending())
}
