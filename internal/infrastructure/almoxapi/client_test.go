package almoxapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/hierarchy"
	"github.com/jhoicas/painel-almoxarifado/internal/infrastructure/almoxapi"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var saoPaulo = time.FixedZone("BRT", -3*3600)

func newTestClient(t *testing.T, h http.Handler, mutate ...func(*almoxapi.Options)) *almoxapi.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts := almoxapi.Options{
		BaseURL:  srv.URL,
		Timeout:  2 * time.Second,
		Location: saoPaulo,
		Logger:   zerolog.Nop(),
	}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := almoxapi.NewClient(opts)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimentações
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_NormalizaCamposYParametros(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/movimentacoes", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		gotQuery = r.URL.RawQuery
		writeJSON(w, 200, `{
			"items": [
				{"id": 7, "tipo_movimentacao": "SAÍDA", "produto_id": "ObjectId('65a1b2c3d4e5f60718293a4b')",
				 "quantidade": "10", "origem_tipo": "Almoxarifado", "origem_id": "'12'",
				 "data_movimentacao": "2024-03-05T10:00:00", "usuario_responsavel": "ana", "motivo": null},
				{"_id": {"$oid": "65a1b2c3d4e5f60718293a4c"}, "tipo": "distribuição", "quantidade": null,
				 "origem_setor_id": 3, "destino_sub_almoxarifado_id": 9, "created_at": "05/03/2024 08:30"}
			],
			"pagination": {"current_page": 2, "per_page": 2, "total_items": 9, "total_pages": 5, "has_next": true, "has_prev": true}
		}`)
	}))

	page, err := c.ListMovements(context.Background(), dto.MovementQuery{
		PageRequest: dto.PageRequest{Page: 2, PerPage: 2},
		Tipo:        "SAIDA",
		DataInicio:  "2024-03-01",
	})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "data_inicio=2024-03-01")
	assert.Contains(t, gotQuery, "tipo=SAIDA")
	assert.NotContains(t, gotQuery, "produto=")

	require.Len(t, page.Items, 2)
	m := page.Items[0]
	assert.Equal(t, "7", m.ID)
	assert.Equal(t, hierarchy.MovSaida, m.Type)
	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", m.ProductID)
	assert.True(t, m.Quantity.Valid)
	assert.True(t, m.Quantity.Decimal.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, hierarchy.Almoxarifado, m.Origin.Type)
	assert.Equal(t, "Almoxarifado", m.Origin.RawType)
	assert.Equal(t, "12", m.Origin.ID)
	require.NotNil(t, m.Timestamp)
	assert.Equal(t, "2024-03-05", m.Timestamp.Format("2006-01-02"))

	m2 := page.Items[1]
	assert.Equal(t, "65a1b2c3d4e5f60718293a4c", m2.ID)
	assert.Equal(t, hierarchy.MovDistribuicao, m2.Type)
	assert.False(t, m2.Quantity.Valid, "null debe quedar como cantidad ausente")
	assert.Equal(t, hierarchy.Setor, m2.Origin.Type)
	assert.Equal(t, "3", m2.Origin.ID)
	assert.Equal(t, hierarchy.SubAlmoxarifado, m2.Destination.Type)
	require.NotNil(t, m2.Timestamp)
	assert.Equal(t, 8, m2.Timestamp.Hour())

	assert.Equal(t, entity.Pagination{Page: 2, Pages: 5, Total: 9, PerPage: 2, HasNext: true, HasPrev: true}, page.Pagination)
}

func TestListMovements_ListaAusenteQuedaVacia(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"pagination": {"page": 1, "pages": 1, "total": 0}}`)
	}))
	page, err := c.ListMovements(context.Background(), dto.MovementQuery{})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.Pagination.Pages)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestDo_Non2xxDevuelveMensajeDelServidor(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 400, `{"error": "Estoque insuficiente na origem"}`)
	}))
	err := c.Transfer(context.Background(), dto.TransferRequest{ProdutoID: "1", Quantidade: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRemote))
	var remote *domain.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, 400, remote.Status)
	assert.Equal(t, "Estoque insuficiente na origem", domain.UserMessage(err, "Falha ao executar transferência"))
}

func TestDo_Non2xxSinCuerpoUsaStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	_, err := c.ListSectors(context.Background(), 10)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502", err.Error())
	assert.Equal(t, "Falha", domain.UserMessage(err, "Falha"))
}

func TestDo_JSONMalformadoEsErrMalformedResponse(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"items": [ {"produto_id": ]}`)
	}))
	_, err := c.ListStock(context.Background(), dto.StockQuery{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
}

func TestDo_TimeoutEsErrTransport(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ListProducts(ctx, dto.ProductQuery{Search: "luva"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransport))
	assert.True(t, almoxapi.IsTransport(err))
}

func TestDo_ReenviaAuthorization(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		writeJSON(w, 200, `[]`)
	}))
	ctx := almoxapi.WithAuthorization(context.Background(), "Bearer abc")
	_, err := c.ListLocations(ctx)
	require.NoError(t, err)
}

func TestWithCredentials_UsaFuncionSinHeaderEnContexto(t *testing.T) {
	var got []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		writeJSON(w, 200, `[]`)
	}))
	bound := c.WithCredentials(func() string { return "Bearer ultimo" })

	_, err := bound.ListLocations(context.Background())
	require.NoError(t, err)
	_, err = bound.ListLocations(almoxapi.WithAuthorization(context.Background(), "Bearer ctx"))
	require.NoError(t, err)
	_, err = c.ListLocations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer ultimo", "Bearer ctx", ""}, got, "el cliente original no cambia")
}

func TestDo_PropagaRequestID(t *testing.T) {
	var ids []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get("X-Request-ID"))
		writeJSON(w, 200, `[]`)
	}))

	_, err := c.ListLocations(almoxapi.WithRequestID(context.Background(), "req-1"))
	require.NoError(t, err)
	_, err = c.ListLocations(context.Background())
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.Equal(t, "req-1", ids[0])
	assert.NotEmpty(t, ids[1], "sin id en el contexto se genera uno")
}

// ──────────────────────────────────────────────────────────────────────────────
// Estoque y productos
// ──────────────────────────────────────────────────────────────────────────────

func TestListStock_ArregloDesnudo(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `[
			{"produto_id": 1, "produto_nome": "Luva", "local_tipo": "SUBALMOXARIFADO", "local_id": 4,
			 "quantidade": 12.5, "quantidade_disponivel": "10,5", "quantidade_inicial": 100}
		]`)
	}))
	page, err := c.ListStock(context.Background(), dto.StockQuery{PageRequest: dto.PageRequest{Page: 1, PerPage: 20}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	s := page.Items[0]
	assert.Equal(t, hierarchy.SubAlmoxarifado, s.LocationType)
	assert.Equal(t, "SUBALMOXARIFADO", s.RawLocationType)
	assert.True(t, s.QuantityAvailable.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, s.HasAvailable)
	assert.Equal(t, 1, page.Pagination.Total)
	assert.Equal(t, 1, page.Pagination.Pages)
}

func TestStockExportURL_MismosFiltros(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	u := c.StockExportURL(dto.StockQuery{PageRequest: dto.PageRequest{Page: 3, PerPage: 50}, Produto: "luva", Status: "baixo"})
	assert.Contains(t, u, "/api/estoque/hierarquia/export?")
	assert.Contains(t, u, "produto=luva")
	assert.Contains(t, u, "status=baixo")
	assert.Contains(t, u, "page=1")
}

func TestProductStock_ListaEstoques(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/produtos/5/estoque", r.URL.Path)
		writeJSON(w, 200, `{"estoques": [
			{"tipo": "almoxarifado", "local_id": 2, "nome_local": "Almox A", "quantidade": 8},
			{"tipo": "setor", "setor_id": 3, "nome_local": "UTI", "quantidade": 4, "quantidade_disponivel": 1}
		]}`)
	}))
	rows, err := c.ProductStock(context.Background(), "5")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].QuantityAvailable.Equal(decimal.NewFromInt(8)), "sin disponible se usa la cantidad")
	assert.Equal(t, "3", rows[1].LocationID)
	assert.Equal(t, hierarchy.Setor, rows[1].LocationType)
}

func TestGetSector_IdsSingularesYPlurales(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, `{"id": 3, "nome": "UTI", "central_ids": ["ObjectId(\"65a1b2c3d4e5f60718293a4b\")"], "almoxarifado_id": 2}`)
	}))
	s, err := c.GetSector(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"65a1b2c3d4e5f60718293a4b"}, s.CentralIDs)
	assert.Equal(t, []string{"2"}, s.AlmoxarifadoIDs)
	assert.Empty(t, s.SubAlmoxarifadoIDs)
}

func TestTransfer_CuerpoEsperadoPorElBackend(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, 200, `{"success": true}`)
	}))
	err := c.Transfer(context.Background(), dto.TransferRequest{
		ProdutoID:  "5",
		Quantidade: decimal.NewFromInt(3),
		Origem:     dto.LocationRefDTO{Tipo: "almoxarifado", ID: "2"},
		Destino:    dto.LocationRefDTO{Tipo: "sub_almoxarifado", ID: "9"},
	})
	require.NoError(t, err)
	assert.Equal(t, "5", body["produto_id"])
	assert.Equal(t, map[string]any{"tipo": "almoxarifado", "id": "2"}, body["origem"])
	assert.Nil(t, body["motivo"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Recorrido acotado de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestLotsForProducts_RespetaLimitesYOmiteFallas(t *testing.T) {
	var inFlight, peak, calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		atomic.AddInt32(&calls, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		if r.URL.Path == "/api/produtos/p3/lotes" {
			writeJSON(w, 500, `{"error": "falha"}`)
			return
		}
		writeJSON(w, 200, `{"items": [{"numero_lote": "L1", "data_vencimento": "2024-04-01"}]}`)
	}), func(o *almoxapi.Options) {
		o.MaxConcurrency = 2
		o.MaxProducts = 5
	})

	products := make([]entity.Product, 0, 8)
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"} {
		products = append(products, entity.Product{ID: id, Name: "Produto " + id})
	}
	lots, err := c.LotsForProducts(context.Background(), products)
	require.NoError(t, err)

	assert.EqualValues(t, 5, atomic.LoadInt32(&calls), "solo se examinan MaxProducts productos")
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Len(t, lots, 4, "el producto con falla se omite")
	for _, l := range lots {
		assert.NotEmpty(t, l.ProductID)
		assert.Equal(t, "Produto "+l.ProductID, l.ProductName)
	}
}

func TestLotsForProducts_CancelacionAbortaTodo(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := c.LotsForProducts(ctx, []entity.Product{{ID: "a"}, {ID: "b"}})
	require.Error(t, err)
}
