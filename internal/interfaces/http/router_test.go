package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appadmin "github.com/jhoicas/painel-almoxarifado/internal/application/admin"
	appanalytics "github.com/jhoicas/painel-almoxarifado/internal/application/analytics"
	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/operator"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports/portsmock"
	"github.com/jhoicas/painel-almoxarifado/internal/application/product"
	"github.com/jhoicas/painel-almoxarifado/internal/application/workspace"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
	"github.com/jhoicas/painel-almoxarifado/internal/domain/entity"
	"github.com/jhoicas/painel-almoxarifado/internal/infrastructure/prefs"
	apphttp "github.com/jhoicas/painel-almoxarifado/internal/interfaces/http"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func buildRouter(t *testing.T, api *portsmock.Warehouse) *fiber.App {
	t.Helper()
	store, err := prefs.NewFileStore(t.TempDir())
	require.NoError(t, err)
	log := zerolog.Nop()
	reg := workspace.NewRegistry(api, store, workspace.Config{Timeout: time.Second, Logger: log})
	t.Cleanup(reg.Stop)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Workspaces: reg,
		Dashboard:  appanalytics.NewDashboardUseCase(api, api, appanalytics.DashboardOptions{Logger: log}),
		Admin:      appadmin.NewService(api, time.Second, log),
		Operator:   operator.NewService(api, operator.Options{Timeout: time.Second, Logger: log}),
		Products:   product.NewService(api, product.Options{Timeout: time.Second, Logger: log}),
		JWTSecret:  testJWTSecret,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ── Rutas protegidas ─────────────────────────────────────────────────────────

func TestRouter_SinTokenDevuelve401(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodGet, "/api/painel/dashboard", "", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_AdminSoloParaSuperAdminYAdminCentral(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodGet, "/api/painel/admin/backups", tokenFor(t, "gerente_almox", ""), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/painel/admin/backups", tokenFor(t, "admin_central", ""), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_GerenciaDeDemandasNoParaOperador(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodGet, "/api/painel/demandas/gerencia", tokenFor(t, "operador_setor", "s1"), nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ── Dashboard ────────────────────────────────────────────────────────────────

func TestDashboard_OperadorVeSoloSusWidgets(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodGet, "/api/painel/dashboard", tokenFor(t, "operador_setor", "s1"), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.DashboardDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	ids := make([]string, 0, len(out.Widgets))
	for _, w := range out.Widgets {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{appanalytics.WidgetConsumoMedio, appanalytics.WidgetAcoesRapidas}, ids)
	assert.Equal(t, "Ana", out.UserName)
}

func TestDashboard_ReporteSinRendererDevuelve503(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodGet, "/api/painel/dashboard/report.pdf", tokenFor(t, "super_admin", ""), nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "REPORT_UNAVAILABLE", decodeBody(t, resp)["code"])
}

// ── Preferencias ─────────────────────────────────────────────────────────────

func TestPreferencias_PutPersisteYGetDevuelve(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})
	tok := tokenFor(t, "gerente_almox", "")

	resp := doJSON(t, app, http.MethodPut, "/api/painel/preferencias", tok,
		map[string]any{"per_page_estoque": 50, "movs.per_page": 10, "dark_mode": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/painel/preferencias", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.Preferences
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, dto.Preferences{PerPageEstoque: 50, MovsPerPage: 10, DarkMode: true}, got)
}

func TestPreferencias_TamanoInvalidoDevuelve400(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodPut, "/api/painel/preferencias", tokenFor(t, "gerente_almox", ""),
		map[string]any{"per_page_estoque": 33})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeBody(t, resp)["code"])
}

// ── Admin ────────────────────────────────────────────────────────────────────

func TestAdmin_ZerarSinConfirmacionNoLlegaAlBackend(t *testing.T) {
	called := false
	api := &portsmock.Warehouse{
		ResetDatabaseFn: func(ctx context.Context, req dto.ResetRequest) error {
			called = true
			return nil
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodPost, "/api/painel/admin/zerar", tokenFor(t, "super_admin", ""),
		map[string]any{"preservar_admin": true, "confirmacao": "apagar?"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)
}

func TestAdmin_ZerarConConfirmacionDevuelve204(t *testing.T) {
	var got dto.ResetRequest
	api := &portsmock.Warehouse{
		ResetDatabaseFn: func(ctx context.Context, req dto.ResetRequest) error {
			got = req
			return nil
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodPost, "/api/painel/admin/zerar", tokenFor(t, "super_admin", ""),
		map[string]any{"preservar_admin": true, "confirmacao": "APAGAR"})

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, got.PreserveAdmin)
}

func TestAdmin_ErrorRemotoDevuelve502(t *testing.T) {
	api := &portsmock.Warehouse{
		CreateBackupFn: func(ctx context.Context) (string, error) {
			return "", &domain.RemoteError{Status: 500, Message: "disco cheio"}
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodPost, "/api/painel/admin/backups", tokenFor(t, "super_admin", ""), nil)

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "UPSTREAM", body["code"])
	assert.Equal(t, "disco cheio", body["message"])
}

// ── Produtos ─────────────────────────────────────────────────────────────────

func TestProdutos_CreateDevuelve201ConID(t *testing.T) {
	api := &portsmock.Warehouse{
		CreateProductFn: func(ctx context.Context, p entity.NewProduct) (string, error) {
			return "p-9", nil
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodPost, "/api/painel/produtos", tokenFor(t, "gerente_almox", ""),
		map[string]any{"central_id": "c1", "codigo": "ABC-1", "nome": "Luva"})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "p-9", decodeBody(t, resp)["id"])
}

func TestProdutos_CodigoDuplicadoDevuelve400(t *testing.T) {
	api := &portsmock.Warehouse{
		ListProductsFn: func(ctx context.Context, q dto.ProductQuery) ([]entity.Product, error) {
			return []entity.Product{{ID: "p1", Code: "abc-1"}}, nil
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodPost, "/api/painel/produtos", tokenFor(t, "gerente_almox", ""),
		map[string]any{"central_id": "c1", "codigo": "ABC-1", "nome": "Luva"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Código já cadastrado", decodeBody(t, resp)["message"])
}

func TestProdutos_OperadorNoPuedeCadastrar(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodPost, "/api/painel/produtos", tokenFor(t, "operador_setor", "s1"),
		map[string]any{"central_id": "c1", "codigo": "X", "nome": "Y"})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ── Operador ─────────────────────────────────────────────────────────────────

func TestOperador_ConsumoRegistradoDevuelveMensaje(t *testing.T) {
	var got dto.ConsumptionRequest
	api := &portsmock.Warehouse{
		RegisterConsumptionFn: func(ctx context.Context, req dto.ConsumptionRequest) error {
			got = req
			return nil
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodPost, "/api/painel/operador/consumo", tokenFor(t, "operador_setor", "s1"),
		map[string]any{"produto": "p1", "quantidade": "3"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Consumo registrado.", decodeBody(t, resp)["mensagem"])
	assert.Equal(t, "p1", got.ProdutoID)
}

func TestOperador_FallaDelBackendDevuelve502(t *testing.T) {
	api := &portsmock.Warehouse{
		RegisterConsumptionFn: func(ctx context.Context, req dto.ConsumptionRequest) error {
			return errors.Join(domain.ErrTransport, errors.New("connection refused"))
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodPost, "/api/painel/operador/consumo", tokenFor(t, "operador_setor", "s1"),
		map[string]any{"produto": "p1", "quantidade": "3"})

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

// ── Estoque y movimentações ──────────────────────────────────────────────────

func TestEstoque_PrimeraVisitaCargaYSinDatosQuedaEmpty(t *testing.T) {
	calls := 0
	api := &portsmock.Warehouse{
		ListStockFn: func(ctx context.Context, q dto.StockQuery) (entity.Page[entity.StockRecord], error) {
			calls++
			return entity.Page[entity.StockRecord]{}, nil
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodGet, "/api/painel/estoque", tokenFor(t, "gerente_almox", ""), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "empty", body["state"])
	assert.Equal(t, 1, calls)
}

func TestEstoque_ErrorDelBackendQuedaEnEstadoError(t *testing.T) {
	api := &portsmock.Warehouse{
		ListStockFn: func(ctx context.Context, q dto.StockQuery) (entity.Page[entity.StockRecord], error) {
			return entity.Page[entity.StockRecord]{}, &domain.RemoteError{Status: 500, Message: "falha no banco"}
		},
	}
	app := buildRouter(t, api)

	resp := doJSON(t, app, http.MethodGet, "/api/painel/estoque", tokenFor(t, "gerente_almox", ""), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "error", body["state"])
	assert.Equal(t, "falha no banco", body["error"])
}

func TestMovimentacoes_AlternarOrdem(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})
	tok := tokenFor(t, "gerente_almox", "")

	resp := doJSON(t, app, http.MethodPost, "/api/painel/movimentacoes/ordem", tok, nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "asc", decodeBody(t, resp)["ordem"])

	resp = doJSON(t, app, http.MethodPost, "/api/painel/movimentacoes/ordem", tok, nil)
	assert.Equal(t, "desc", decodeBody(t, resp)["ordem"])
}

func TestTransferencia_OperadorNoAccede(t *testing.T) {
	app := buildRouter(t, &portsmock.Warehouse{})

	resp := doJSON(t, app, http.MethodPost, "/api/painel/transferencia/abrir", tokenFor(t, "operador_setor", "s1"), nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
