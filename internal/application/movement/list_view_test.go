package movement_test

import (
	"context"
	"sync"
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
)

type movQueries struct {
	mu sync.Mutex
	qs []dto.MovementQuery
}

func (m *movQueries) all() []dto.MovementQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]dto.MovementQuery(nil), m.qs...)
}

func movementsAPI(rec *movQueries, pages int) *portsmock.Warehouse {
	return &portsmock.Warehouse{
		ListMovementsFn: func(_ context.Context, q dto.MovementQuery) (entity.Page[entity.Movement], error) {
			rec.mu.Lock()
			rec.qs = append(rec.qs, q)
			rec.mu.Unlock()
			ts := time.Date(2024, 5, 2, 14, 30, 0, 0, time.UTC)
			return entity.Page[entity.Movement]{
				Items: []entity.Movement{{
					ID: "m1", Type: "saida", ProductName: "Luva",
					Quantity:    decimal.NullDecimal{Decimal: decimal.NewFromInt(3), Valid: true},
					Origin:      entity.LocationRef{Name: "Almox Central"},
					Destination: entity.LocationRef{Name: "UTI"},
					Timestamp:   &ts,
				}},
				Pagination: entity.Pagination{Page: q.Page, Pages: pages, PerPage: q.PerPage},
			}, nil
		},
	}
}

// ── Lista ─────────────────────────────────────────────────────────────────────

func TestRefresh_FilasConEtiquetas(t *testing.T) {
	rec := &movQueries{}
	v := movement.NewListView(movementsAPI(rec, 3), movement.ListOptions{Location: time.UTC})
	defer v.Close()

	snap := v.Refresh(context.Background(), 1)
	require.Equal(t, view.Populated, snap.State)
	row := snap.Data.Rows[0]
	assert.Equal(t, "Saída", row.TypeLabel)
	assert.Equal(t, "fas fa-arrow-up text-danger", row.TypeIcon)
	assert.Equal(t, "Almox Central → UTI", row.Locations)
	assert.Equal(t, "02/05/2024 14:30", row.Date)
	assert.Equal(t, "3", row.Quantity)
	assert.Equal(t, "desc", rec.all()[0].Ordem)
	assert.Equal(t, 20, rec.all()[0].PerPage)
}

func TestGoToPage_AcotadoAlRango(t *testing.T) {
	rec := &movQueries{}
	v := movement.NewListView(movementsAPI(rec, 3), movement.ListOptions{})
	defer v.Close()

	v.Refresh(context.Background(), 1)
	v.GoToPage(context.Background(), 99)
	v.GoToPage(context.Background(), -4)
	v.GoToPage(context.Background(), 2)

	qs := rec.all()
	require.Len(t, qs, 4)
	assert.Equal(t, 3, qs[1].Page)
	assert.Equal(t, 1, qs[2].Page)
	assert.Equal(t, 2, qs[3].Page)
}

func TestToggleOrder_RecargaConDebounce(t *testing.T) {
	rec := &movQueries{}
	v := movement.NewListView(movementsAPI(rec, 1), movement.ListOptions{})
	defer v.Close()

	assert.Equal(t, "asc", v.ToggleOrder())
	v.SetFilters(movement.Filters{Tipo: "ENTRADA", DataInicio: "2024-05-01"})

	require.Eventually(t, func() bool { return v.Snapshot().State == view.Populated }, 2*time.Second, 10*time.Millisecond)
	require.Len(t, rec.all(), 1)
	q := rec.all()[0]
	assert.Equal(t, "asc", q.Ordem)
	assert.Equal(t, "ENTRADA", q.Tipo)
	assert.Equal(t, "2024-05-01", q.DataInicio)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "Mais antigas primeiro", v.Snapshot().Data.OrderLabel)
}

func TestSetPerPage_PersisteYRecargaPaginaUno(t *testing.T) {
	rec := &movQueries{}
	var saved int
	v := movement.NewListView(movementsAPI(rec, 5), movement.ListOptions{OnPerPage: func(n int) { saved = n }})
	defer v.Close()

	_, err := v.SetPerPage(context.Background(), 30)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = v.SetPerPage(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 50, saved)
	q := rec.all()[0]
	assert.Equal(t, 50, q.PerPage)
	assert.Equal(t, 1, q.Page)
}

func TestTypeLabelYLocationsText(t *testing.T) {
	l, i := movement.TypeLabel("entrada")
	assert.Equal(t, "Entrada", l)
	assert.Equal(t, "fas fa-arrow-down text-success", i)
	l, _ = movement.TypeLabel("Distribuição")
	assert.Equal(t, "Saída", l)
	l, _ = movement.TypeLabel("transferencia")
	assert.Equal(t, "Transferência", l)
	l, i = movement.TypeLabel("ajuste")
	assert.Equal(t, "ajuste", l)
	assert.Equal(t, "fas fa-question", i)

	assert.Equal(t, "A", movement.LocationsText("A", ""))
	assert.Equal(t, "B", movement.LocationsText("", "B"))
	assert.Equal(t, "-", movement.LocationsText("", ""))
}
