package admin_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/painel-almoxarifado/internal/application/admin"
	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports/portsmock"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
)

func newService(api *portsmock.Warehouse) *admin.Service {
	return admin.NewService(api, 0, zerolog.Nop())
}

// ── Confirmación ──────────────────────────────────────────────────────────────

func TestConfirmed(t *testing.T) {
	assert.True(t, admin.Confirmed("APAGAR"))
	assert.True(t, admin.Confirmed("  apagar "))
	assert.False(t, admin.Confirmed("APAGA"))
	assert.False(t, admin.Confirmed(""))
}

func TestRestore_SinConfirmacionNoLlegaALaRed(t *testing.T) {
	api := &portsmock.Warehouse{}
	s := newService(api)

	err := s.Restore(context.Background(), "b.tar", "", "sim")
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Equal(t, "confirmación requerida: escriba APAGAR", domain.UserMessage(err, "x"))

	err = s.Reset(context.Background(), true, "")
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Empty(t, api.Calls())
}

func TestRestore_Confirmado(t *testing.T) {
	var got dto.BackupRestoreRequest
	api := &portsmock.Warehouse{
		RestoreBackupFn: func(_ context.Context, req dto.BackupRestoreRequest) error {
			got = req
			return nil
		},
	}
	s := newService(api)

	require.NoError(t, s.Restore(context.Background(), " b.tar ", "", "apagar"))
	assert.Equal(t, dto.BackupRestoreRequest{File: "b.tar", Mode: admin.RestoreReplace}, got)

	assert.ErrorIs(t, s.Restore(context.Background(), "", "", "APAGAR"), domain.ErrInvalidInput)
	assert.ErrorIs(t, s.Restore(context.Background(), "b.tar", "tudo", "APAGAR"), domain.ErrInvalidInput)
	assert.Equal(t, 1, api.Count("RestoreBackup"))
}

func TestReset_Confirmado(t *testing.T) {
	var got dto.ResetRequest
	api := &portsmock.Warehouse{
		ResetDatabaseFn: func(_ context.Context, req dto.ResetRequest) error {
			got = req
			return nil
		},
	}
	require.NoError(t, newService(api).Reset(context.Background(), true, "APAGAR"))
	assert.True(t, got.PreserveAdmin)
}

// ── Backups y agendamiento ────────────────────────────────────────────────────

func TestBackups_Etiqueta(t *testing.T) {
	api := &portsmock.Warehouse{
		ListBackupsFn: func(context.Context) ([]dto.BackupFile, error) {
			return []dto.BackupFile{{Name: "a.gz", Size: 1536}, {Name: "b.gz", Size: 100}}, nil
		},
	}
	opts, err := newService(api).Backups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []admin.BackupOption{
		{Name: "a.gz", Label: "a.gz (2 KB)"},
		{Name: "b.gz", Label: "b.gz (0 KB)"},
	}, opts)
}

func TestSaveSchedule_Defaults(t *testing.T) {
	var got dto.BackupScheduleRequest
	api := &portsmock.Warehouse{
		SaveBackupScheduleFn: func(_ context.Context, req dto.BackupScheduleRequest) error {
			got = req
			return nil
		},
	}
	s := newService(api)

	require.NoError(t, s.SaveSchedule(context.Background(), admin.ScheduleInput{Enabled: true}))
	assert.Equal(t, dto.BackupScheduleRequest{Enabled: true, Interval: "diario", Time: "02:00", Retention: 7}, got)

	err := s.SaveSchedule(context.Background(), admin.ScheduleInput{Interval: "anual"})
	assert.Equal(t, "Intervalo inválido", domain.UserMessage(err, ""))
	err = s.SaveSchedule(context.Background(), admin.ScheduleInput{Time: "25:00"})
	assert.Equal(t, "Horário inválido (HH:MM)", domain.UserMessage(err, ""))
	err = s.SaveSchedule(context.Background(), admin.ScheduleInput{Retention: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, api.Count("SaveBackupSchedule"))
}

// ── Arquivamento ──────────────────────────────────────────────────────────────

func TestArchive(t *testing.T) {
	var got dto.ArchiveRequest
	api := &portsmock.Warehouse{
		ArchiveFn: func(_ context.Context, req dto.ArchiveRequest) (int, error) {
			got = req
			return 12, nil
		},
	}
	s := newService(api)

	_, err := s.Archive(context.Background(), " ", "{}")
	assert.Equal(t, "Informe a coleção", domain.UserMessage(err, ""))
	_, err = s.Archive(context.Background(), "movimentacoes", "{nope")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	moved, err := s.Archive(context.Background(), "movimentacoes", `{"ano": 2022}`)
	require.NoError(t, err)
	assert.Equal(t, 12, moved)
	assert.Equal(t, "movimentacoes", got.Collection)
	assert.Equal(t, map[string]any{"ano": float64(2022)}, got.Query)

	_, err = s.Archive(context.Background(), "x", "")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, got.Query)
}
