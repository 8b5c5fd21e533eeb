// Package admin agrupa las operaciones de mantenimiento: backups, agendamiento,
// arquivamento y reset del banco. Restore y reset exigen la confirmación "APAGAR".
package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
	"github.com/jhoicas/painel-almoxarifado/internal/application/ports"
	"github.com/jhoicas/painel-almoxarifado/internal/application/view"
	"github.com/jhoicas/painel-almoxarifado/internal/domain"
)

// ConfirmationWord texto que habilita las operaciones destructivas.
const ConfirmationWord = "APAGAR"

// Modos de restauración.
const (
	RestoreReplace = "substituir"
	RestoreMerge   = "mesclar"
)

// Defaults del agendamiento.
const (
	DefaultInterval  = "diario"
	DefaultTime      = "02:00"
	DefaultRetention = 7
)

// intervals intervalos de agendamiento aceptados.
var intervals = []interface{}{"diario", "semanal", "mensal"}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Confirmed indica si el texto tecleado habilita una operación destructiva.
func Confirmed(text string) bool {
	return strings.ToUpper(strings.TrimSpace(text)) == ConfirmationWord
}

// BackupOption entrada del select de backups.
type BackupOption struct {
	Name  string `json:"name"`
	Label string `json:"label"` // "nome (N KB)"
}

// ScheduleInput formulario de agendamiento; ceros se completan con los defaults.
type ScheduleInput struct {
	Enabled   bool   `json:"enabled"`
	Interval  string `json:"interval"`
	Time      string `json:"time"`
	Retention int    `json:"retention"`
}

func (in ScheduleInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Interval, validation.In(intervals...).Error("Intervalo inválido")),
		validation.Field(&in.Time, validation.Match(clockRe).Error("Horário inválido (HH:MM)")),
		validation.Field(&in.Retention, validation.Min(1).Error("Retenção deve ser ao menos 1")),
	)
}

// WithDefaults completa los campos vacíos.
func (in ScheduleInput) WithDefaults() ScheduleInput {
	if strings.TrimSpace(in.Interval) == "" {
		in.Interval = DefaultInterval
	}
	if strings.TrimSpace(in.Time) == "" {
		in.Time = DefaultTime
	}
	if in.Retention == 0 {
		in.Retention = DefaultRetention
	}
	return in
}

// Service operaciones de administración.
type Service struct {
	api     ports.WarehouseAPI
	timeout time.Duration
	log     zerolog.Logger
}

// NewService construye el servicio.
func NewService(api ports.WarehouseAPI, timeout time.Duration, log zerolog.Logger) *Service {
	return &Service{api: api, timeout: timeout, log: log}
}

// Backups lista los archivos de backup con su etiqueta.
func (s *Service) Backups(ctx context.Context) ([]BackupOption, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	files, err := s.api.ListBackups(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin: listar backups: %w", err)
	}
	out := make([]BackupOption, 0, len(files))
	for _, f := range files {
		out = append(out, BackupOption{Name: f.Name, Label: BackupLabel(f)})
	}
	return out, nil
}

// BackupLabel "nome (round(size/1024) KB)".
func BackupLabel(f dto.BackupFile) string {
	kb := int64(math.Round(float64(f.Size) / 1024))
	return fmt.Sprintf("%s (%d KB)", f.Name, kb)
}

// CreateBackup genera un backup y devuelve el nombre del archivo.
func (s *Service) CreateBackup(ctx context.Context) (string, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	file, err := s.api.CreateBackup(ctx)
	if err != nil {
		return "", fmt.Errorf("admin: criar backup: %w", err)
	}
	s.log.Info().Str("file", file).Msg("backup criado")
	return file, nil
}

// Restore restaura un backup. Sin confirmación no llega a la red.
func (s *Service) Restore(ctx context.Context, file, mode, confirmation string) error {
	if !Confirmed(confirmation) {
		return domain.ErrConfirmationRequired
	}
	file = strings.TrimSpace(file)
	if file == "" {
		return domain.NewValidationError("Selecione um arquivo de backup")
	}
	if mode == "" {
		mode = RestoreReplace
	}
	if err := validation.Validate(mode, validation.In(RestoreReplace, RestoreMerge)); err != nil {
		return domain.NewValidationError("Modo de restauração inválido")
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.api.RestoreBackup(ctx, dto.BackupRestoreRequest{File: file, Mode: mode}); err != nil {
		return fmt.Errorf("admin: restaurar %s: %w", file, err)
	}
	s.log.Warn().Str("file", file).Str("mode", mode).Msg("backup restaurado")
	return nil
}

// SaveSchedule guarda el agendamiento de backups.
func (s *Service) SaveSchedule(ctx context.Context, in ScheduleInput) error {
	in = in.WithDefaults()
	if err := view.FirstError(in.Validate(), "interval", "time", "retention"); err != nil {
		return err
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	err := s.api.SaveBackupSchedule(ctx, dto.BackupScheduleRequest{
		Enabled: in.Enabled, Interval: in.Interval, Time: in.Time, Retention: in.Retention,
	})
	if err != nil {
		return fmt.Errorf("admin: agendamento: %w", err)
	}
	return nil
}

// Archive mueve a arquivo los documentos de collection que cumplen query (JSON; vacío = {}).
// Devuelve cuántos se movieron.
func (s *Service) Archive(ctx context.Context, collection, query string) (int, error) {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return 0, domain.NewValidationError("Informe a coleção")
	}
	q := map[string]any{}
	if raw := strings.TrimSpace(query); raw != "" {
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return 0, domain.NewValidationError("Query JSON inválida")
		}
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	moved, err := s.api.Archive(ctx, dto.ArchiveRequest{Collection: collection, Query: q})
	if err != nil {
		return 0, fmt.Errorf("admin: arquivar %s: %w", collection, err)
	}
	s.log.Info().Str("collection", collection).Int("moved", moved).Msg("arquivamento concluído")
	return moved, nil
}

// Reset zera el banco. Sin confirmación no llega a la red.
func (s *Service) Reset(ctx context.Context, preserveAdmin bool, confirmation string) error {
	if !Confirmed(confirmation) {
		return domain.ErrConfirmationRequired
	}
	ctx, cancel := s.bounded(ctx)
	defer cancel()
	if err := s.api.ResetDatabase(ctx, dto.ResetRequest{PreserveAdmin: preserveAdmin}); err != nil {
		return fmt.Errorf("admin: zerar banco: %w", err)
	}
	s.log.Warn().Bool("preserve_admin", preserveAdmin).Msg("banco zerado")
	return nil
}

func (s *Service) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}
