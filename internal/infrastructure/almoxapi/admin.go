package almoxapi

import (
	"context"
	"net/http"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
)

// ListBackups GET /api/admin/backup/list.
func (c *Client) ListBackups(ctx context.Context) ([]dto.BackupFile, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/admin/backup/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[dto.BackupFile](raw, "items")
}

// CreateBackup POST /api/admin/backup/create; devuelve el archivo generado.
func (c *Client) CreateBackup(ctx context.Context) (string, error) {
	var resp struct {
		File string `json:"file"`
	}
	if err := c.post(ctx, "/api/admin/backup/create", struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.File, nil
}

// RestoreBackup POST /api/admin/backup/restore.
func (c *Client) RestoreBackup(ctx context.Context, req dto.BackupRestoreRequest) error {
	return c.post(ctx, "/api/admin/backup/restore", req, nil)
}

// SaveBackupSchedule POST /api/admin/backup/schedule.
func (c *Client) SaveBackupSchedule(ctx context.Context, req dto.BackupScheduleRequest) error {
	return c.post(ctx, "/api/admin/backup/schedule", req, nil)
}

// Archive POST /api/admin/archive; devuelve cuántos documentos se movieron.
func (c *Client) Archive(ctx context.Context, req dto.ArchiveRequest) (int, error) {
	var resp struct {
		Moved flexInt `json:"moved"`
	}
	if err := c.post(ctx, "/api/admin/archive", req, &resp); err != nil {
		return 0, err
	}
	return resp.Moved.Value, nil
}

// ResetDatabase POST /api/admin/reset-db.
func (c *Client) ResetDatabase(ctx context.Context, req dto.ResetRequest) error {
	return c.post(ctx, "/api/admin/reset-db", req, nil)
}
