package ports

import (
	"context"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
)

// PreferenceStore persistencia de las preferencias de cada usuario.
// Se lee una vez al crear el workspace y se escribe en cada cambio.
type PreferenceStore interface {
	Load(ctx context.Context, userID string) (dto.Preferences, error)
	Save(ctx context.Context, userID string, p dto.Preferences) error
}
