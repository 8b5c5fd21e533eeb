// Package prefs guarda las preferencias de cada usuario en un archivo JSON propio,
// leído y escrito con Viper.
package prefs

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/jhoicas/painel-almoxarifado/internal/application/dto"
)

// Claves del archivo. movs.per_page queda anidada como {"movs": {"per_page": N}}.
const (
	keyPerPageEstoque = "per_page_estoque"
	keyMovsPerPage    = "movs.per_page"
	keyDarkMode       = "dark_mode"
)

// FileStore implementa ports.PreferenceStore sobre un directorio.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore crea el directorio si no existe.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("prefs: crear %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Load lee las preferencias del usuario; un usuario sin archivo recibe valores cero.
func (s *FileStore) Load(_ context.Context, userID string) (dto.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := viper.New()
	v.SetConfigFile(s.path(userID))
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dto.Preferences{}, nil
		}
		return dto.Preferences{}, fmt.Errorf("prefs: leer %s: %w", userID, err)
	}
	return dto.Preferences{
		PerPageEstoque: v.GetInt(keyPerPageEstoque),
		MovsPerPage:    v.GetInt(keyMovsPerPage),
		DarkMode:       v.GetBool(keyDarkMode),
	}, nil
}

// Save reemplaza el archivo del usuario.
func (s *FileStore) Save(ctx context.Context, userID string, p dto.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := viper.New()
	v.Set(keyPerPageEstoque, p.PerPageEstoque)
	v.Set(keyMovsPerPage, p.MovsPerPage)
	v.Set(keyDarkMode, p.DarkMode)

	final := s.path(userID)
	tmp := strings.TrimSuffix(final, ".json") + ".tmp.json"
	if err := v.WriteConfigAs(tmp); err != nil {
		return fmt.Errorf("prefs: escribir %s: %w", userID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("prefs: reemplazar %s: %w", userID, err)
	}
	return nil
}

// path nombre de archivo derivado del id; el id puede traer caracteres no válidos en rutas.
func (s *FileStore) path(userID string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(userID))+".json")
}
