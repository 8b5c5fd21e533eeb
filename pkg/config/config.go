package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Backend   BackendConfig
	JWT       JWTConfig
	Prefs     PrefsConfig
	Workspace WorkspaceConfig
	Dashboard DashboardConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	Timezone    string
	DocsEnabled bool
}

// Location zona horaria configurada; la local si no se puede cargar.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig backend REST del almoxarifado.
type BackendConfig struct {
	URL               string
	TimeoutSeconds    int
	MaxConcurrency    int // llamadas simultáneas en el recorrido de lotes
	ExpiryMaxProducts int
}

// Timeout duración de cada llamada.
func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// PrefsConfig directorio de preferencias por usuario.
type PrefsConfig struct {
	Dir string
}

// WorkspaceConfig ciclo de vida de los workspaces en memoria.
type WorkspaceConfig struct {
	IdleMinutes int
}

// IdleTimeout inactividad tras la que se cierra un workspace.
func (c WorkspaceConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleMinutes) * time.Minute
}

// DashboardConfig agregación del estoque.
type DashboardConfig struct {
	RollupUnknownPolicy string // bucket | almoxarifado
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "painel-almoxarifado"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			Timezone:    getString(v, "TIMEZONE", "America/Sao_Paulo"),
			DocsEnabled: getBool(v, "DOCS_ENABLED", false),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Backend: BackendConfig{
			URL:               getString(v, "BACKEND_URL", ""),
			TimeoutSeconds:    getInt(v, "BACKEND_TIMEOUT_SECONDS", 15),
			MaxConcurrency:    getInt(v, "BACKEND_MAX_CONCURRENCY", 4),
			ExpiryMaxProducts: getInt(v, "EXPIRY_MAX_PRODUCTS", 200),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "painel-almoxarifado"),
		},
		Prefs: PrefsConfig{
			Dir: getString(v, "PREFS_DIR", "./data/prefs"),
		},
		Workspace: WorkspaceConfig{
			IdleMinutes: getInt(v, "WORKSPACE_IDLE_MINUTES", 30),
		},
		Dashboard: DashboardConfig{
			RollupUnknownPolicy: getString(v, "ROLLUP_UNKNOWN_POLICY", "bucket"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Backend.URL) == "" {
		return fmt.Errorf("config: BACKEND_URL es obligatorio")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: BACKEND_TIMEOUT_SECONDS debe ser positivo")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
