package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	Planning PlanningConfig
	Pallet   PalletConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production, memory
	Name     string
	LogLevel string
}

// UsesMemoryStore indica si la app corre sin PostgreSQL (demo / pruebas manuales).
func (c AppConfig) UsesMemoryStore() bool {
	return c.Env == "memory"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // aplicar migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// RedisConfig configuración del lock distribuido. Addr vacío = lock en proceso.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled indica si hay un Redis configurado.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// PlanningConfig parámetros de planeación semanal.
type PlanningConfig struct {
	LockTTL   time.Duration // lease del lock de confirmación / resolución
	WeekStart time.Weekday
}

// PalletConfig perfil global de estiba (pulgadas / libras).
type PalletConfig struct {
	Length         decimal.Decimal
	Width          decimal.Decimal
	MaxStackHeight decimal.Decimal
	MaxWeight      decimal.Decimal
	DeckHeight     decimal.Decimal
	MaxHeight      decimal.Decimal // altura total cargada, incluye la tarima
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, PALLET_MAX_WEIGHT, etc.
func Load() (*Config, error) {
	v := viper.New()

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

	stackHeight := getDecimal(v, "PALLET_MAX_STACK_HEIGHT", decimal.NewFromInt(60))
	deckHeight := getDecimal(v, "PALLET_DECK_HEIGHT", decimal.NewFromInt(6))

	weekStart, err := parseWeekday(getString(v, "PLANNING_WEEK_START", "monday"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "fulfillment-planner"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "fulfillment_planner"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "fulfillment-planner"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Planning: PlanningConfig{
			LockTTL:   time.Duration(getInt(v, "PLANNING_LOCK_TTL_SECONDS", 30)) * time.Second,
			WeekStart: weekStart,
		},
		Pallet: PalletConfig{
			Length:         getDecimal(v, "PALLET_LENGTH", decimal.NewFromInt(48)),
			Width:          getDecimal(v, "PALLET_WIDTH", decimal.NewFromInt(40)),
			MaxStackHeight: stackHeight,
			MaxWeight:      getDecimal(v, "PALLET_MAX_WEIGHT", decimal.NewFromInt(2500)),
			DeckHeight:     deckHeight,
			MaxHeight:      getDecimal(v, "PALLET_MAX_HEIGHT", stackHeight.Add(deckHeight)),
		},
	}

	if cfg.Planning.LockTTL <= 0 {
		return nil, fmt.Errorf("config: PLANNING_LOCK_TTL_SECONDS debe ser positivo")
	}
	return cfg, nil
}

func parseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday", "domingo":
		return time.Sunday, nil
	case "monday", "lunes", "":
		return time.Monday, nil
	case "saturday", "sabado", "sábado":
		return time.Saturday, nil
	}
	return time.Monday, fmt.Errorf("config: PLANNING_WEEK_START inválido: %q", s)
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
			n, err := strconv.Atoi(v.GetString(key))
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
		return v.GetBool(key)
	}
	return def
}

func getDecimal(v *viper.Viper, key string, def decimal.Decimal) decimal.Decimal {
	if !v.IsSet(key) {
		return def
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return d
}
