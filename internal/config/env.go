package config

import (
	"strings"

	"github.com/guironm/crew-center/internal/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr string
	GinMode string

	StoreDriver   string
	DatabaseDSN   string
	DBAutoMigrate bool

	SeedOnStart       bool
	SeedEmployeeCount int
	RandomUserAPIURL  string
	RandomUserRPS     float64

	CORSAllowedOrigins []string

	AuthJWTSecret     string
	AdminEmail        string
	AdminPasswordHash string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("STORE_DRIVER", "memory")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("SEED_EMPLOYEE_COUNT", 50)
	v.SetDefault("RANDOM_USER_API_URL", "https://randomuser.me/api/")
	v.SetDefault("RANDOM_USER_RPS", 2)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("ADMIN_EMAIL", "admin@crew.center")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
}

// LoadEnv reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadEnv() Env {
	_ = godotenv.Load()
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return v
}

// FromViper maps settings onto Env. Exposed for tests.
func FromViper(v *viper.Viper) Env {
	appAddr := strings.TrimSpace(v.GetString("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	if driver == "" {
		driver = "memory"
	}

	count := v.GetInt("SEED_EMPLOYEE_COUNT")
	if count < 0 {
		count = 0
	}

	return Env{
		AppAddr:            appAddr,
		GinMode:            strings.TrimSpace(v.GetString("GIN_MODE")),
		StoreDriver:        driver,
		DatabaseDSN:        strings.TrimSpace(v.GetString("DATABASE_DSN")),
		DBAutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),
		SeedOnStart:        v.GetBool("SEED_ON_START"),
		SeedEmployeeCount:  count,
		RandomUserAPIURL:   strings.TrimSpace(v.GetString("RANDOM_USER_API_URL")),
		RandomUserRPS:      v.GetFloat64("RANDOM_USER_RPS"),
		CORSAllowedOrigins: utils.SplitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthJWTSecret:      v.GetString("AUTH_JWT_SECRET"),
		AdminEmail:         strings.TrimSpace(v.GetString("ADMIN_EMAIL")),
		AdminPasswordHash:  strings.TrimSpace(v.GetString("ADMIN_PASSWORD_HASH")),
	}
}

// AuthEnabled reports whether mutating routes require a bearer token.
func (e Env) AuthEnabled() bool {
	return e.AuthJWTSecret != ""
}
