package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultSearchCacheTTL = 60 * time.Second
	defaultRateLimit      = 10
	defaultRateWindow     = time.Minute
)

// Config holds the application's configuration values.
type Config struct {
	AppName  string `json:"appname"`
	AppEnv   string `json:"appenv"`
	AppPort  uint16 `json:"appport"`
	GinMode  string `json:"ginmode"`
	LogLevel string `json:"loglevel"`
	DBDriver string `json:"dbdriver"`
	DBHost   string `json:"dbhost"`
	DBPort   uint16 `json:"dbport"`
	DBName   string `json:"dbname"`
	DBUSER   string `json:"dbuser"`
	DBPass   string `json:"dbpass"`

	SearchCacheTTL time.Duration `json:"search_cache_ttl"`
	RateLimit      int           `json:"rate_limit"`
	RateWindow     time.Duration `json:"rate_window"`
}

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
func LoadConfig() *Config {
	once.Do(func() {
		// A missing .env is only fatal in production, where every key must be provided.
		if err := godotenv.Load(); err != nil && os.Getenv("APPENV") == "production" {
			log.Fatalf("Error loading .env file: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		config = &Config{
			AppName:        getEnv("APPNAME", "tutorclass"),
			AppEnv:         os.Getenv("APPENV"),
			AppPort:        uint16(appPort),
			GinMode:        getEnv("GINMODE", "release"),
			LogLevel:       getEnv("LOGLEVEL", "info"),
			DBDriver:       strings.ToLower(getEnv("DBDRIVER", "mysql")),
			DBHost:         os.Getenv("DBHOST"),
			DBPort:         uint16(dbPort),
			DBName:         os.Getenv("DBNAME"),
			DBUSER:         os.Getenv("DBUSER"),
			DBPass:         os.Getenv("DBPASS"),
			SearchCacheTTL: getSeconds("SEARCH_CACHE_TTL", defaultSearchCacheTTL),
			RateLimit:      getInt("RATE_LIMIT", defaultRateLimit),
			RateWindow:     getSeconds("RATE_WINDOW", defaultRateWindow),
		}
		if config.AppPort == 0 {
			config.AppPort = 3333
		}
	})
	return config
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getSeconds(key string, fallback time.Duration) time.Duration {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}

// IsTestEnv reports whether the process runs with APPENV=test.
func IsTestEnv() bool {
	return os.Getenv("APPENV") == "test"
}

// DSN builds the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUSER, c.DBPass, c.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.DBUSER, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// ConnectMySQL establishes a connection to the configured database.
// MySQL is the default; DBDRIVER=postgres switches to PostgreSQL and
// APPENV=test uses a shared in-memory SQLite database.
func ConnectMySQL() (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if IsTestEnv() {
		return gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormCfg)
	}

	cfg := LoadConfig()
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DBDRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	return db, nil
}
