package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfigForTest()
	defer ResetConfigForTest()
	for _, k := range []string{"APPNAME", "APPPORT", "GINMODE", "LOGLEVEL", "DBDRIVER", "SEARCH_CACHE_TTL", "RATE_LIMIT", "RATE_WINDOW"} {
		t.Setenv(k, "")
	}
	t.Setenv("APPENV", "test")

	cfg := LoadConfig()
	if cfg == nil {
		t.Fatalf("expected non-nil config")
	}
	assert.Equal(t, "tutorclass", cfg.AppName)
	assert.Equal(t, uint16(3333), cfg.AppPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultSearchCacheTTL, cfg.SearchCacheTTL)
	assert.Equal(t, defaultRateLimit, cfg.RateLimit)
	assert.Equal(t, defaultRateWindow, cfg.RateWindow)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	ResetConfigForTest()
	defer ResetConfigForTest()
	t.Setenv("APPENV", "test")
	t.Setenv("APPPORT", "8080")
	t.Setenv("DBDRIVER", "Postgres")
	t.Setenv("SEARCH_CACHE_TTL", "30")
	t.Setenv("RATE_LIMIT", "3")
	t.Setenv("RATE_WINDOW", "not-a-number")

	cfg := LoadConfig()
	assert.Equal(t, uint16(8080), cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
	assert.Equal(t, 3, cfg.RateLimit)
	assert.Equal(t, defaultRateWindow, cfg.RateWindow)
}

func TestConfigDSN(t *testing.T) {
	cfg := &Config{DBDriver: "mysql", DBHost: "db", DBPort: 3306, DBName: "proffy", DBUSER: "root", DBPass: "secret"}
	assert.Equal(t, "root:secret@tcp(db:3306)/proffy?parseTime=true", cfg.DSN())

	cfg.DBDriver = "postgres"
	cfg.DBPort = 5432
	assert.Equal(t, "host=db port=5432 user=root password=secret dbname=proffy sslmode=disable", cfg.DSN())
}

// ConnectMySQL falls back to in-memory sqlite when APPENV=test.
func TestConnectMySQL_TestEnv(t *testing.T) {
	t.Setenv("APPENV", "test")

	db, err := ConnectMySQL()
	if err != nil {
		t.Fatalf("ConnectMySQL failed in test env: %v", err)
	}
	if db == nil {
		t.Fatalf("expected non-nil DB connection")
	}
	assert.Equal(t, "sqlite", db.Dialector.Name())
}

func TestConnectMySQL_UnsupportedDriver(t *testing.T) {
	ResetConfigForTest()
	defer ResetConfigForTest()
	t.Setenv("APPENV", "development")
	t.Setenv("DBDRIVER", "oracle")

	db, err := ConnectMySQL()
	assert.Error(t, err)
	assert.Nil(t, db)
}
