package endpoint

import (
	"fmt"
	"testing"
	"time"

	"github.com/ariebrainware/tutorclass/config"
	"github.com/ariebrainware/tutorclass/middleware"
	"github.com/ariebrainware/tutorclass/model"
	"github.com/ariebrainware/tutorclass/util"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupEndpointTestDB opens a uniquely named in-memory SQLite database with
// the class tables migrated. Redis and the search cache are disabled.
func setupEndpointTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("APPENV", "test")
	config.SetRedisClientForTest(nil)
	util.ResetSearchCacheForTest()

	dsn := fmt.Sprintf("file:testdb_endpoint_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect test DB: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupEndpointTest returns a Gin engine with the test database injected.
func setupEndpointTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupEndpointTestDB(t)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	return r, db
}

// newTestRouter returns a new Gin engine without a database.
func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func dayPtr(v int) *weekDay {
	d := weekDay(v)
	return &d
}

// seedClass stores a tutor with one class and the given slots directly through gorm.
func seedClass(t *testing.T, db *gorm.DB, name, subject string, slots ...model.ClassSchedule) model.Class {
	t.Helper()
	user := model.User{Name: name, Avatar: "https://example.com/" + name + ".png", Whatsapp: "5511900000000", Bio: name + " bio"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	class := model.Class{Subject: subject, Cost: 80, UserID: user.ID}
	if err := db.Omit("User", "Schedules").Create(&class).Error; err != nil {
		t.Fatalf("failed to seed class: %v", err)
	}
	for i := range slots {
		slots[i].ClassID = class.ID
	}
	if len(slots) > 0 {
		if err := db.Create(&slots).Error; err != nil {
			t.Fatalf("failed to seed schedules: %v", err)
		}
	}
	return class
}
