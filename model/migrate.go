package model

import (
	"fmt"

	"gorm.io/gorm"
)

// Models lists every table in dependency order: users, classes, class_schedules.
var Models = []interface{}{
	&User{},
	&Class{},
	&ClassSchedule{},
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	for _, m := range Models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}
	return nil
}
