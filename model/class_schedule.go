package model

import "gorm.io/gorm"

// ClassSchedule is a weekly recurring window during which a class is taught.
// From and To are minutes since midnight; a slot covers From <= t < To.
type ClassSchedule struct {
	gorm.Model
	ClassID uint `json:"class_id" gorm:"column:class_id;not null;index"`
	WeekDay int  `json:"week_day" gorm:"column:week_day;not null"`
	From    int  `json:"from" gorm:"column:from;not null"`
	To      int  `json:"to" gorm:"column:to;not null"`
}

// Covers reports whether the slot covers minute t of weekDay.
func (s ClassSchedule) Covers(weekDay, t int) bool {
	return s.WeekDay == weekDay && s.From <= t && t < s.To
}
