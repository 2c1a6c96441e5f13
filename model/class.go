package model

import "gorm.io/gorm"

// Class represents a tutoring offering: one subject taught by one user at an hourly cost
// @Description Class information
type Class struct {
	gorm.Model
	Subject   string          `json:"subject" gorm:"column:subject;type:varchar(255);not null;index" example:"Chemistry"`
	Cost      float64         `json:"cost" gorm:"column:cost;not null" example:"80"`
	UserID    uint            `json:"user_id" gorm:"column:user_id;not null;index" example:"1"`
	User      User            `json:"-"`
	Schedules []ClassSchedule `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ClassSearchResult is one row of a class search: the class joined with its
// owner's profile. ID is the class ID.
// @Description Class search result
type ClassSearchResult struct {
	ID       uint    `json:"id" gorm:"column:id" example:"1"`
	Subject  string  `json:"subject" gorm:"column:subject" example:"Chemistry"`
	Cost     float64 `json:"cost" gorm:"column:cost" example:"80"`
	UserID   uint    `json:"user_id" gorm:"column:user_id" example:"1"`
	Name     string  `json:"name" gorm:"column:name" example:"Diego Fernandes"`
	Avatar   string  `json:"avatar" gorm:"column:avatar" example:"https://github.com/diego3g.png"`
	Whatsapp string  `json:"whatsapp" gorm:"column:whatsapp" example:"5511999999999"`
	Bio      string  `json:"bio" gorm:"column:bio" example:"Enthusiast of the best advanced chemistry technologies"`
}
