package model

import "gorm.io/gorm"

// User represents a tutor profile
// @Description Tutor profile information
type User struct {
	gorm.Model
	Name     string  `json:"name" gorm:"column:name;type:varchar(255);not null" example:"Diego Fernandes"`
	Avatar   string  `json:"avatar" gorm:"column:avatar;type:varchar(512)" example:"https://github.com/diego3g.png"`
	Whatsapp string  `json:"whatsapp" gorm:"column:whatsapp;type:varchar(64)" example:"5511999999999"`
	Bio      string  `json:"bio" gorm:"column:bio;type:text" example:"Enthusiast of the best advanced chemistry technologies"`
	Classes  []Class `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
