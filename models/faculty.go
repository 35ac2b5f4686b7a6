package models

import "time"

type Faculty struct {
	ID           uint64    `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"column:name;type:varchar(255);not null;index"`
	Department   string    `json:"department" gorm:"column:department;type:varchar(255);not null"`
	Position     string    `json:"position" gorm:"column:position;type:varchar(255)"`
	NameVariants []byte    `json:"name_variants,omitempty" gorm:"column:name_variants;type:json"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Faculty) TableName() string { return "faculty" }
